package db

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jakechorley/carecal/pkg/core/model"
	"github.com/jakechorley/carecal/pkg/core/recurrence"
)

// Profile is an onboarded user's display profile
type Profile struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Placeholder is a carer recorded before they have an account.
// LinkedUserID is set once they sign up with a matching email.
type Placeholder struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Email        string `yaml:"email,omitempty"`
	LinkedUserID string `yaml:"linkedUserID,omitempty"`
}

// Snapshot is the on-disk fixture format of the in-memory store
type Snapshot struct {
	Profiles     []Profile                 `yaml:"profiles"`
	Placeholders []Placeholder             `yaml:"placeholders"`
	Memberships  []model.NetworkMembership `yaml:"memberships"`
	Shifts       []model.ShiftEntry        `yaml:"shifts"`
	Leave        []model.LeaveRequest      `yaml:"leave"`
	Recurring    []model.RecurringEntity   `yaml:"recurring"`
}

// MemStore is an in-memory Database backed by a Snapshot.
// It is safe for concurrent use and enforces the recurring-instance unique key.
type MemStore struct {
	mu       sync.RWMutex
	snap     Snapshot
	dueKeys  map[string]string // chain|dueKey -> instance id
	byID     map[string]int    // instance id -> index in snap.Recurring
	failWith error
}

// NewMemStore creates a store over snap. Duplicate (chain, due key) pairs in
// the snapshot are rejected the same way a unique index would reject them.
func NewMemStore(snap Snapshot) (*MemStore, error) {
	m := &MemStore{
		dueKeys: make(map[string]string),
		byID:    make(map[string]int),
	}
	recurring := snap.Recurring
	snap.Recurring = nil
	m.snap = snap

	for _, r := range recurring {
		created, err := m.insert(r)
		if err != nil {
			return nil, fmt.Errorf("invalid recurring instance %s: %w", r.ID, err)
		}
		if !created {
			return nil, fmt.Errorf("duplicate recurring instance %s in chain %s", r.ID, r.ChainID())
		}
	}
	return m, nil
}

// LoadSnapshot reads a YAML snapshot file into a new MemStore
func LoadSnapshot(path string) (*MemStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file: %w", err)
	}

	return NewMemStore(snap)
}

// FailWith makes every subsequent read and write return err; nil clears it.
// It stands in for an unreachable backend.
func (m *MemStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// FetchShifts returns the network's shifts dated inside rng
func (m *MemStore) FetchShifts(ctx context.Context, networkID string, rng model.DateRange) ([]model.ShiftEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	shifts := make([]model.ShiftEntry, 0)
	for _, s := range m.snap.Shifts {
		if s.NetworkID == networkID && rng.Contains(s.Date) {
			shifts = append(shifts, s)
		}
	}
	return shifts, nil
}

// FetchApprovedLeave returns the network's approved leave overlapping rng
func (m *MemStore) FetchApprovedLeave(ctx context.Context, networkID string, rng model.DateRange) ([]model.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	leave := make([]model.LeaveRequest, 0)
	for _, l := range m.snap.Leave {
		if l.NetworkID == networkID && l.Status == model.LeaveApproved && rng.Overlaps(l.Start, l.End) {
			leave = append(leave, l)
		}
	}
	return leave, nil
}

// FetchCarerDisplayNames prefers a real profile name, including the profile a
// placeholder has been linked to, and falls back to the placeholder's own name
func (m *MemStore) FetchCarerDisplayNames(ctx context.Context, carers []model.CarerRef) (map[model.CarerRef]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	profiles := make(map[string]string, len(m.snap.Profiles))
	for _, p := range m.snap.Profiles {
		profiles[p.ID] = p.Name
	}
	placeholders := make(map[string]Placeholder, len(m.snap.Placeholders))
	placeholderByUser := make(map[string]Placeholder)
	for _, p := range m.snap.Placeholders {
		placeholders[p.ID] = p
		if p.LinkedUserID != "" {
			placeholderByUser[p.LinkedUserID] = p
		}
	}

	names := make(map[model.CarerRef]string, len(carers))
	for _, c := range carers {
		var name string
		switch c.Kind {
		case model.CarerReal:
			name = profiles[c.ID]
			if name == "" {
				name = placeholderByUser[c.ID].Name
			}
		case model.CarerPlaceholder:
			p := placeholders[c.ID]
			if p.LinkedUserID != "" {
				name = profiles[p.LinkedUserID]
			}
			if name == "" {
				name = p.Name
			}
		}
		if name != "" {
			names[c] = name
		}
	}
	return names, nil
}

// FetchNetworkMemberships returns the caller's memberships in snapshot order
func (m *MemStore) FetchNetworkMemberships(ctx context.Context, callerID string) ([]model.NetworkMembership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	memberships := make([]model.NetworkMembership, 0)
	for _, mem := range m.snap.Memberships {
		if mem.CallerID == callerID {
			memberships = append(memberships, mem)
		}
	}
	return memberships, nil
}

// GetRecurringInstance returns a copy of the instance, or ErrInstanceNotFound
func (m *MemStore) GetRecurringInstance(ctx context.Context, id string) (*model.RecurringEntity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	i, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrInstanceNotFound, id)
	}
	inst := m.snap.Recurring[i]
	return &inst, nil
}

// MarkRecurringCompleted sets the completion flag; completing twice is a no-op
func (m *MemStore) MarkRecurringCompleted(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}

	i, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrInstanceNotFound, id)
	}
	m.snap.Recurring[i].Completed = true
	return nil
}

// InsertRecurringInstance adds entity unless its chain already has the same due key
func (m *MemStore) InsertRecurringInstance(ctx context.Context, entity model.RecurringEntity) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}
	return m.insert(entity)
}

// insert must be called with the write lock held (or before the store is shared).
// Undated instances have no due key and, like NULLs under a unique index, never conflict.
func (m *MemStore) insert(entity model.RecurringEntity) (bool, error) {
	if entity.ID == "" {
		return false, fmt.Errorf("recurring instance has no id")
	}
	if _, exists := m.byID[entity.ID]; exists {
		return false, fmt.Errorf("recurring instance id %s already used", entity.ID)
	}

	if key, err := recurrence.DueKey(entity); err == nil {
		composite := entity.ChainID() + "|" + key
		if _, exists := m.dueKeys[composite]; exists {
			return false, nil
		}
		m.dueKeys[composite] = entity.ID
	}

	m.byID[entity.ID] = len(m.snap.Recurring)
	m.snap.Recurring = append(m.snap.Recurring, entity)
	return true, nil
}

// FetchRecurringInstances lists a network's instances; an empty networkID lists all
func (m *MemStore) FetchRecurringInstances(ctx context.Context, networkID string) ([]model.RecurringEntity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	instances := make([]model.RecurringEntity, 0)
	for _, r := range m.snap.Recurring {
		if networkID == "" || r.NetworkID == networkID {
			instances = append(instances, r)
		}
	}
	return instances, nil
}
