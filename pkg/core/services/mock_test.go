package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jakechorley/carecal/internal/config"
	"github.com/jakechorley/carecal/pkg/core/model"
)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// mockCalendarStore implements AggregateStore
type mockCalendarStore struct {
	shifts      map[string][]model.ShiftEntry
	leave       map[string][]model.LeaveRequest
	names       map[model.CarerRef]string
	memberships []model.NetworkMembership

	shiftsErr      map[string]error
	leaveErr       error
	namesErr       error
	membershipsErr error

	nameCalls   atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	release     chan struct{} // when set, FetchShifts blocks until it is closed or ctx ends
}

func (m *mockCalendarStore) FetchShifts(ctx context.Context, networkID string, rng model.DateRange) ([]model.ShiftEntry, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		prev := m.maxInFlight.Load()
		if n <= prev || m.maxInFlight.CompareAndSwap(prev, n) {
			break
		}
	}
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := m.shiftsErr[networkID]; err != nil {
		return nil, err
	}
	return m.shifts[networkID], nil
}

func (m *mockCalendarStore) FetchApprovedLeave(ctx context.Context, networkID string, rng model.DateRange) ([]model.LeaveRequest, error) {
	if m.leaveErr != nil {
		return nil, m.leaveErr
	}
	return m.leave[networkID], nil
}

func (m *mockCalendarStore) FetchCarerDisplayNames(ctx context.Context, carers []model.CarerRef) (map[model.CarerRef]string, error) {
	m.nameCalls.Add(1)
	if m.namesErr != nil {
		return nil, m.namesErr
	}
	out := make(map[model.CarerRef]string)
	for _, c := range carers {
		if name, ok := m.names[c]; ok {
			out[c] = name
		}
	}
	return out, nil
}

func (m *mockCalendarStore) FetchNetworkMemberships(ctx context.Context, callerID string) ([]model.NetworkMembership, error) {
	if m.membershipsErr != nil {
		return nil, m.membershipsErr
	}
	var out []model.NetworkMembership
	for _, mem := range m.memberships {
		if mem.CallerID == callerID {
			out = append(out, mem)
		}
	}
	return out, nil
}

// mockInstanceStore implements db.InstanceStore with a (chain, due key) unique index
type mockInstanceStore struct {
	mu        sync.Mutex
	instances map[string]model.RecurringEntity
	keys      map[string]bool

	getErr    error
	markErr   error
	insertErr error
	fetchErr  error
	marked    []string
}

func newMockInstanceStore(instances ...model.RecurringEntity) *mockInstanceStore {
	m := &mockInstanceStore{
		instances: make(map[string]model.RecurringEntity),
		keys:      make(map[string]bool),
	}
	for _, inst := range instances {
		m.instances[inst.ID] = inst
		if inst.DueDate != nil {
			m.keys[inst.ChainID()+"|due:"+inst.DueDate.String()] = true
		}
	}
	return m
}

func (m *mockInstanceStore) GetRecurringInstance(ctx context.Context, id string) (*model.RecurringEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	inst, ok := m.instances[id]
	if !ok {
		return nil, model.ErrInstanceNotFound
	}
	return &inst, nil
}

func (m *mockInstanceStore) MarkRecurringCompleted(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return m.markErr
	}
	inst := m.instances[id]
	inst.Completed = true
	m.instances[id] = inst
	m.marked = append(m.marked, id)
	return nil
}

func (m *mockInstanceStore) InsertRecurringInstance(ctx context.Context, entity model.RecurringEntity) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return false, m.insertErr
	}
	key := entity.ParentChainID + "|"
	if entity.DueDate != nil {
		key += "due:" + entity.DueDate.String()
	} else {
		key += "visible:" + entity.VisibleFrom.String()
	}
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	m.instances[entity.ID] = entity
	return true, nil
}

func (m *mockInstanceStore) FetchRecurringInstances(ctx context.Context, networkID string) ([]model.RecurringEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	var out []model.RecurringEntity
	for _, inst := range m.instances {
		if inst.NetworkID == networkID {
			out = append(out, inst)
		}
	}
	return out, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{SnapshotPath: "unused.yaml"}
	cfg.ApplyDefaults()
	return cfg
}
