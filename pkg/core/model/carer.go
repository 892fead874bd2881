package model

import (
	"fmt"
	"strings"
)

// CarerKind distinguishes onboarded users from placeholder carers
type CarerKind int

const (
	CarerUnassigned CarerKind = iota
	CarerReal
	CarerPlaceholder
)

// CarerRef identifies a carer as either a real user or a placeholder record.
// The two ID spaces are kept apart by Kind, so equal IDs of different kinds
// never collide as map keys.
type CarerRef struct {
	Kind CarerKind
	ID   string
}

func RealCarer(id string) CarerRef        { return CarerRef{Kind: CarerReal, ID: id} }
func PlaceholderCarer(id string) CarerRef { return CarerRef{Kind: CarerPlaceholder, ID: id} }

func (c CarerRef) IsZero() bool { return c.Kind == CarerUnassigned || c.ID == "" }

func (c CarerRef) IsPlaceholder() bool { return c.Kind == CarerPlaceholder }

// String renders the ref for logs and text formats; it is not used as a key
func (c CarerRef) String() string {
	switch c.Kind {
	case CarerReal:
		return "real:" + c.ID
	case CarerPlaceholder:
		return "placeholder:" + c.ID
	}
	return ""
}

// ParseCarerRef parses "real:<id>" or "placeholder:<id>". A bare id is a real carer.
func ParseCarerRef(s string) (CarerRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CarerRef{}, nil
	}
	kind, id, found := strings.Cut(s, ":")
	if !found {
		return RealCarer(s), nil
	}
	if id == "" {
		return CarerRef{}, fmt.Errorf("carer ref %q has an empty id", s)
	}
	switch kind {
	case "real":
		return RealCarer(id), nil
	case "placeholder":
		return PlaceholderCarer(id), nil
	}
	return CarerRef{}, fmt.Errorf("unknown carer kind %q in %q", kind, s)
}

func (c CarerRef) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *CarerRef) UnmarshalText(b []byte) error {
	ref, err := ParseCarerRef(string(b))
	if err != nil {
		return err
	}
	*c = ref
	return nil
}
