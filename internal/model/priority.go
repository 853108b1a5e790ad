package model

import (
	"encoding/json"
	"strings"
)

// Priority is a task priority level. The zero value means no priority.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists the seeded priority levels, lowest first.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority maps s to a known level. Unknown values yield
// PriorityNone and false.
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(strings.ToUpper(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, true
	default:
		return PriorityNone, false
	}
}

// Rank orders priorities for sorting: HIGH=3 down to none=0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// MarshalJSON encodes PriorityNone as null.
func (p Priority) MarshalJSON() ([]byte, error) {
	if p == PriorityNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON accepts null, a known level, or drops anything else.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*p = PriorityNone
		return nil
	}
	*p, _ = ParsePriority(*s)
	return nil
}
