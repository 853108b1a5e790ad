package service

import (
	"strings"
	"time"

	"github.com/nhle/lacquer/internal/model"
)

// ParseDueDate parses a YYYY-MM-DD string as midnight in loc. An empty
// string means no date.
func ParseDueDate(value string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(model.DateLayout, value, loc)
	if err != nil {
		return nil, invalid("Invalid due date %q, expected YYYY-MM-DD", value)
	}
	return &t, nil
}

// ParseDueDate parses value in the service's zone.
func (s *Service) ParseDueDate(value string) (*time.Time, error) {
	return ParseDueDate(value, s.loc)
}

// dateOnly truncates t to midnight of its calendar day in the service's zone.
func (s *Service) dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	local := t.In(s.loc)
	d := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return &d
}
