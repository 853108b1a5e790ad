package store

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/nhle/lacquer/internal/model"
)

// nullDate scans a DATE column into local midnight of that calendar day.
// Drivers disagree on how DATE comes back (time.Time in UTC, or text), so
// only the year, month and day are kept.
type nullDate struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (d *nullDate) Scan(value any) error {
	d.Time, d.Valid = time.Time{}, false

	var raw string
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.Local)
		d.Valid = true
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scanning date: unsupported type %T", value)
	}

	if len(raw) > len(model.DateLayout) {
		raw = raw[:len(model.DateLayout)]
	}
	t, err := time.ParseInLocation(model.DateLayout, raw, time.Local)
	if err != nil {
		return fmt.Errorf("scanning date %q: %w", raw, err)
	}
	d.Time, d.Valid = t, true
	return nil
}

// Ptr returns the date or nil.
func (d nullDate) Ptr() *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

// dateValue renders a due date for storage as YYYY-MM-DD.
func dateValue(t *time.Time) driver.Value {
	if t == nil {
		return nil
	}
	return t.Format(model.DateLayout)
}
