package types

import (
	"database/sql/driver"
	"fmt"

	"github.com/lib/pq"
)

// StringList maps a text[] column onto a plain string slice. Empty lists
// are stored as NULL.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}

	return pq.Array([]string(l)).Value()
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var strs []string
	if err := pq.Array(&strs).Scan(value); err != nil {
		return fmt.Errorf("failed to scan string list: %w", err)
	}

	*l = strs
	return nil
}
