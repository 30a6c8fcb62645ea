package db

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// InsufficientError reports a reservation that asked for more units than the
// locked inventory row holds.
type InsufficientError struct {
	Resource  string
	Requested int
	Available int
}

func (e InsufficientError) Error() string {
	return fmt.Sprintf("insufficient %s available. Requested: %d, Available: %d",
		e.Resource, e.Requested, e.Available)
}
