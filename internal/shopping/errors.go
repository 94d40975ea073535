package shopping

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate is returned when a date is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")
	// ErrInvalidRange is returned when the start date is after the end date.
	ErrInvalidRange = errors.New("start date is after end date")
	// ErrRangeTooLarge is returned when a range spans more than MaxRangeDays.
	ErrRangeTooLarge = fmt.Errorf("date range exceeds %d days", MaxRangeDays)
	// ErrMissingUser is returned when no acting user is supplied.
	ErrMissingUser = errors.New("user id is required")
	// ErrUnknownUser is returned when the user id does not match a user.
	ErrUnknownUser = errors.New("user not found")
)

// RetrievalError reports a failed repository read. No shopping list has been
// written when a RetrievalError is returned.
type RetrievalError struct {
	Op  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieve %s: %v", e.Op, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}
