package emulation

import "errors"

var (
	// ErrUnknownFamily is returned for a class id with no registered family.
	ErrUnknownFamily = errors.New("unknown device family")
	// ErrUnknownOperation is returned by Invoke for names outside the family catalog.
	ErrUnknownOperation = errors.New("unknown operation")
)
