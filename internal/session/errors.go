package session

import "errors"

var (
	// ErrSessionNotFound is returned for unknown or closed session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionClosed is returned when a message arrives after Close.
	ErrSessionClosed = errors.New("session closed")
	// ErrRateLimited is returned when the host exceeds the inbound message rate.
	ErrRateLimited = errors.New("message rate exceeded")
	// ErrBadMessage is returned for unknown or malformed messages.
	ErrBadMessage = errors.New("bad message")
)
