package portalproxy

import "errors"

var (
	// ErrMissingURL is returned when the request carries no target URL.
	ErrMissingURL = errors.New("url parameter required")
	// ErrInvalidURL is returned for targets that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrUpstream wraps transport failures talking to the portal.
	ErrUpstream = errors.New("portal unreachable")
)
