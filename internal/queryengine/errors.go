package queryengine

import "errors"

// Sentinel errors the HTTP layer maps to 400.
var (
	ErrEmptyQuery      = errors.New("queryengine: q must not be empty")
	ErrLimitOutOfRange = errors.New("queryengine: limit must be in [1, 500]")
	ErrBulkEmpty       = errors.New("queryengine: queries must not be empty")
	ErrBulkTooMany     = errors.New("queryengine: queries must not exceed 100")
	ErrInvalidDomain   = errors.New("queryengine: domain must contain a tld separator")
)

// ErrIndexUnavailable is returned when the engine has no usable reader
// snapshot; the HTTP layer maps this to 500.
var ErrIndexUnavailable = errors.New("queryengine: index is not available")
