package fixture

import "errors"

// Configuration errors returned by NewTransport.
var (
	ErrNoStore     = errors.New("fixture store is required")
	ErrInvalidMode = errors.New("invalid fixture mode")
)

// ErrMalformedRecord is reported by ParseRecord for records that decode
// but cannot describe a response.
var ErrMalformedRecord = errors.New("malformed response record")
