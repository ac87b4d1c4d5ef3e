package domain

import "errors"

var (
	// ErrInvalidArgument signals a bad caller-supplied value (limit, needle, threshold).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupportedCollectionKind signals a key whose type cannot be scanned.
	ErrUnsupportedCollectionKind = errors.New("unsupported collection kind")
	// ErrHostUnavailable signals a failed round-trip to the store.
	ErrHostUnavailable = errors.New("host unavailable")
	// ErrInvalidEncoding signals a string that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid encoding")
	// ErrMalformedReply signals a store reply with an unexpected shape.
	ErrMalformedReply = errors.New("malformed store reply")
)
