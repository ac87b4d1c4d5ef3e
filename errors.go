package fuzzdex

import "github.com/kailas-cloud/fuzzdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidArgument           = domain.ErrInvalidArgument
	ErrUnsupportedCollectionKind = domain.ErrUnsupportedCollectionKind
	ErrHostUnavailable           = domain.ErrHostUnavailable
	ErrInvalidEncoding           = domain.ErrInvalidEncoding
	ErrMalformedReply            = domain.ErrMalformedReply
)
