package chi

import (
	"errors"
	"net/http"

	"github.com/kailas-cloud/fuzzdex/internal/domain"
)

// ErrorCode is the machine-readable code of an error response.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest                ErrorCode = "bad_request"
	ErrorCodeUnauthorized              ErrorCode = "unauthorized"
	ErrorCodeInvalidArgument           ErrorCode = "invalid_argument"
	ErrorCodeInvalidEncoding           ErrorCode = "invalid_encoding"
	ErrorCodeUnsupportedCollectionKind ErrorCode = "unsupported_collection_kind"
	ErrorCodeHostUnavailable           ErrorCode = "host_unavailable"
	ErrorCodeInternalError             ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

var domainErrorHandlers = []errorHandler{
	sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, ErrorCodeInvalidArgument),
	sentinelHandler(domain.ErrInvalidEncoding, http.StatusBadRequest, ErrorCodeInvalidEncoding),
	sentinelHandler(domain.ErrUnsupportedCollectionKind,
		http.StatusUnprocessableEntity, ErrorCodeUnsupportedCollectionKind),
	sentinelHandler(domain.ErrHostUnavailable, http.StatusServiceUnavailable, ErrorCodeHostUnavailable),
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
// Invalid argument messages are produced by request validation and are safe to echo.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidArgument) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrInvalidEncoding,
		domain.ErrUnsupportedCollectionKind,
		domain.ErrHostUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}
