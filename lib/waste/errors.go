package waste

import (
	"encoding/json"
	"fmt"
)

// ErrorKind tags the three failure classes an adapter may surface.
// Nothing else crosses the adapter boundary.
type ErrorKind int

const (
	// the council's search found no record for the address
	KindAddressNotFound ErrorKind = iota
	// the council's system was unreachable, timed out, or answered
	// with a non-success status
	KindUpstreamFailure
	// the council answered but the payload didn't have the shape we
	// expect (unparseable JSON, HTML missing its markers, ...)
	KindMalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindAddressNotFound:
		return "address_not_found"
	case KindUpstreamFailure:
		return "upstream_failure"
	case KindMalformedResponse:
		return "malformed_response"
	}
	return "unknown"
}

// Error is the typed failure every adapter normalizes into.
type Error struct {
	Kind   ErrorKind
	Detail string
	// http status, when the failure was a non-success response
	StatusCode int
	cause      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NotFound(detail string) *Error {
	return &Error{Kind: KindAddressNotFound, Detail: detail}
}

func Upstream(detail string, cause error) *Error {
	return &Error{Kind: KindUpstreamFailure, Detail: detail, cause: cause}
}

func UpstreamStatus(detail string, status int) *Error {
	return &Error{Kind: KindUpstreamFailure, Detail: detail, StatusCode: status}
}

func Malformed(detail string, cause error) *Error {
	return &Error{Kind: KindMalformedResponse, Detail: detail, cause: cause}
}

// KindOf reports the kind of an adapter error. ok is false for nil and
// for errors that are not *Error (which indicates a bug in an adapter).
func KindOf(err error) (ErrorKind, bool) {
	perr, ok := err.(*Error)
	if !ok {
		return 0, false
	}
	return perr.Kind, true
}

// DecodeJSON unmarshals an external response body, converting parse
// failure into KindMalformedResponse instead of letting the raw
// encoding error escape an adapter.
func DecodeJSON(data []byte, v any, what string) error {
	err := json.Unmarshal(data, v)
	if err != nil {
		return Malformed(fmt.Sprintf("decoding %s", what), err)
	}
	return nil
}
