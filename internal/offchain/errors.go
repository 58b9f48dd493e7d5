package offchain

import (
	"errors"
	"fmt"
	"net/http"

	dErrors "votedesk/pkg/domain-errors"
)

// ErrCallFailed matches every error returned by the client, including network
// failures, via errors.Is.
var ErrCallFailed = errors.New("offchain call failed")

// ErrNetworkUnreachable matches transport failures by code.
var ErrNetworkUnreachable = dErrors.New(dErrors.CodeNetworkUnreachable, "offchain api unreachable")

// CallError sits under the domain error and records what the server said.
type CallError struct {
	StatusCode int
	ServerCode string
	Err        error
}

func (f *CallError) Error() string {
	if f.Err != nil {
		return f.Err.Error()
	}
	return fmt.Sprintf("offchain api status %d (%s)", f.StatusCode, f.ServerCode)
}

func (f *CallError) Unwrap() error { return f.Err }

func (f *CallError) Is(target error) bool { return target == ErrCallFailed }

// StatusCode returns the HTTP status of a failed call, or 0 for transport failures.
func StatusCode(err error) int {
	var f *CallError
	if errors.As(err, &f) {
		return f.StatusCode
	}
	return 0
}

func networkError(op string, err error) error {
	return &dErrors.Error{
		Code:    dErrors.CodeNetworkUnreachable,
		Message: op + ": offchain api unreachable",
		Err:     &CallError{Err: err},
	}
}

// statusError maps a non-2xx response to the error taxonomy. The server's description
// becomes the message verbatim.
func statusError(op string, status int, body ErrorResponse) error {
	code := dErrors.CodeOffchainCallFailed
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		code = dErrors.CodeUnauthorized
	case http.StatusNotFound:
		code = dErrors.CodeNotFound
	}
	msg := body.Description
	if msg == "" {
		msg = fmt.Sprintf("%s: unexpected status %d", op, status)
	}
	return &dErrors.Error{
		Code:    code,
		Message: msg,
		Err:     &CallError{StatusCode: status, ServerCode: body.Error},
	}
}

func decodeError(op string, status int, err error) error {
	return &dErrors.Error{
		Code:    dErrors.CodeOffchainCallFailed,
		Message: op + ": malformed response",
		Err:     &CallError{StatusCode: status, Err: err},
	}
}
