package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"

	openai "github.com/openai/openai-go/v3"
)

var (
	// ErrTransport marks failures to reach the endpoint or non-2xx replies.
	ErrTransport = errors.New("transport failure")

	// ErrMalformedResponse marks replies missing choices[0].message.content.
	ErrMalformedResponse = errors.New("malformed response")
)

// TransportError carries the HTTP status (0 when no response arrived).
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d: %v", ErrTransport, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// classifyError maps an error returned by the openai client onto the
// transport / malformed-response taxonomy.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &TransportError{StatusCode: apiErr.StatusCode, Err: err}
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &TransportError{Err: err}
	}

	if isDecodeError(err) {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &TransportError{Err: err}
}

// decodeErrorPrefix is how the SDK wraps failures to decode a 2xx body.
const decodeErrorPrefix = "error parsing response json"

// isDecodeError reports whether err came from unmarshaling the response body.
// A body cut short mid-object surfaces as io.ErrUnexpectedEOF.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, decodeErrorPrefix) ||
		strings.Contains(msg, "unmarshal") || strings.Contains(msg, "invalid character")
}
