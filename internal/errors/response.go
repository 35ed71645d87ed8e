package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/gymflow/internal/utils"
)

const (
	// NetworkMessage is shown when the server could not be reached at all.
	NetworkMessage = "Cannot reach server. Check your internet connection and try again."
	// TimeoutMessage is shown when the server did not answer within the client timeout.
	TimeoutMessage = "The server took too long to respond. Please try again."
	// GenericMessage is the last-resort display text.
	GenericMessage = "Something went wrong"
)

// ResponseError is a non-2xx answer from the API. Body holds the raw payload so it can
// be rendered by DisplayMessage.
type ResponseError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap maps the status code onto the error taxonomy so callers can use errors.Is.
func (e *ResponseError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusBadRequest:
		return ErrValidation
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode >= http.StatusInternalServerError:
		return ErrServer
	}
	return nil
}

// NetworkError is a request that failed before any response arrived.
type NetworkError struct {
	Method  string
	Path    string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	kind := ErrNetwork
	if e.Timeout {
		kind = ErrTimeout
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Method, e.Path, kind, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	if e.Timeout {
		return []error{ErrTimeout, ErrNetwork, e.Err}
	}
	return []error{ErrNetwork, e.Err}
}

// UserMessage is the annotation shown instead of the transport error text.
func (e *NetworkError) UserMessage() string {
	if e.Timeout {
		return TimeoutMessage
	}
	return NetworkMessage
}

// DisplayError pairs an error with the sentence shown to the user in its place.
type DisplayError struct {
	Err     error
	Message string
}

func (e *DisplayError) Error() string {
	return e.Err.Error()
}

func (e *DisplayError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown instead of the wrapped error.
func (e *DisplayError) UserMessage() string {
	return e.Message
}

// DisplayMessage turns any error into a single human-readable string. It never panics.
func DisplayMessage(err error) (msg string) {
	if err == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			msg = GenericMessage
		}
	}()

	var annotated interface{ UserMessage() string }
	if As(err, &annotated) {
		return annotated.UserMessage()
	}

	var respErr *ResponseError
	if As(err, &respErr) {
		if m, ok := PayloadMessage(respErr.Body); ok {
			return m
		}
	}

	if m := err.Error(); m != "" {
		return m
	}
	return GenericMessage
}

// PayloadMessage renders a server error payload. ok is false when the payload carries
// nothing displayable.
func PayloadMessage(body []byte) (string, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false
	}
	if !json.Valid(trimmed) {
		return string(trimmed), true
	}

	switch trimmed[0] {
	case '{':
		fields, err := orderedFields(trimmed)
		if err != nil {
			return string(trimmed), true
		}
		for _, f := range fields {
			if f.key != "detail" {
				continue
			}
			var detail string
			if json.Unmarshal(f.raw, &detail) == nil {
				return detail, true
			}
		}
		lines := make([]string, 0, len(fields))
		for _, f := range fields {
			lines = append(lines, f.key+": "+fieldText(f.raw))
		}
		if len(lines) == 0 {
			return "", false
		}
		return strings.Join(lines, "\n"), true
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s, true
		}
	}
	return string(trimmed), true
}

type field struct {
	key string
	raw json.RawMessage
}

// orderedFields decodes a JSON object keeping the server's key order.
func orderedFields(b []byte) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		fields = append(fields, field{key: key, raw: raw})
	}
	return fields, nil
}

func fieldText(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var list []any
	if json.Unmarshal(raw, &list) == nil {
		return utils.JoinAny(list, " ")
	}
	return string(raw)
}
