package client

import (
	"fmt"
	"time"

	"github.com/buger/jsonparser"
)

// Response is what every call observed, whatever the status.
type Response struct {
	HTTPStatus int
	// Message is the "message" member of the body, empty when absent.
	Message string
	// Fields holds per-field validation messages of a 400 answer.
	Fields    map[string]string
	RequestID string
	Duration  time.Duration
	Raw       []byte
}

func newResponse(status int, raw []byte) *Response {
	r := &Response{HTTPStatus: status, Raw: raw}
	if msg, err := jsonparser.GetString(raw, "message"); err == nil {
		r.Message = msg
	}
	if status >= 400 {
		r.Fields = validationFields(raw)
	}
	return r
}

func validationFields(raw []byte) map[string]string {
	fields := map[string]string{}
	_ = jsonparser.ObjectEach(raw, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		if dataType != jsonparser.String || string(key) == "message" {
			return nil
		}
		s, err := jsonparser.ParseString(value)
		if err == nil {
			fields[string(key)] = s
		}
		return nil
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Has reports whether the body carries a top level member named key.
func (r *Response) Has(key string) bool {
	_, _, _, err := jsonparser.Get(r.Raw, key)
	return err == nil
}

// Expect returns a *StatusError when the status differs from want.
func (r *Response) Expect(operation string, want int) error {
	if r.HTTPStatus == want {
		return nil
	}
	return &StatusError{Operation: operation, HTTPStatus: r.HTTPStatus, Want: want, Message: r.Message}
}

// StatusError records an answer whose status was not the expected one.
type StatusError struct {
	Operation  string
	HTTPStatus int
	Want       int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Want > 0 {
		return fmt.Sprintf("%s: expected HTTP %d, got %d: %s", e.Operation, e.Want, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("%s: unexpected HTTP %d: %s", e.Operation, e.HTTPStatus, e.Message)
}

// AsStatusError walks the cause chain looking for a *StatusError.
func AsStatusError(err error) (*StatusError, bool) {
	for err != nil {
		if se, ok := err.(*StatusError); ok {
			return se, true
		}
		switch e := err.(type) {
		case interface{ Cause() error }:
			err = e.Cause()
		case interface{ Unwrap() error }:
			err = e.Unwrap()
		default:
			return nil, false
		}
	}
	return nil, false
}
