package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the verification flow. Every typed error below matches
// exactly one of them through errors.Is.
var (
	ErrPlatformInit      = errors.New("platform binding unavailable")
	ErrNetwork           = errors.New("verification request failed")
	ErrRejected          = errors.New("verification rejected by server")
	ErrMalformedResponse = errors.New("malformed verification response")
)

// PlatformInitError means the host platform binding is missing or handed over
// data that cannot be used. It is fatal to the whole flow.
type PlatformInitError struct {
	Reason string
	Err    error
}

func (e *PlatformInitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *PlatformInitError) Unwrap() error        { return e.Err }
func (e *PlatformInitError) Is(target error) bool { return target == ErrPlatformInit }

// NetworkError means the request could not be sent or its response could not
// be read.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string        { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error        { return e.Err }
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// ServerRejection is a non-2xx answer from the verification endpoint. Detail
// holds the human-readable reason when the server supplied one.
type ServerRejection struct {
	StatusCode int
	Detail     string
}

func (e *ServerRejection) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP error! status: %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

func (e *ServerRejection) Is(target error) bool { return target == ErrRejected }

// ResponseParseError is a 2xx answer whose body is not valid JSON.
type ResponseParseError struct {
	Err error
}

func (e *ResponseParseError) Error() string        { return fmt.Sprintf("invalid response body: %v", e.Err) }
func (e *ResponseParseError) Unwrap() error        { return e.Err }
func (e *ResponseParseError) Is(target error) bool { return target == ErrMalformedResponse }
