package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound = errors.New("not found")

	ErrNetworkUnreachable = errors.New("network unreachable")
	ErrHTTP               = errors.New("http error")
	ErrMalformedResponse  = errors.New("malformed response")
	ErrTimeout            = errors.New("timeout")
)

type ErrorKind int

const (
	KindNetworkUnreachable ErrorKind = iota + 1
	KindHTTPError
	KindMalformedResponse
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetworkUnreachable:
		return "NetworkUnreachable"
	case KindHTTPError:
		return "HttpError"
	case KindMalformedResponse:
		return "MalformedResponse"
	case KindTimeout:
		return "Timeout"
	}
	return "Unknown"
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNetworkUnreachable:
		return ErrNetworkUnreachable
	case KindHTTPError:
		return ErrHTTP
	case KindMalformedResponse:
		return ErrMalformedResponse
	case KindTimeout:
		return ErrTimeout
	}
	return nil
}

const fallbackMessage = "Could not fetch products. " +
	"Check that the backend is running, reachable and returns valid JSON."

// FetchError is the uniform failure of a catalog request.
//
// Status is set only for KindHTTPError. Detail carries the message the
// server sent, if any.
type FetchError struct {
	Kind   ErrorKind
	Status int
	Detail string
	Err    error
}

func (e *FetchError) Error() string {
	msg := e.Kind.String()
	if e.Kind == KindHTTPError {
		msg = fmt.Sprintf("%s %d", msg, e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// UserMessage is the text shown to the user for this failure.
func (e *FetchError) UserMessage() string {
	switch e.Kind {
	case KindHTTPError:
		if e.Detail != "" {
			return e.Detail
		}
		return fmt.Sprintf("Could not fetch products: %s.", http.StatusText(e.Status))
	case KindTimeout:
		return "Could not fetch products in time. Try again later."
	}
	return fallbackMessage
}

// Transient reports whether repeating the same request may succeed.
func (e *FetchError) Transient() bool {
	switch e.Kind {
	case KindNetworkUnreachable, KindTimeout:
		return true
	case KindHTTPError:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

// AsFetchError converts any error into a FetchError. Errors that are not
// already FetchErrors are treated as network failures.
func AsFetchError(err error) *FetchError {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &FetchError{Kind: KindNetworkUnreachable, Err: err}
}

// IsTransient reports whether err is a FetchError worth retrying.
func IsTransient(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Transient()
}
