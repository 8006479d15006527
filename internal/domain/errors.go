package domain

import (
	"errors"
	"strings"
)

// ErrorKind is the coarse class a pipeline failure belongs to
type ErrorKind string

const (
	KindInvalidInput       ErrorKind = "invalid_input"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindMalformedResponse  ErrorKind = "malformed_response"
	KindEmptyResult        ErrorKind = "empty_result"
)

// Error is a classified pipeline error. Code narrows the kind for callers
// that need to tell e.g. an unknown city from a geocoder outage.
type Error struct {
	Kind ErrorKind
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Msg != "" {
		b.WriteString(e.Msg)
	} else if e.Code != "" {
		b.WriteString(strings.ReplaceAll(e.Code, "_", " "))
	} else {
		b.WriteString(strings.ReplaceAll(string(e.Kind), "_", " "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by code, or by kind when the target carries no code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" {
		return t.Code == e.Code
	}
	return t.Kind == e.Kind
}

// Standard domain errors
var (
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrServiceUnavailable = &Error{Kind: KindServiceUnavailable}
	ErrMalformedResponse  = &Error{Kind: KindMalformedResponse}
	ErrEmptyResult        = &Error{Kind: KindEmptyResult}

	ErrInvalidCity          = &Error{Kind: KindInvalidInput, Code: "invalid_city", Msg: "location not recognized"}
	ErrGeocodingUnavailable = &Error{Kind: KindServiceUnavailable, Code: "geocoding_unavailable", Msg: "geocoding service unavailable"}
	ErrWeatherUnavailable   = &Error{Kind: KindServiceUnavailable, Code: "weather_unavailable", Msg: "weather service unavailable"}

	ErrMLUnreachable = &Error{Kind: KindServiceUnavailable, Code: "ml_unreachable", Msg: "unable to connect to ML service"}
	ErrMLTimeout     = &Error{Kind: KindServiceUnavailable, Code: "ml_timeout", Msg: "ML service timed out"}
	ErrMLServerError = &Error{Kind: KindServiceUnavailable, Code: "ml_server_error", Msg: "ML service temporarily unavailable"}
	ErrMLRejected    = &Error{Kind: KindServiceUnavailable, Code: "ml_rejected", Msg: "ML service rejected the request"}
	ErrMLNotFound    = &Error{Kind: KindServiceUnavailable, Code: "ml_not_found", Msg: "ML service endpoint not found"}
)

// NewError derives a new error from a sentinel, keeping its kind and code
func NewError(base *Error, msg string, err error) *Error {
	if msg == "" {
		msg = base.Msg
	}
	return &Error{Kind: base.Kind, Code: base.Code, Msg: msg, Err: err}
}

// KindOf returns the kind of a classified error, or "" for anything else
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsFallbackEligible reports whether err should trigger the degraded path.
// Malformed responses are treated like outages for fallback purposes.
func IsFallbackEligible(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) || errors.Is(err, ErrMalformedResponse)
}
