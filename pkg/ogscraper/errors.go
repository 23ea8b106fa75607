package ogscraper

import (
	"context"
	"errors"
	"net"
	"os"
	"syscall"

	"og-scraper/internal/crawler"
	"og-scraper/internal/fields"
)

type Kind int

const (
	NotFound Kind = iota + 1
	Timeout
	Blacklisted
	ServerError
	DecodingFailure
	InvalidInput
	Misconfigured
)

var kindNames = map[Kind]string{
	NotFound:        "not_found",
	Timeout:         "timeout",
	Blacklisted:     "blacklisted",
	ServerError:     "server_error",
	DecodingFailure: "decoding_failure",
	InvalidInput:    "invalid_input",
	Misconfigured:   "misconfigured",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String; unknown names yield 0.
func ParseKind(s string) Kind {
	for k, name := range kindNames {
		if name == s {
			return k
		}
	}
	return 0
}

// Error is every failure Scrape returns. StatusCode is set for ServerError.
type Error struct {
	Kind       Kind
	Msg        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotFound        = &Error{Kind: NotFound, Msg: "page not found"}
	ErrTimeout         = &Error{Kind: Timeout, Msg: "time out"}
	ErrBlacklisted     = &Error{Kind: Blacklisted, Msg: "host name has been blacklisted"}
	ErrServerError     = &Error{Kind: ServerError, Msg: "server has run into an error"}
	ErrDecodingFailure = &Error{Kind: DecodingFailure, Msg: "could not decode page"}
	ErrInvalidInput    = &Error{Kind: InvalidInput, Msg: "invalid input"}
	ErrMisconfigured   = &Error{Kind: Misconfigured, Msg: "invalid field configuration"}
)

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// classify maps a fetch failure onto an error kind. Transport
// failures that match nothing more specific are reported as timeouts.
func classify(err error) *Error {
	var httpErr *crawler.HTTPError
	if errors.As(err, &httpErr) {
		e := newError(ServerError, ErrServerError.Msg, err)
		e.StatusCode = httpErr.StatusCode
		return e
	}
	var cfgErr *fields.ConfigError
	if errors.As(err, &cfgErr) {
		return newError(Misconfigured, ErrMisconfigured.Msg, err)
	}
	if isNotFound(err) {
		return newError(NotFound, ErrNotFound.Msg, err)
	}
	return newError(Timeout, ErrTimeout.Msg, err)
}

func isNotFound(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && !dnsErr.IsTimeout {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return false
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH)
}
