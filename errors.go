package sitesnap

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These map failure categories of the archiving pipeline to machine-readable
// codes. Codes travel with errors across package boundaries so that callers
// can decide whether a failure is fatal to the run or only to a single page.
const (
	EINVALID    = "invalid"    // validation failed
	EINTERNAL   = "internal"   // internal error
	ENOTFOUND   = "not_found"  // entity does not exist (e.g. no sitemap discoverable)
	ETRANSPORT  = "transport"  // HTTP/network failure fetching robots.txt, sitemap, or resource
	EPARSE      = "parse"      // malformed XML or unrecognized sitemap root
	ENAVIGATION = "navigation" // browser failed to load a page or timed out
	ESCRIPT     = "script"     // in-page inlining procedure failed
	EIO         = "io"         // failed to create directory or write file
)

// Error represents an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	// Code is one of the E* constants above.
	Code string

	// Message is a human-readable description of the error.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("sitesnap error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper to construct an Error with a formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors return EINTERNAL; nil returns an empty string.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return a generic message; nil returns an empty string.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
