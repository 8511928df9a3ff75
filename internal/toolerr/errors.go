package toolerr

import (
	"errors"
	"fmt"
)

// Kind is the top-level class of a tool failure.
type Kind string

const (
	KindAuth             Kind = "auth_error"
	KindUnknownTool      Kind = "unknown_tool"
	KindInvalidArguments Kind = "invalid_arguments"
	KindRemote           Kind = "remote_error"
	KindStorage          Kind = "storage_error"
)

// Category refines a remote failure.
type Category string

const (
	CategoryNotFound         Category = "not_found"
	CategoryPermissionDenied Category = "permission_denied"
	CategoryRateLimited      Category = "rate_limited"
	CategoryQuotaExceeded    Category = "quota_exceeded"
	CategoryTransient        Category = "transient_server_error"
	CategoryOther            Category = "other"
)

// Error is the structured error every tool invocation failure is reduced to.
type Error struct {
	Kind     Kind
	Message  string
	Field    string   // set for KindInvalidArguments
	Category Category // set for KindRemote
	Status   int      // remote HTTP status, 0 if unknown
	Err      error
}

func (e *Error) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	case e.Category != "":
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Category, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches errors of the same kind, so errors.Is(err, toolerr.ErrAuth) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is matching by kind.
var (
	ErrAuth             = &Error{Kind: KindAuth}
	ErrUnknownTool      = &Error{Kind: KindUnknownTool}
	ErrInvalidArguments = &Error{Kind: KindInvalidArguments}
	ErrRemote           = &Error{Kind: KindRemote}
	ErrStorage          = &Error{Kind: KindStorage}
)

// Auth reports that no usable credential could be produced.
func Auth(err error, format string, args ...any) *Error {
	return &Error{Kind: KindAuth, Message: fmt.Sprintf(format, args...), Err: err}
}

// UnknownTool reports an invocation of a tool that is not registered.
func UnknownTool(name string) *Error {
	return &Error{Kind: KindUnknownTool, Message: fmt.Sprintf("unknown tool %q", name)}
}

// InvalidArgument reports an argument that is missing or cannot be coerced.
func InvalidArgument(field, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArguments, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Remote wraps a failure reported by a remote API.
func Remote(category Category, status int, err error) *Error {
	msg := "remote call failed"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: KindRemote, Category: category, Status: status, Message: msg, Err: err}
}

// Storage reports that the credential store could not be read or written.
func Storage(err error, format string, args ...any) *Error {
	return &Error{Kind: KindStorage, Message: fmt.Sprintf(format, args...), Err: err}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
