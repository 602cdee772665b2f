// Package apperr defines the error taxonomy shared by every service. Callers
// match kinds with errors.Is and render user-facing dialogs with DialogFor.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks bad user input caught before any network call.
	ErrValidation = errors.New("validation error")
	// ErrSessionExpired marks a gated operation invoked without a live session.
	ErrSessionExpired = errors.New("session expired")
	// ErrAuth marks a rejection from the authentication provider.
	ErrAuth = errors.New("auth error")
	// ErrNetwork marks a failed call to a store or upstream API.
	ErrNetwork = errors.New("network error")
	// ErrMalformedRecord marks a record with a missing or mistyped field.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrImageUpload marks a failed profile image upload.
	ErrImageUpload = errors.New("image upload error")
)

// Error carries a dialog title and body alongside the kind and the cause.
type Error struct {
	Kind    error
	Title   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func New(kind error, title, message string) *Error {
	return &Error{Kind: kind, Title: title, Message: message}
}

func Wrap(kind error, title string, err error) *Error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: kind, Title: title, Message: msg, Err: err}
}

func Validation(title, message string) *Error {
	return New(ErrValidation, title, message)
}

func SessionExpired() *Error {
	return New(ErrSessionExpired, "Session Expired", "Please login again to continue.")
}

func Network(err error) *Error {
	return Wrap(ErrNetwork, "Network Error", err)
}

func Malformed(format string, args ...any) *Error {
	return New(ErrMalformedRecord, "Data Error", fmt.Sprintf(format, args...))
}

// Dialog is the title+body pair the app shows for a failed operation.
type Dialog struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// DialogFor converts any error into a dialog, preferring the title and body
// carried by an *Error.
func DialogFor(err error) Dialog {
	var appErr *Error
	if errors.As(err, &appErr) {
		return Dialog{Title: appErr.Title, Message: appErr.Message}
	}

	switch {
	case errors.Is(err, ErrSessionExpired):
		return Dialog{Title: "Session Expired", Message: "Please login again to continue."}
	case errors.Is(err, ErrValidation):
		return Dialog{Title: "Input Error", Message: err.Error()}
	case errors.Is(err, ErrAuth):
		return Dialog{Title: "Authentication Error", Message: err.Error()}
	case errors.Is(err, ErrImageUpload):
		return Dialog{Title: "Image Upload Error", Message: err.Error()}
	case errors.Is(err, ErrMalformedRecord):
		return Dialog{Title: "Data Error", Message: err.Error()}
	case errors.Is(err, ErrNetwork):
		return Dialog{Title: "Network Error", Message: err.Error()}
	}
	return Dialog{Title: "Error", Message: err.Error()}
}
