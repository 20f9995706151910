package groupsend

import (
	"errors"
	"fmt"

	"github.com/rpdg/groupsend/window"
)

// Kind classifies a failure so callers can pick a retry or fallback policy
// without parsing messages.
type Kind string

const (
	// KindConfig covers a missing or unparseable configuration document.
	KindConfig Kind = "CONFIG"

	// KindResource covers missing external resources: template images, the
	// application executable.
	KindResource Kind = "RESOURCE"

	// KindTiming covers UI state that did not settle within the bounded
	// number of retries (window never appeared, never took focus).
	KindTiming Kind = "TIMING"

	// KindUnexpected covers failures of OS or library calls.
	KindUnexpected Kind = "UNEXPECTED"
)

var (
	// ErrUnsupportedPlatform implies desktop automation was requested on a non-Windows build.
	ErrUnsupportedPlatform = window.ErrUnsupportedPlatform

	// ErrWindowNotFound implies no top-level window title contains the requested text.
	ErrWindowNotFound = errors.New("window not found")
)

// Error is the error type returned across component boundaries.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	prefix := fmt.Sprintf("[%s]", e.Kind)
	if e.Op != "" {
		prefix += " " + e.Op + ":"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s", prefix, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match when target is an *Error of the same Kind, so
// errors.Is(err, &Error{Kind: KindTiming}) works through wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
	}
	return false
}

func NewError(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Message: msg}
}

func Errorf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns nil when err is nil.
func Wrap(err error, kind Kind, op, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Message: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, KindUnexpected
// for any other non-nil error, and "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}
