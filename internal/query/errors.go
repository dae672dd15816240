package query

import (
	"errors"
	"fmt"
)

// Level is the process exit status a query outcome maps to. The ordinal
// values are stable for scripting.
type Level int

const (
	LevelOK       Level = iota // successful query
	LevelNotFound              // failed query
	LevelError                 // invalid input document
	LevelUnsupp                // input needs unimplemented features
	LevelBadArg                // bad argument in invocation
	LevelSysErr                // system error
)

// ErrUnsupported marks a recognized but unimplemented query option.
var ErrUnsupported = errors.New("option is not implemented")

// NotFoundError reports a required section, macro, or item that the
// document does not contain. The query was well formed; the content is
// simply absent.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string { return e.What }

// MalformedError reports a violated structural assumption, such as a
// list item missing its head or body subtree.
type MalformedError struct {
	Line, Pos int
	What      string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Pos, e.What)
}

// SystemError reports an output-stream write failure, tagged with the
// source position of the node being rendered.
type SystemError struct {
	Line, Pos int
	Err       error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("%d:%d: %v", e.Line, e.Pos, e.Err)
}

func (e *SystemError) Unwrap() error { return e.Err }

// ErrLevel maps a query error to its exit level. A nil error is LevelOK.
func ErrLevel(err error) Level {
	var (
		notFound  *NotFoundError
		malformed *MalformedError
		system    *SystemError
	)
	switch {
	case err == nil:
		return LevelOK
	case errors.As(err, &notFound):
		return LevelNotFound
	case errors.As(err, &malformed):
		return LevelError
	case errors.Is(err, ErrUnsupported):
		return LevelUnsupp
	case errors.As(err, &system):
		return LevelSysErr
	default:
		return LevelError
	}
}
