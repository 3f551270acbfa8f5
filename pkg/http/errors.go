package http

import (
	"errors"
	"fmt"
)

// ErrIncompleteMessage reports that the buffer does not yet hold a full
// request. It is recoverable: the caller should keep the buffer intact
// and retry once more bytes arrive.
var ErrIncompleteMessage = errors.New("http: incomplete message")

// ParseError reports a malformed message. Unlike ErrIncompleteMessage it
// is fatal: more bytes cannot repair the input, and the caller should
// discard the connection.
type ParseError struct {
	Message  string // human-readable error message
	Position int    // byte offset in input (0 if unknown)
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Position > 0 {
		return fmt.Sprintf("http: parse error at position %d: %s", e.Position, e.Message)
	}
	return fmt.Sprintf("http: %s", e.Message)
}

func newParseError(msg string, pos int) *ParseError {
	return &ParseError{Message: msg, Position: pos}
}
