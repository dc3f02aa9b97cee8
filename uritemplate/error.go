package uritemplate

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrParse     = NewError("parse error")
	ErrMatch     = NewError("input is not an instance of the template")
	ErrReadInput = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error sharing the receiver's message.
// It lets errors.Is match the sentinel an error was derived from through
// any chain of Wrap and With calls.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// WithOffset adds the byte offset of a failure to the error attributes.
func (e *Error) WithOffset(offset int) *Error {
	return e.With(slog.Int("offset", offset))
}

// ParseError describes where and why parsing the template text stopped.
type ParseError struct {
	Source   string   // The original source input
	Snippet  string   // Snippet of the source surrounding the failure
	Expected []string // Constructs that would have been valid
	Offset   int      // Byte offset of the failure
}

// NewParseError creates a ParseError at the given offset of source.
func NewParseError(source string, offset int, expected ...string) *ParseError {
	return &ParseError{
		Source:   source,
		Offset:   offset,
		Snippet:  "",
		Expected: expected,
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg, snippet, expected := e.formatWithContext()
	e.Snippet = snippet

	out := msg + snippet
	if len(expected) > 0 {
		out += "\texpected: " + strings.Join(expected, ", ")
	}

	return out
}

// formatWithContext formats the parse error with source code context.
func (e *ParseError) formatWithContext() (string, string, []string) {
	line, col := e.position()

	var buf, src strings.Builder

	// Write error location and description
	buf.WriteString("parse error at line ")
	buf.WriteString(strconv.Itoa(line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(col))
	buf.WriteString(":\n")

	lines := strings.Split(e.Source, "\n")

	// Show the offending line if within bounds
	if line > 0 && line <= len(lines) {
		text := lines[line-1]

		// Print the line with line number
		src.WriteString("  ")
		src.WriteString(strconv.Itoa(line))
		src.WriteString(" | ")
		src.WriteString(text)
		src.WriteRune('\n')

		// Print marker pointing to the column
		// Calculate the width needed for line number display
		lineNumWidth := len(strconv.Itoa(line))
		// +5 accounts for: 2 leading spaces + " | " (3 chars)
		padding := strings.Repeat(" ", lineNumWidth+5)

		// Add spaces to reach the error column
		if col > 0 {
			padding += strings.Repeat(" ", col-1)
		}

		src.WriteString(padding + "^\n")
	}

	exp := make([]string, 0, len(e.Expected))
	for _, want := range e.Expected {
		exp = append(exp, strconv.Quote(want))
	}

	return buf.String(), src.String(), exp
}

// position derives the 1-based line and column of the failure offset.
func (e *ParseError) position() (line, col int) {
	line, col = 1, 1

	limit := min(e.Offset, len(e.Source))
	for i := 0; i < limit; i++ {
		if e.Source[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	return line, col
}
