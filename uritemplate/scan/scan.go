// Package scan provides the byte-oriented scanner shared by template
// parsing and matching.
//
// The scanner exposes its position as an opaque mark so callers can attempt
// one alternative in full and rewind cleanly before trying the next. All
// methods that consume input either succeed completely or leave the
// position untouched.
package scan

import "github.com/ardnew/urit/uritemplate/escape"

// Scanner is a cursor over immutable source text. The zero value is an
// empty scanner; use [New] to scan a string.
type Scanner struct {
	src string
	pos int
}

// New returns a scanner positioned at the start of src.
func New(src string) *Scanner {
	return &Scanner{src: src}
}

// EOF reports whether the scanner has consumed all input.
func (s *Scanner) EOF() bool { return s.pos >= len(s.src) }

// Pos returns the current byte offset into the source.
func (s *Scanner) Pos() int { return s.pos }

// Rest returns the unconsumed remainder of the source.
func (s *Scanner) Rest() string { return s.src[s.pos:] }

// Peek returns the byte at the current position without consuming it,
// or 0 at EOF.
func (s *Scanner) Peek() byte {
	if s.EOF() {
		return 0
	}

	return s.src[s.pos]
}

// Advance consumes one byte.
func (s *Scanner) Advance() {
	if !s.EOF() {
		s.pos++
	}
}

// Expect consumes c if it is the next byte and reports whether it did.
func (s *Scanner) Expect(c byte) bool {
	if s.Peek() == c {
		s.pos++

		return true
	}

	return false
}

// Consume consumes text if the unread input begins with it, byte for
// byte, and reports whether it did.
func (s *Scanner) Consume(text string) bool {
	if len(s.src)-s.pos < len(text) {
		return false
	}

	if s.src[s.pos:s.pos+len(text)] != text {
		return false
	}

	s.pos += len(text)

	return true
}

// Mark returns an opaque position that can later be passed to [Scanner.Reset]
// to rewind all input consumed since.
func (s *Scanner) Mark() int { return s.pos }

// Reset rewinds the scanner to a position previously returned by
// [Scanner.Mark].
func (s *Scanner) Reset(mark int) { s.pos = mark }

// TakeRun consumes the maximal non-empty run of bytes in the allowed
// classes or valid percent-escape triplets, returning the run with every
// triplet decoded to its octet. Escaped octets are accepted regardless of
// class; hex digits are accepted in either case. The run ends at the first
// byte that is neither allowed nor the start of a valid triplet.
//
// Returns ok == false, with the position untouched, when no byte
// qualifies.
func (s *Scanner) TakeRun(allowed byte) (string, bool) {
	return s.TakeRunExcept(allowed, "")
}

// TakeRunExcept is [Scanner.TakeRun] with a set of stop bytes removed from
// the allowed classes. A stop byte terminates the run even when its class
// is allowed; its escaped form still decodes as part of the run.
func (s *Scanner) TakeRunExcept(allowed byte, except string) (string, bool) {
	var out []byte

	start := s.pos

	for !s.EOF() {
		c := s.src[s.pos]

		if c == '%' && s.pos+2 < len(s.src) {
			if o, ok := escape.Unhex(s.src[s.pos+1], s.src[s.pos+2]); ok {
				out = append(out, o)
				s.pos += 3

				continue
			}
		}

		if !escape.Is(c, allowed) || stops(except, c) {
			break
		}

		out = append(out, c)
		s.pos++
	}

	if s.pos == start {
		return "", false
	}

	return string(out), true
}

func stops(except string, c byte) bool {
	for i := 0; i < len(except); i++ {
		if except[i] == c {
			return true
		}
	}

	return false
}
