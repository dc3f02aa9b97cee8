// Package escape provides the percent-encoding primitive shared by every
// operation on URI templates, along with the character classes of RFC 6570.
//
// Classification is a single table lookup. Each ASCII code point maps to a
// bitmask of the classes it belongs to; octets outside ASCII belong to no
// class and are always percent-escaped.
package escape

import "strconv"

const upperhex = "0123456789ABCDEF"

// truth maps each octet to the bitmask of classes it belongs to. The table
// letters were chosen so their low bits spell out the mask: '@' carries no
// class, 'C' is Literal|Unreserved, 'D' is Reserved alone, 'E' is
// Literal|Reserved, and 'K' is Literal|Unreserved|Varchar.
const truth = "" +
	"@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@" +
	"@E@EE@EDEEEEECCEKKKKKKKKKKEE@E@E" +
	"EKKKKKKKKKKKKKKKKKKKKKKKKKKE@E@K" +
	"@KKKKKKKKKKKKKKKKKKKKKKKKKK@@@C@" +
	"@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@" +
	"@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@" +
	"@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@" +
	"@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@@"

const (
	// Literal characters may appear verbatim in template text outside
	// expressions, per RFC 6570:
	//
	//	literals = %x21 / %x23-24 / %x26 / %x28-3B / %x3D / %x3F-5B
	//	         / %x5D / %x5F / %x61-7A / %x7E / pct-encoded
	Literal byte = 1 << iota

	// Unreserved characters from RFC 3986:
	//
	//	ALPHA      = %x41-5A / %x61-7A ; A-Z / a-z
	//	DIGIT      = %x30-39           ; 0-9
	//	unreserved = ALPHA / DIGIT / "-" / "." / "_" / "~"
	Unreserved

	// Reserved characters from RFC 3986:
	//
	//	reserved   = gen-delims / sub-delims
	//	gen-delims = ":" / "/" / "?" / "#" / "[" / "]" / "@"
	//	sub-delims = "!" / "$" / "&" / "'" / "(" / ")"
	//	           / "*" / "+" / "," / ";" / "="
	Reserved

	// Varchar characters may appear in variable name segments:
	//
	//	varchar = ALPHA / DIGIT / "_"
	Varchar
)

// Is reports whether c belongs to any of the classes in the given mask.
func Is(c, class byte) bool { return truth[c]&class != 0 }

// IsAlpha reports whether c is an ASCII letter.
func IsAlpha(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

// IsDigit reports whether c is an ASCII digit.
func IsDigit(c byte) bool { return '0' <= c && c <= '9' }

// Escape percent-escapes every octet of s outside the allowed classes,
// one uppercase-hex triplet per octet. Octets inside the allowed classes
// are copied verbatim.
func Escape(s string, allowed byte) string {
	hexCount := 0

	for i := 0; i < len(s); i++ {
		if truth[s[i]]&allowed == 0 {
			hexCount++
		}
	}

	if hexCount == 0 {
		return s
	}

	var buf [64]byte

	var t []byte

	required := len(s) + 2*hexCount
	if required <= len(buf) {
		t = buf[:required]
	} else {
		t = make([]byte, required)
	}

	for i, j := 0, 0; i < len(s); i++ {
		c := s[i]
		if truth[c]&allowed == 0 {
			t[j] = '%'
			t[j+1] = upperhex[c>>4]
			t[j+2] = upperhex[c&0xF]
			j += 3
		} else {
			t[j] = c
			j++
		}
	}

	return string(t)
}

// Unhex decodes a pair of hex digits into the octet they represent.
// Both uppercase and lowercase digits are accepted.
func Unhex(hi, lo byte) (byte, bool) {
	h, ok := unhex(hi)
	if !ok {
		return 0, false
	}

	l, ok := unhex(lo)
	if !ok {
		return 0, false
	}

	return h<<4 | l, true
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}

	return 0, false
}

// EscapeError is the offending text of a malformed percent-escape triplet.
type EscapeError string

// Error implements the error interface.
func (e EscapeError) Error() string {
	return "invalid percent-escape " + strconv.Quote(string(e))
}

// Unescape decodes every %XX triplet in s to the octet it represents,
// accepting hex digits in either case. All other octets are copied
// verbatim. It fails on a truncated or malformed triplet.
func Unescape(s string) (string, error) {
	i := 0
	for i < len(s) && s[i] != '%' {
		i++
	}

	if i == len(s) {
		return s, nil
	}

	t := make([]byte, i, len(s))
	copy(t, s)

	for i < len(s) {
		if s[i] != '%' {
			t = append(t, s[i])
			i++

			continue
		}

		if i+2 >= len(s) {
			return "", EscapeError(s[i:])
		}

		c, ok := Unhex(s[i+1], s[i+2])
		if !ok {
			return "", EscapeError(s[i : i+3])
		}

		t = append(t, c)
		i += 3
	}

	return string(t), nil
}
