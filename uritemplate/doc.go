// Package uritemplate implements a bidirectional codec for RFC 6570 URI
// Templates. Template text parses into an immutable syntax tree, the
// tree formats back to canonical text, a template expands against a
// binding of variable values into a concrete URI reference, and a
// concrete URI reference matches against a template to recover the
// binding that produced it.
//
// # Operations
//
// Four operations are defined uniformly over every grammar node:
//
//   - Parse: template text → [Template]
//   - Format: [Template] → canonical text ([Template.String])
//   - Expand: [Template] + [Values] → URI reference
//   - Match: [Template] + URI reference → [Values]
//
// [Template] values are immutable once constructed, so all four
// operations are pure functions and safely callable concurrently on a
// shared template.
//
// # Grammar
//
// Informal EBNF:
//
//	Template   → Part+ EOF
//	Part       → Literal | Expression
//	Literal    → (literal-char | pct-encoded)+
//	Expression → '{' Operator? VarSpec (',' VarSpec)* '}'
//	Operator   → '+' | '#' | '.' | '/' | ';' | '?' | '&'
//	           | '=' | ',' | '!' | '@' | '|'
//	VarSpec    → VarName (':' digit+ | '*')?
//	VarName    → Segment ('.' Segment)*
//	Segment    → (varchar | pct-encoded)+
//
// Percent-escapes are decoded during parsing and re-encoded with
// uppercase hex digits during formatting and expansion.
//
// # Levels
//
// The simple operator (none) and the level-2 operators '+' and '#'
// support all four operations. The level-3 operators '.' '/' ';' '?'
// '&' and the operators reserved for future extension parse and format
// faithfully, but their expressions expand to the empty string and
// consume nothing during matching. The gap is deliberate scope, not
// silent data loss: see [Template.Expand].
//
// # Example
//
//	t := uritemplate.MustParse("{+path}/here")
//
//	uri := t.Expand(uritemplate.Values{
//		"path": uritemplate.Atom("/foo/bar"),
//	})
//	// uri == "/foo/bar/here"
//
//	values, err := uritemplate.MustParse("{list*}").Match("a,b,c")
//	// values["list"] == List("a", "b", "c")
package uritemplate
