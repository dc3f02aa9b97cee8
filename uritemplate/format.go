package uritemplate

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/urit/uritemplate/escape"
)

// String returns the canonical text of the template.
//
// Formatting re-encodes every component with uppercase percent-escapes.
// The result parses to an identical template, though it need not equal
// the text the template was parsed from byte for byte; lowercase hex
// digits and escapes of allowed characters are normalized away.
func (t Template) String() string {
	var b strings.Builder

	for _, part := range t.Parts {
		part.appendText(&b)
	}

	return b.String()
}

// Format writes the canonical text of the template to w.
func (t Template) Format(w io.Writer) error {
	_, err := io.WriteString(w, t.String())

	return err
}

// String returns the canonical text of the part.
func (p Part) String() string {
	var b strings.Builder

	p.appendText(&b)

	return b.String()
}

func (p Part) appendText(b *strings.Builder) {
	switch p.Kind {
	case KindLiteral:
		b.WriteString(escape.Escape(p.Text, escape.Literal))

	case KindExpression:
		p.Expr.appendText(b)
	}
}

// String returns the canonical text of the expression, braces included.
func (e Expression) String() string {
	var b strings.Builder

	e.appendText(&b)

	return b.String()
}

func (e Expression) appendText(b *strings.Builder) {
	b.WriteByte('{')
	b.WriteString(e.Op.String())

	for i, v := range e.Vars {
		if i > 0 {
			b.WriteByte(',')
		}

		v.appendText(b)
	}

	b.WriteByte('}')
}

// String returns the canonical text of the variable specifier.
func (v VarSpec) String() string {
	var b strings.Builder

	v.appendText(&b)

	return b.String()
}

func (v VarSpec) appendText(b *strings.Builder) {
	// A leading, trailing, or doubled dot cannot render bare: the text
	// would read as an operator or an empty segment. Such names only
	// arise from escaped dots, so render every dot escaped again.
	segments := strings.Split(v.Name, ".")
	if slices.Contains(segments, "") {
		b.WriteString(escape.Escape(v.Name, escape.Varchar))
	} else {
		for i, segment := range segments {
			if i > 0 {
				b.WriteByte('.')
			}

			b.WriteString(escape.Escape(segment, escape.Varchar))
		}
	}

	switch v.Modifier {
	case ModPrefix:
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(v.MaxLength))

	case ModExplode:
		b.WriteByte('*')
	}
}

// Print writes a readable dump of the template syntax tree to w.
//
// Each part is printed on its own line. Expressions are followed by
// indented lines describing their operator and variable specifiers.
func (t Template) Print(w io.Writer) error {
	for _, part := range t.Parts {
		if part.Kind == KindLiteral {
			if _, err := fmt.Fprintf(w, "Literal %q\n", part.Text); err != nil {
				return err
			}

			continue
		}

		if err := part.Expr.print(w); err != nil {
			return err
		}
	}

	return nil
}

func (e Expression) print(w io.Writer) error {
	name := "simple"
	if e.Op != OpNone {
		name = e.Op.String()
	}

	_, err := fmt.Fprintf(w, "Expression %s\n  Operator %s (level %d)\n",
		e.String(), name, e.Op.Level())
	if err != nil {
		return err
	}

	for _, spec := range e.Vars {
		switch spec.Modifier {
		case ModPrefix:
			_, err = fmt.Fprintf(w, "  Var %s :%d\n", spec.Name, spec.MaxLength)

		case ModExplode:
			_, err = fmt.Fprintf(w, "  Var %s *\n", spec.Name)

		default:
			_, err = fmt.Fprintf(w, "  Var %s\n", spec.Name)
		}

		if err != nil {
			return err
		}
	}

	return nil
}
