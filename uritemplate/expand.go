package uritemplate

import (
	"strings"

	"github.com/ardnew/urit/uritemplate/escape"
)

// Expand renders the template against the given values.
//
// Expansion is total: unbound variables, empty lists, and empty key sets
// contribute nothing to the output, and no binding can make it fail. An
// empty atom is a present value and renders as an empty slot.
//
// Only expressions at levels 1 and 2 render. Expressions carrying a
// level-3 or reserved operator expand to the empty string no matter what
// is bound, so "/find{?year}" expands to "/find" even when year has a
// value. Such templates still parse, format, and match.
func (t Template) Expand(values Values) string {
	var b strings.Builder

	for _, part := range t.Parts {
		switch part.Kind {
		case KindLiteral:
			b.WriteString(escape.Escape(part.Text, escape.Literal))

		case KindExpression:
			part.Expr.expand(&b, values)
		}
	}

	return b.String()
}

func (e Expression) expand(b *strings.Builder, values Values) {
	allowed, prefix, ok := e.Op.renderClass()
	if !ok {
		return
	}

	var rendered []string

	for _, v := range e.Vars {
		value, bound := values[v.Name]
		if !bound {
			continue
		}

		switch value.Kind {
		case KindAtom:
			text := value.Text
			if v.Modifier == ModPrefix {
				text = truncate(text, v.MaxLength)
			}

			rendered = append(rendered, escape.Escape(text, allowed))

		case KindList:
			// The prefix modifier applies to atoms only, and the item
			// separator matches the variable separator, so exploded and
			// plain lists render alike.
			for _, item := range value.Items {
				rendered = append(rendered, escape.Escape(item, allowed))
			}

		case KindKeys:
			for _, m := range value.Members {
				if v.Modifier == ModExplode {
					rendered = append(rendered,
						escape.Escape(m.Key, allowed)+"="+escape.Escape(m.Value, allowed))
				} else {
					rendered = append(rendered,
						escape.Escape(m.Key, allowed), escape.Escape(m.Value, allowed))
				}
			}
		}
	}

	// When every variable is omitted the expression contributes nothing,
	// not even the fragment prefix.
	if len(rendered) == 0 {
		return
	}

	b.WriteString(prefix)
	b.WriteString(strings.Join(rendered, ","))
}

// renderClass returns the escape class and output prefix for expansion
// under the operator. For operators that do not render, ok is false.
func (op Operator) renderClass() (allowed byte, prefix string, ok bool) {
	switch op {
	case OpNone:
		return escape.Unreserved, "", true

	case OpReserved:
		return escape.Unreserved | escape.Reserved, "", true

	case OpFragment:
		return escape.Unreserved | escape.Reserved, "#", true
	}

	return 0, "", false
}

// truncate returns the first n characters of s, counting by rune.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}

	count := 0

	for i := range s {
		if count == n {
			return s[:i]
		}

		count++
	}

	return s
}
