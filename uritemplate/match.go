package uritemplate

import (
	"log/slog"
	"strings"

	"github.com/ardnew/urit/uritemplate/escape"
	"github.com/ardnew/urit/uritemplate/scan"
)

// Match recovers the binding that would expand the template to input.
//
// The entire input must be consumed: trailing text that no part claims
// is a failure. Literal parts consume their canonical text verbatim.
// Expressions consume one comma-separated slot per variable, in order,
// decoding percent-escapes as they go; an exploded variable instead
// claims the remainder of the comma run, binding Keys when every slot
// splits into exactly one key and one value on a raw "=" and a List
// otherwise. Matching never recovers a prefix modifier's truncation, so
// a prefixed variable binds whatever its slot holds.
//
// Expressions carrying a level-3 or reserved operator consume nothing
// and bind nothing, mirroring their empty expansion.
//
// A failure is an ordinary error wrapping [ErrMatch]; no partial
// binding is ever returned.
func (t Template) Match(input string) (Values, error) {
	m := &matcher{
		scan:   scan.New(input),
		values: make(Values),
	}

	for _, part := range t.Parts {
		if err := m.matchPart(part); err != nil {
			return nil, err
		}
	}

	if !m.scan.EOF() {
		return nil, ErrMatch.WithOffset(m.scan.Pos()).
			With(slog.String("unmatched", m.scan.Rest()))
	}

	return m.values, nil
}

// matcher holds the matcher state.
type matcher struct {
	scan   *scan.Scanner
	values Values
}

func (m *matcher) matchPart(part Part) error {
	switch part.Kind {
	case KindLiteral:
		return m.matchLiteral(part.Text)

	case KindExpression:
		return m.matchExpression(part.Expr)
	}

	return nil
}

// matchLiteral consumes the literal's canonical text byte for byte.
func (m *matcher) matchLiteral(text string) error {
	canonical := escape.Escape(text, escape.Literal)
	if m.scan.Consume(canonical) {
		return nil
	}

	// Locate the first divergent byte for the error offset.
	rest := m.scan.Rest()

	i := 0
	for i < len(rest) && i < len(canonical) && rest[i] == canonical[i] {
		i++
	}

	return ErrMatch.WithOffset(m.scan.Pos() + i).
		With(slog.String("expected", canonical))
}

// matchExpression consumes one slot per variable, separated by commas.
// Any variable that cannot claim its slot fails the whole match.
func (m *matcher) matchExpression(e Expression) error {
	allowed, prefix, ok := e.Op.renderClass()
	if !ok {
		return nil
	}

	if prefix != "" && !m.scan.Consume(prefix) {
		return ErrMatch.WithOffset(m.scan.Pos()).
			With(slog.String("expected", prefix))
	}

	for i, v := range e.Vars {
		if i > 0 && !m.scan.Expect(',') {
			return ErrMatch.WithOffset(m.scan.Pos()).
				With(slog.String("expected", ","))
		}

		value, err := m.matchVar(v, allowed)
		if err != nil {
			return err
		}

		m.values[v.Name] = value
	}

	return nil
}

// matchVar consumes the value text for a single variable. The comma is
// the slot separator at every level, so a raw comma never joins a run
// even under the wider reserved alphabet; an escaped one still decodes.
func (m *matcher) matchVar(v VarSpec, allowed byte) (Value, error) {
	if v.Modifier == ModExplode {
		return m.matchComposite(v, allowed)
	}

	run, ok := m.scan.TakeRunExcept(allowed, ",")
	if !ok {
		return Value{}, ErrMatch.WithOffset(m.scan.Pos()).
			With(slog.String("variable", v.Name))
	}

	return Atom(run), nil
}

// matchComposite consumes the comma-separated sequence claimed by an
// exploded variable. Keys takes priority over List: the sequence binds
// as Keys exactly when every slot is a single key=value pair.
func (m *matcher) matchComposite(v VarSpec, allowed byte) (Value, error) {
	slots, ok := m.takeSlots(allowed)
	if !ok {
		return Value{}, ErrMatch.WithOffset(m.scan.Pos()).
			With(slog.String("variable", v.Name))
	}

	if members, ok := pairs(slots); ok {
		return Keys(members...), nil
	}

	items := make([]string, len(slots))
	for i, runs := range slots {
		items[i] = strings.Join(runs, "=")
	}

	return List(items...), nil
}

// takeSlots consumes one or more comma-separated slots, each slot a
// sequence of runs split on raw "=". Trailing separators that are not
// followed by another slot are left unconsumed.
func (m *matcher) takeSlots(allowed byte) ([][]string, bool) {
	slot, ok := m.takeSlot(allowed)
	if !ok {
		return nil, false
	}

	slots := [][]string{slot}

	for {
		mark := m.scan.Mark()
		if !m.scan.Expect(',') {
			break
		}

		next, ok := m.takeSlot(allowed)
		if !ok {
			m.scan.Reset(mark)

			break
		}

		slots = append(slots, next)
	}

	return slots, true
}

func (m *matcher) takeSlot(allowed byte) ([]string, bool) {
	first, ok := m.scan.TakeRunExcept(allowed, ",=")
	if !ok {
		return nil, false
	}

	runs := []string{first}

	for {
		mark := m.scan.Mark()
		if !m.scan.Expect('=') {
			break
		}

		next, ok := m.scan.TakeRunExcept(allowed, ",=")
		if !ok {
			m.scan.Reset(mark)

			break
		}

		runs = append(runs, next)
	}

	return runs, true
}

// pairs converts slots to key=value members when every slot split into
// exactly one key and one value.
func pairs(slots [][]string) ([]Member, bool) {
	members := make([]Member, len(slots))

	for i, runs := range slots {
		if len(runs) != 2 {
			return nil, false
		}

		members[i] = Pair(runs[0], runs[1])
	}

	return members, true
}
