package uritemplate

// Template is a parsed URI template: an ordered sequence of literal text
// and expression parts. Templates are immutable value objects; every
// operation on them is a pure function safe for concurrent use.
type Template struct {
	Parts []Part
}

// PartKind discriminates the variants of [Part].
type PartKind int

// Part variants.
const (
	KindLiteral PartKind = iota
	KindExpression
)

// Part is one element of a template: either a run of literal text or a
// {...} expression. Exactly one of Text and Expr is meaningful, selected
// by Kind.
type Part struct {
	Kind PartKind
	Text string     // KindLiteral: literal text, percent-decoded
	Expr Expression // KindExpression
}

// NewLiteral creates a literal part from decoded text.
func NewLiteral(text string) Part {
	return Part{Kind: KindLiteral, Text: text}
}

// NewExpression creates an expression part.
func NewExpression(op Operator, vars ...VarSpec) Part {
	return Part{Kind: KindExpression, Expr: Expression{Op: op, Vars: vars}}
}

// Expression is a {...} placeholder: an operator and one or more variable
// specifications.
type Expression struct {
	Op   Operator
	Vars []VarSpec
}

// Operator selects the expansion style of an expression.
type Operator int

// Operators, grouped by the RFC 6570 expression-type level that defines
// them. Only OpNone and the level-2 operators are given semantics by
// Expand and Match; the level-3 operators and the operators reserved for
// future extension parse and format but expand to nothing.
const (
	OpNone     Operator = iota // simple string expansion
	OpReserved                 // + reserved expansion (level 2)
	OpFragment                 // # fragment expansion (level 2)

	OpLabel        // . label expansion (level 3)
	OpPath         // / path segment expansion (level 3)
	OpParameter    // ; path-style parameter expansion (level 3)
	OpQuery        // ? form-style query expansion (level 3)
	OpContinuation // & form-style query continuation (level 3)

	OpEquals      // = reserved for future extension
	OpComma       // , reserved for future extension
	OpExclamation // ! reserved for future extension
	OpAt          // @ reserved for future extension
	OpPipe        // | reserved for future extension
)

// operators maps each operator character to its Operator. OpNone has no
// character and is absent.
var operators = map[byte]Operator{
	'+': OpReserved,
	'#': OpFragment,
	'.': OpLabel,
	'/': OpPath,
	';': OpParameter,
	'?': OpQuery,
	'&': OpContinuation,
	'=': OpEquals,
	',': OpComma,
	'!': OpExclamation,
	'@': OpAt,
	'|': OpPipe,
}

// String returns the operator's character, or "" for OpNone.
func (op Operator) String() string {
	for c, o := range operators {
		if o == op {
			return string(c)
		}
	}

	return ""
}

// Level returns the RFC 6570 expression-type level that defines the
// operator: 1 for simple string expansion, 2 for + and #, 3 for the
// multi-character expansion operators, and 0 for operators reserved for
// future extension.
func (op Operator) Level() int {
	switch op {
	case OpNone:
		return 1
	case OpReserved, OpFragment:
		return 2
	case OpLabel, OpPath, OpParameter, OpQuery, OpContinuation:
		return 3
	default:
		return 0
	}
}

// Modifier refines how a single variable expands.
type Modifier int

// Modifiers.
const (
	ModNone    Modifier = iota
	ModPrefix           // :n takes the first n characters of an atom value
	ModExplode          // * expands list and pair values element-wise
)

// VarSpec names one variable of an expression together with its modifier.
// MaxLength is meaningful only when Modifier is ModPrefix.
type VarSpec struct {
	Name      string
	Modifier  Modifier
	MaxLength int
}

// NewVarSpec creates an unmodified variable specification.
func NewVarSpec(name string) VarSpec {
	return VarSpec{Name: name}
}

// Explode creates an exploded variable specification.
func Explode(name string) VarSpec {
	return VarSpec{Name: name, Modifier: ModExplode}
}

// Prefix creates a variable specification truncated to the first n
// characters of its value.
func Prefix(name string, n int) VarSpec {
	return VarSpec{Name: name, Modifier: ModPrefix, MaxLength: n}
}

// Vars returns the names of every variable referenced by the template, in
// template order. Names repeated across expressions are repeated here.
func (t Template) Vars() []string {
	var names []string

	for _, part := range t.Parts {
		if part.Kind != KindExpression {
			continue
		}

		for _, v := range part.Expr.Vars {
			names = append(names, v.Name)
		}
	}

	return names
}

// Concat combines two templates into one. A trailing literal of a and a
// leading literal of b merge into a single literal part, so adjacent
// literals never survive concatenation.
func Concat(a, b Template) Template {
	return a.Append(b.Parts...)
}

// Append returns a copy of the template with the given parts appended,
// merging adjacent literals as [Concat] does.
func (t Template) Append(parts ...Part) Template {
	merged := make([]Part, len(t.Parts), len(t.Parts)+len(parts))
	copy(merged, t.Parts)

	for _, part := range parts {
		last := len(merged) - 1
		if last >= 0 &&
			part.Kind == KindLiteral &&
			merged[last].Kind == KindLiteral {
			merged[last] = NewLiteral(merged[last].Text + part.Text)

			continue
		}

		merged = append(merged, part)
	}

	return Template{Parts: merged}
}
