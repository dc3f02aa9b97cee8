package uritemplate

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/urit/log"
	"github.com/ardnew/urit/uritemplate/escape"
	"github.com/ardnew/urit/uritemplate/scan"
)

// Option configures a single parse operation.
type Option func(*parser)

// WithLogger routes the parser's trace output to the given logger.
func WithLogger(logger log.Logger) Option {
	return func(p *parser) {
		p.logger = logger
	}
}

// Parse parses template text into a [Template]. On malformed input it
// returns an error wrapping a [ParseError] that locates the failure.
func Parse(input string, opts ...Option) (Template, error) {
	p := &parser{
		src:    input,
		scan:   scan.New(input),
		logger: log.With(),
	}

	for _, opt := range opts {
		opt(p)
	}

	t, err := p.parseTemplate()
	if err != nil {
		wrapped := ErrParse.Wrap(err)

		var perr *ParseError
		if errors.As(err, &perr) {
			wrapped = wrapped.WithOffset(perr.Offset)
		}

		return Template{}, wrapped
	}

	p.logger.Trace(
		"parse complete",
		slog.Int("part_count", len(t.Parts)),
	)

	return t, nil
}

// TryParse parses template text, reporting malformed input by its second
// return value instead of an error.
func TryParse(input string) (Template, bool) {
	t, err := Parse(input)

	return t, err == nil
}

// MustParse is like [Parse] but panics on malformed input. It simplifies
// initialization of variables holding compiled templates.
func MustParse(input string) Template {
	t, err := Parse(input)
	if err != nil {
		panic(err)
	}

	return t
}

// parser holds the parser state.
type parser struct {
	src    string
	scan   *scan.Scanner
	logger log.Logger
}

// parseTemplate parses the entire input as a sequence of parts.
// A template requires at least one part, so empty input is an error.
func (p *parser) parseTemplate() (Template, error) {
	var parts []Part

	for !p.scan.EOF() {
		if p.scan.Peek() == '{' {
			part, err := p.parseExpression()
			if err != nil {
				return Template{}, err
			}

			parts = append(parts, part)

			continue
		}

		// A maximal literal run: the parser can never produce adjacent
		// literal parts.
		text, ok := p.scan.TakeRun(escape.Literal)
		if !ok {
			return Template{}, p.expected("literal text", "expression")
		}

		parts = append(parts, NewLiteral(text))
	}

	if len(parts) == 0 {
		return Template{}, p.expected("literal text", "expression")
	}

	return Template{Parts: parts}, nil
}

// parseExpression parses: '{' [operator] varspec *(',' varspec) '}'.
func (p *parser) parseExpression() (Part, error) {
	p.scan.Expect('{')

	op := p.parseOperator()

	vars := make([]VarSpec, 0, 1)

	for {
		v, err := p.parseVarSpec()
		if err != nil {
			return Part{}, err
		}

		vars = append(vars, v)

		if !p.scan.Expect(',') {
			break
		}
	}

	if !p.scan.Expect('}') {
		return Part{}, p.expected("}", ",")
	}

	return NewExpression(op, vars...), nil
}

// parseOperator consumes the operator character following '{' if one is
// present. No operator character belongs to the varchar class, so the
// choice needs no lookahead.
func (p *parser) parseOperator() Operator {
	op, ok := operators[p.scan.Peek()]
	if !ok {
		return OpNone
	}

	p.scan.Advance()

	return op
}

// parseVarSpec parses: varname [':' 1*DIGIT / '*'].
func (p *parser) parseVarSpec() (VarSpec, error) {
	name, err := p.parseVarName()
	if err != nil {
		return VarSpec{}, err
	}

	switch {
	case p.scan.Expect(':'):
		length, err := p.parsePrefixLength()
		if err != nil {
			return VarSpec{}, err
		}

		return Prefix(name, length), nil

	case p.scan.Expect('*'):
		return Explode(name), nil
	}

	return NewVarSpec(name), nil
}

// parseVarName parses one or more dot-separated varchar segments. Each
// segment is percent-decoded; the decoded segments joined with dots form
// the variable's binding key.
func (p *parser) parseVarName() (string, error) {
	segments := make([]string, 0, 1)

	for {
		segment, ok := p.scan.TakeRun(escape.Varchar)
		if !ok {
			return "", p.expected("variable name")
		}

		segments = append(segments, segment)

		if !p.scan.Expect('.') {
			break
		}
	}

	return strings.Join(segments, "."), nil
}

// parsePrefixLength parses the integer following ':'.
func (p *parser) parsePrefixLength() (int, error) {
	var digits []byte

	for escape.IsDigit(p.scan.Peek()) {
		digits = append(digits, p.scan.Peek())
		p.scan.Advance()
	}

	if len(digits) == 0 {
		return 0, p.expected("prefix length")
	}

	length, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, p.expected("prefix length")
	}

	return length, nil
}

// expected creates a ParseError at the current scan position.
func (p *parser) expected(want ...string) error {
	return NewParseError(p.src, p.scan.Pos(), want...)
}
