package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// exprLangBuiltins defines signatures for expr-lang's builtin functions.
// Source: https://expr-lang.org/docs/language-definition
var exprLangBuiltins = map[string]struct {
	signature string
	params    []string
}{
	"len":    {"len(v)", []string{"v"}},
	"all":    {"all(array, predicate)", []string{"array", "predicate"}},
	"any":    {"any(array, predicate)", []string{"array", "predicate"}},
	"one":    {"one(array, predicate)", []string{"array", "predicate"}},
	"none":   {"none(array, predicate)", []string{"array", "predicate"}},
	"map":    {"map(array, mapper)", []string{"array", "mapper"}},
	"filter": {"filter(array, predicate)", []string{"array", "predicate"}},
	"find":   {"find(array, predicate)", []string{"array", "predicate"}},
	"findIndex": {
		"findIndex(array, predicate)",
		[]string{"array", "predicate"},
	},
	"findLast": {
		"findLast(array, predicate)",
		[]string{"array", "predicate"},
	},
	"findLastIndex": {
		"findLastIndex(array, predicate)",
		[]string{"array", "predicate"},
	},
	"groupBy": {"groupBy(array, mapper)", []string{"array", "mapper"}},
	"sortBy":  {"sortBy(array, mapper)", []string{"array", "mapper"}},
	"count":   {"count(array, predicate)", []string{"array", "predicate"}},
	"sum":     {"sum(array)", []string{"array"}},
	"mean":    {"mean(array)", []string{"array"}},
	"median":  {"median(array)", []string{"array"}},
	"min":     {"min(array)", []string{"array"}},
	"max":     {"max(array)", []string{"array"}},
	"join":    {"join(array, separator)", []string{"array", "separator"}},
	"split": {
		"split(string, separator)",
		[]string{"string", "separator"},
	},
	"replace": {
		"replace(string, old, new)",
		[]string{"string", "old", "new"},
	},
	"trim":      {"trim(string)", []string{"string"}},
	"trimLeft":  {"trimLeft(string)", []string{"string"}},
	"trimRight": {"trimRight(string)", []string{"string"}},
	"upper":     {"upper(string)", []string{"string"}},
	"lower":     {"lower(string)", []string{"string"}},
	"title":     {"title(string)", []string{"string"}},
	"int":       {"int(v)", []string{"v"}},
	"float":     {"float(v)", []string{"v"}},
	"string":    {"string(v)", []string{"v"}},
	"type":      {"type(v)", []string{"v"}},
}

// bindBuiltins defines signatures for the functions the bind package injects
// into every binding expression environment.
var bindBuiltins = map[string]struct {
	signature string
	params    []string
}{
	"env": {"env(name)", []string{"name"}},
}

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // function name (e.g., "join")
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's parameter list. It returns the function name, current
// argument index, and whether we're inside a call.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Scan backward from cursor to find the opening paren of a function call.
	// Track nested parens so we find the correct one.
	parenDepth := 0
	openParenPos := -1

	for i := cursor - 1; i >= 0; i-- {
		ch, size := utf8.DecodeLastRuneInString(input[:i+1])

		switch ch {
		case ')':
			parenDepth++
		case '(':
			if parenDepth == 0 {
				openParenPos = i

				goto foundOpenParen
			}

			parenDepth--
		}

		// Move to start of this rune
		if i > 0 {
			i -= (size - 1)
		}
	}

foundOpenParen:
	if openParenPos == -1 {
		return functionCall{inCall: false}
	}

	// Extract function name before the '('
	// Walk backward collecting identifier characters and dots
	nameEnd := openParenPos
	nameStart := openParenPos

	for nameStart > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:nameStart])

		// Function names can include dots, letters, numbers, and hyphens
		if r == '.' || r == '_' || r == '-' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			nameStart -= size
		} else {
			break
		}
	}

	funcName := strings.TrimSpace(input[nameStart:nameEnd])
	if funcName == "" {
		return functionCall{inCall: false}
	}

	// Count arguments by counting commas at depth 0 in the parameter list
	argIndex := 0
	depth := 0

	for i := openParenPos + 1; i < cursor; i++ {
		ch, size := utf8.DecodeRuneInString(input[i:])

		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}

		i += size - 1
	}

	return functionCall{
		name:     funcName,
		argIndex: argIndex,
		inCall:   true,
	}
}

// signatureFor retrieves the signature for a function callable in a binding
// expression. It looks in both the injected bind functions and the expr-lang
// builtins. Returns empty string if the function is not known.
func signatureFor(funcName string) (signature string, params []string) {
	if b, ok := bindBuiltins[funcName]; ok {
		return b.signature, b.params
	}

	if b, ok := exprLangBuiltins[funcName]; ok {
		return b.signature, b.params
	}

	return "", nil
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	if signature == "" {
		return ""
	}

	// Parse signature: "funcName(param1, param2, ...)"
	openParen := strings.Index(signature, "(")
	if openParen == -1 {
		return signatureStyle.Render(signature)
	}

	funcName := signature[:openParen]

	closeParen := strings.LastIndex(signature, ")")
	if closeParen == -1 {
		return signatureStyle.Render(signature)
	}

	// If no parameters, just render the signature
	if len(params) == 0 {
		return signatureNameStyle.Render(funcName) +
			signatureStyle.Render("()")
	}

	// Build the signature with highlighted current parameter
	var b strings.Builder
	b.WriteString(signatureNameStyle.Render(funcName))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		// Check if this is a variadic parameter
		isVariadic := strings.HasPrefix(param, "...")

		// Highlight the current parameter
		// For variadic parameters, highlight if we're at or beyond that index
		if (isVariadic && currentArgIdx >= i) ||
			(!isVariadic && currentArgIdx == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
