package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/urit/uritemplate"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "template", "vars", "values",
	"expand", "match", "unset", "edit", "clear", "quit",
}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes. This includes whitespace and expr-lang operator/punctuation
// characters. Dots are intentionally excluded because template variable
// names may be dotted (e.g., geo.lat).
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Words are delimited by whitespace and expr-lang
// operator/punctuation characters.
// Returns an empty word when the cursor sits on a boundary (after a space,
// after an operator, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// templateVars returns the template's variable names in first-appearance
// order with duplicates removed. A nil template has no variables.
func templateVars(t *uritemplate.Template) []string {
	if t == nil {
		return nil
	}

	seen := make(map[string]struct{})

	var names []string

	for _, name := range t.Vars() {
		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names
}

// boundNames returns the names of every current binding, sorted.
func (m model) boundNames() []string {
	return slices.Sorted(maps.Keys(m.values))
}

// exprBuiltinNames returns the names of every function callable on the right
// side of a binding, sorted: the expr-lang builtins plus the functions the
// bind package injects.
func exprBuiltinNames() []string {
	names := make([]string, 0, len(builtin.Index)+1)
	for name := range builtin.Index {
		names = append(names, name)
	}

	names = append(names, "env")

	slices.Sort(names)

	return names
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidate list, and
// the word boundaries. When the current word is empty in a command or name
// position, it returns nil matches so the hint text stays visible. When the
// word is empty in an argument position (e.g., after "unset"), it returns all
// candidates as matches so the user can browse them.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, ws, we := wordBounds(input, cursor)
	wordStart, wordEnd = ws, we

	if m.mode == modeCtrl {
		candidates = m.ctrlCandidates(input, wordStart)

		if word == "" {
			if strings.TrimSpace(input[:wordStart]) == "" ||
				len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			// Return all candidates as unfiltered matches.
			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	} else {
		candidates = m.bindCandidates(input, wordStart)

		if word == "" {
			return nil, nil, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// ctrlCandidates returns the completion candidates for control mode: command
// names in the first word position, bound variable names as arguments to
// "unset".
func (m model) ctrlCandidates(input string, wordStart int) []string {
	head := strings.Fields(input[:wordStart])
	if len(head) == 0 {
		return ctrlCommands
	}

	switch head[0] {
	case "u", "unset":
		return m.boundNames()
	}

	return nil
}

// bindCandidates returns the completion candidates for binding mode: template
// variable names left of the '=', expression builtins and bound variable
// names right of it.
func (m model) bindCandidates(input string, wordStart int) []string {
	if strings.Contains(input[:wordStart], "=") {
		return append(exprBuiltinNames(), m.boundNames()...)
	}

	return templateVars(m.tmpl)
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected)
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		// Check if adding this candidate would exceed width.
		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth

		// If this is the last candidate, no need to reserve ellipsis space.
		if i == len(matches)-1 {
			break
		}
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	// Add "()" suffix for functions (not applied to actual completion)
	if isFunction(match.Str) {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// isFunction checks if a name refers to a function that should display with
// "()". This includes expr-lang builtins and the functions the bind package
// injects into binding expressions.
func isFunction(name string) bool {
	// Check expr-lang builtins using the builtin.Index map
	if _, ok := builtin.Index[name]; ok {
		return true
	}

	return name == "env"
}
