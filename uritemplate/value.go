package uritemplate

import (
	"maps"
	"strings"
)

// ValueKind discriminates the variants of [Value].
type ValueKind int

// Value variants.
const (
	KindAtom ValueKind = iota
	KindList
	KindKeys
)

// String returns the variant name.
func (k ValueKind) String() string {
	switch k {
	case KindAtom:
		return "atom"
	case KindList:
		return "list"
	case KindKeys:
		return "keys"
	default:
		return "invalid"
	}
}

// Value is the data a template variable binds to: a single scalar, an
// ordered list of scalars, or an ordered sequence of key/value pairs.
// Exactly one of Text, Items, and Members is meaningful, selected by Kind.
// The zero Value is the empty atom.
type Value struct {
	Kind    ValueKind
	Text    string   // KindAtom
	Items   []string // KindList
	Members []Member // KindKeys
}

// Member is one key/value pair of a [KindKeys] value.
type Member struct {
	Key   string
	Value string
}

// Atom creates a scalar value.
func Atom(text string) Value {
	return Value{Kind: KindAtom, Text: text}
}

// List creates an ordered list value.
func List(items ...string) Value {
	return Value{Kind: KindList, Items: items}
}

// Keys creates an ordered key/value pair value.
func Keys(members ...Member) Value {
	return Value{Kind: KindKeys, Members: members}
}

// Pair creates one member of a [Keys] value.
func Pair(key, value string) Member {
	return Member{Key: key, Value: value}
}

// String renders the value the way an unmodified variable expands it:
// the text of an atom, list items joined with commas, and pair keys and
// values joined alternately with commas. No percent-encoding is applied.
func (v Value) String() string {
	switch v.Kind {
	case KindList:
		return strings.Join(v.Items, ",")

	case KindKeys:
		flat := make([]string, 0, 2*len(v.Members))
		for _, m := range v.Members {
			flat = append(flat, m.Key, m.Value)
		}

		return strings.Join(flat, ",")

	default:
		return v.Text
	}
}

// Values binds variable names to values. It is created by Match or
// constructed by the caller for Expand, and is never mutated by either.
type Values map[string]Value

// Merge returns a new binding holding every entry of v overlaid with
// every entry of other. On key collision the entry of other wins.
func (v Values) Merge(other Values) Values {
	merged := make(Values, len(v)+len(other))
	maps.Copy(merged, v)
	maps.Copy(merged, other)

	return merged
}
