package uritemplate

import (
	"errors"
	"reflect"
	"testing"
)

func TestMatch_Simple(t *testing.T) {
	tests := []struct {
		name  string
		input string
		uri   string
		want  Values
	}{
		{
			name:  "literal only",
			input: "/find",
			uri:   "/find",
			want:  Values{},
		},
		{
			name:  "atom slot",
			input: "X{hello}",
			uri:   "XHello%20World%21",
			want:  Values{"hello": Atom("Hello World!")},
		},
		{
			name:  "slot between literals",
			input: "/users/{id}/posts",
			uri:   "/users/42/posts",
			want:  Values{"id": Atom("42")},
		},
		{
			name:  "escaped comma joins a run",
			input: "{x}",
			uri:   "a%2Cb",
			want:  Values{"x": Atom("a,b")},
		},
		{
			name:  "multibyte escapes decode",
			input: "{x}",
			uri:   "caf%C3%A9",
			want:  Values{"x": Atom("café")},
		},
		{
			name:  "fragment prefix consumed",
			input: "{#x}",
			uri:   "#val",
			want:  Values{"x": Atom("val")},
		},
		{
			name:  "level-3 expression consumes nothing",
			input: "/find{?year,month}",
			uri:   "/find",
			want:  Values{},
		},
		{
			name:  "later binding overwrites earlier",
			input: "{x}/{x}",
			uri:   "1/2",
			want:  Values{"x": Atom("2")},
		},
		{
			name:  "prefix variable binds its whole slot",
			input: "{var:3}",
			uri:   "value",
			want:  Values{"var": Atom("value")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			got, err := tmpl.Match(tt.uri)
			if err != nil {
				t.Fatalf("match error: %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected binding %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMatch_MultipleVariables(t *testing.T) {
	tests := []struct {
		name  string
		input string
		uri   string
		want  Values
	}{
		{
			name:  "two atoms",
			input: "{x,y}",
			uri:   "1,2",
			want:  Values{"x": Atom("1"), "y": Atom("2")},
		},
		{
			name:  "fragment with two atoms",
			input: "{#x,y}",
			uri:   "#1,2",
			want:  Values{"x": Atom("1"), "y": Atom("2")},
		},
		{
			name:  "final explode claims the rest",
			input: "{x,rest*}",
			uri:   "1,2,3",
			want:  Values{"x": Atom("1"), "rest": List("2", "3")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			got, err := tmpl.Match(tt.uri)
			if err != nil {
				t.Fatalf("match error: %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected binding %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMatch_Explode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		uri   string
		want  Values
	}{
		{
			name:  "comma run binds as list",
			input: "{list*}",
			uri:   "a,b,c",
			want:  Values{"list": List("a", "b", "c")},
		},
		{
			name:  "single pair binds as keys",
			input: "{list*}",
			uri:   "k=v",
			want:  Values{"list": Keys(Pair("k", "v"))},
		},
		{
			name:  "all pairs bind as keys",
			input: "{list*}",
			uri:   "k1=v1,k2=v2",
			want:  Values{"list": Keys(Pair("k1", "v1"), Pair("k2", "v2"))},
		},
		{
			name:  "mixed segments fall back to list",
			input: "{list*}",
			uri:   "k=v,plain",
			want:  Values{"list": List("k=v", "plain")},
		},
		{
			name:  "double pair delimiter falls back to list",
			input: "{list*}",
			uri:   "a=b=c",
			want:  Values{"list": List("a=b=c")},
		},
		{
			name:  "escaped delimiter is value text not pair structure",
			input: "{list*}",
			uri:   "k%3Dv",
			want:  Values{"list": List("k=v")},
		},
		{
			name:  "single segment binds as one-item list",
			input: "{list*}",
			uri:   "only",
			want:  Values{"list": List("only")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			got, err := tmpl.Match(tt.uri)
			if err != nil {
				t.Fatalf("match error: %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected binding %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMatch_Failures(t *testing.T) {
	tests := []struct {
		name  string
		input string
		uri   string
	}{
		{
			name:  "literal mismatch",
			input: "/a{b}",
			uri:   "/x1",
		},
		{
			name:  "trailing text unconsumed",
			input: "{x}",
			uri:   "ab/cd",
		},
		{
			name:  "empty input has no slot",
			input: "{x}",
			uri:   "",
		},
		{
			name:  "missing second slot",
			input: "{x,y}",
			uri:   "1",
		},
		{
			name:  "excess slots",
			input: "{x,y}",
			uri:   "1,2,3",
		},
		{
			name:  "fragment prefix required",
			input: "{#x}",
			uri:   "val",
		},
		{
			name:  "non-final explode starves the next variable",
			input: "{list*,y}",
			uri:   "1,2,3",
		},
		{
			name:  "greedy reserved run defeats trailing literal",
			input: "{+path}/here",
			uri:   "/foo/bar/here",
		},
		{
			name:  "non-canonical literal encoding",
			input: "a%20b",
			uri:   "a b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			values, err := tmpl.Match(tt.uri)
			if err == nil {
				t.Fatalf("expected match failure, got binding %v", values)
			}

			if !errors.Is(err, ErrMatch) {
				t.Errorf("expected error to wrap ErrMatch, got %v", err)
			}

			if values != nil {
				t.Errorf("expected no partial binding, got %v", values)
			}
		})
	}
}

func TestMatch_ExpandInverse(t *testing.T) {
	// For bindings of non-empty atoms over the unreserved alphabet,
	// matching an expansion recovers the original binding.
	tests := []struct {
		name   string
		input  string
		values Values
	}{
		{
			name:   "single atom",
			input:  "X{hello}",
			values: Values{"hello": Atom("HelloWorld")},
		},
		{
			name:   "atoms across expressions",
			input:  "/{a}/{b}",
			values: Values{"a": Atom("first"), "b": Atom("second")},
		},
		{
			name:   "fragment pair",
			input:  "{#x,y}",
			values: Values{"x": Atom("1"), "y": Atom("2")},
		},
		{
			name:   "exploded list",
			input:  "pre{list*}",
			values: Values{"list": List("a", "b", "c")},
		},
		{
			name:   "exploded keys",
			input:  "{keys*}",
			values: Values{"keys": Keys(Pair("k1", "v1"), Pair("k2", "v2"))},
		},
		{
			name:   "atom with characters outside the alphabet",
			input:  "{x}",
			values: Values{"x": Atom("Hello World!")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			uri := tmpl.Expand(tt.values)

			got, err := tmpl.Match(uri)
			if err != nil {
				t.Fatalf("match error on %q: %v", uri, err)
			}

			if !reflect.DeepEqual(got, tt.values) {
				t.Errorf("expected binding %v, got %v", tt.values, got)
			}
		})
	}
}
