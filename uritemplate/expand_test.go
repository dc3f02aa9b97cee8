package uritemplate

import "testing"

func TestExpand_Simple(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		values Values
		want   string
	}{
		{
			name:   "literal only",
			input:  "/find",
			values: Values{},
			want:   "/find",
		},
		{
			name:   "atom substitution",
			input:  "X{hello}",
			values: Values{"hello": Atom("Hello World!")},
			want:   "XHello%20World%21",
		},
		{
			name:   "simple operator escapes reserved characters",
			input:  "{path}",
			values: Values{"path": Atom("/foo/bar")},
			want:   "%2Ffoo%2Fbar",
		},
		{
			name:   "plus operator passes reserved characters",
			input:  "{+path}/here",
			values: Values{"path": Atom("/foo/bar")},
			want:   "/foo/bar/here",
		},
		{
			name:   "fragment operator prefixes hash",
			input:  "{#x,y}",
			values: Values{"x": Atom("1"), "y": Atom("2")},
			want:   "#1,2",
		},
		{
			name:   "fragment passes reserved characters",
			input:  "{#frag}",
			values: Values{"frag": Atom("a/b")},
			want:   "#a/b",
		},
		{
			name:   "multibyte text escapes per byte",
			input:  "{x}",
			values: Values{"x": Atom("café")},
			want:   "caf%C3%A9",
		},
		{
			name:   "multiple expressions",
			input:  "/{a}/{b}",
			values: Values{"a": Atom("1"), "b": Atom("2")},
			want:   "/1/2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if got := tmpl.Expand(tt.values); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExpand_Omission(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		values Values
		want   string
	}{
		{
			name:   "absent variable",
			input:  "X{missing}Y",
			values: Values{},
			want:   "XY",
		},
		{
			name:   "empty list omitted",
			input:  "X{list}Y",
			values: Values{"list": List()},
			want:   "XY",
		},
		{
			name:   "empty keys omitted",
			input:  "X{keys}Y",
			values: Values{"keys": Keys()},
			want:   "XY",
		},
		{
			name:   "empty atom is present",
			input:  "X{empty}Y",
			values: Values{"empty": Atom("")},
			want:   "XY",
		},
		{
			name:   "empty atom still triggers fragment prefix",
			input:  "{#empty}",
			values: Values{"empty": Atom("")},
			want:   "#",
		},
		{
			name:   "all variables absent suppresses fragment prefix",
			input:  "{#x,y}",
			values: Values{},
			want:   "",
		},
		{
			name:   "partial binding keeps only present variables",
			input:  "{x,y,z}",
			values: Values{"y": Atom("2")},
			want:   "2",
		},
		{
			name:   "empty binding leaves only literals",
			input:  "/a{b}/c{d}",
			values: Values{},
			want:   "/a/c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if got := tmpl.Expand(tt.values); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExpand_Modifiers(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		values Values
		want   string
	}{
		{
			name:   "prefix truncates",
			input:  "{var:3}",
			values: Values{"var": Atom("value")},
			want:   "val",
		},
		{
			name:   "prefix longer than value",
			input:  "{var:10}",
			values: Values{"var": Atom("ab")},
			want:   "ab",
		},
		{
			name:   "prefix zero yields empty slot",
			input:  "{var:0}",
			values: Values{"var": Atom("value")},
			want:   "",
		},
		{
			name:   "prefix counts runes not bytes",
			input:  "{var:4}",
			values: Values{"var": Atom("café au lait")},
			want:   "caf%C3%A9",
		},
		{
			name:   "prefix ignored on list",
			input:  "{list:1}",
			values: Values{"list": List("aaa", "bbb")},
			want:   "aaa,bbb",
		},
		{
			name:   "explode atom same as plain",
			input:  "{var*}",
			values: Values{"var": Atom("v")},
			want:   "v",
		},
		{
			name:   "list joins with comma",
			input:  "{list}",
			values: Values{"list": List("a", "b", "c")},
			want:   "a,b,c",
		},
		{
			name:   "exploded list joins with comma",
			input:  "{list*}",
			values: Values{"list": List("a", "b", "c")},
			want:   "a,b,c",
		},
		{
			name:   "keys flatten without explode",
			input:  "{keys}",
			values: Values{"keys": Keys(Pair("k1", "v1"), Pair("k2", "v2"))},
			want:   "k1,v1,k2,v2",
		},
		{
			name:   "exploded keys join pairs",
			input:  "{keys*}",
			values: Values{"keys": Keys(Pair("k1", "v1"), Pair("k2", "v2"))},
			want:   "k1=v1,k2=v2",
		},
		{
			name:   "list items escape individually",
			input:  "{list*}",
			values: Values{"list": List("a/b", "c d")},
			want:   "a%2Fb,c%20d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if got := tmpl.Expand(tt.values); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExpand_UnsupportedOperators(t *testing.T) {
	// Level-3 and reserved operators parse and format but render
	// nothing, leaving only the literal parts in the output.
	values := Values{
		"year":  Atom("2024"),
		"month": Atom("7"),
		"x":     Atom("1"),
	}

	tests := []struct {
		input string
		want  string
	}{
		{input: "/find{?year,month}", want: "/find"},
		{input: "{.x}tail", want: "tail"},
		{input: "{/x}tail", want: "tail"},
		{input: "{;x}tail", want: "tail"},
		{input: "{&x}tail", want: "tail"},
		{input: "{=x}tail", want: "tail"},
		{input: "{,x}tail", want: "tail"},
		{input: "{!x}tail", want: "tail"},
		{input: "{@x}tail", want: "tail"},
		{input: "{|x}tail", want: "tail"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tmpl, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if got := tmpl.Expand(values); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
