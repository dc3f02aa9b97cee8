package bind

import (
	"errors"
	"testing"

	"github.com/ardnew/urit/uritemplate"
)

func TestSet(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		want  uritemplate.Value
	}{
		{
			name:  "string literal",
			entry: `greeting="hello"`,
			want:  uritemplate.Atom("hello"),
		},
		{
			name:  "arithmetic",
			entry: "n=1+2",
			want:  uritemplate.Atom("3"),
		},
		{
			name:  "list literal",
			entry: `tags=["a", "b"]`,
			want:  uritemplate.List("a", "b"),
		},
		{
			name:  "map literal",
			entry: `keys={z: "last", a: "first"}`,
			want: uritemplate.Keys(
				uritemplate.Pair("a", "first"),
				uritemplate.Pair("z", "last"),
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := uritemplate.Values{}

			if err := Set(values, tt.entry); err != nil {
				t.Fatalf("set error: %v", err)
			}

			name, _, _ := split(tt.entry)

			got, ok := values[name]
			if !ok {
				t.Fatalf("variable %q not bound", name)
			}

			if got.Kind != tt.want.Kind {
				t.Fatalf("expected kind %v, got %v", tt.want.Kind, got.Kind)
			}

			if got.String() != tt.want.String() {
				t.Errorf("expected %q, got %q", tt.want.String(), got.String())
			}
		})
	}
}

func TestSet_PriorBindings(t *testing.T) {
	values := uritemplate.Values{
		"base": uritemplate.Atom("10"),
		"tags": uritemplate.List("a", "b"),
	}

	if err := Set(values, `derived=base + "0"`); err != nil {
		t.Fatalf("set error: %v", err)
	}

	if got := values["derived"].Text; got != "100" {
		t.Errorf("expected derived 100, got %q", got)
	}

	// A bound list round-trips through the environment unchanged.
	if err := Set(values, "copied=tags"); err != nil {
		t.Fatalf("set error: %v", err)
	}

	if got := values["copied"]; got.Kind != uritemplate.KindList || got.String() != "a,b" {
		t.Errorf("expected list a,b, got %v", got)
	}
}

func TestSet_Env(t *testing.T) {
	t.Setenv("URIT_TEST_VALUE", "from-env")

	values := uritemplate.Values{}

	if err := Set(values, `home=env("URIT_TEST_VALUE")`); err != nil {
		t.Fatalf("set error: %v", err)
	}

	if got := values["home"].Text; got != "from-env" {
		t.Errorf("expected from-env, got %q", got)
	}
}

func TestSet_Errors(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		want  error
	}{
		{
			name:  "no assignment",
			entry: "noequals",
			want:  ErrBindingSyntax,
		},
		{
			name:  "empty name",
			entry: "=1",
			want:  ErrBindingSyntax,
		},
		{
			name:  "compile failure",
			entry: "x=((",
			want:  ErrExprCompile,
		},
		{
			name:  "eval failure",
			entry: `x=int(env("URIT_TEST_UNSET"))`,
			want:  ErrExprEval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Set(uritemplate.Values{}, tt.entry)
			if err == nil {
				t.Fatal("expected set error")
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("expected error to wrap %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRaw(t *testing.T) {
	values := uritemplate.Values{}

	if err := Raw(values, "x=1+2"); err != nil {
		t.Fatalf("raw error: %v", err)
	}

	// Raw never evaluates: the text binds verbatim, including any
	// further equals signs.
	if got := values["x"].Text; got != "1+2" {
		t.Errorf("expected verbatim 1+2, got %q", got)
	}

	if err := Raw(values, "y=a=b"); err != nil {
		t.Fatalf("raw error: %v", err)
	}

	if got := values["y"].Text; got != "a=b" {
		t.Errorf("expected verbatim a=b, got %q", got)
	}

	if err := Raw(values, "noequals"); !errors.Is(err, ErrBindingSyntax) {
		t.Errorf("expected ErrBindingSyntax, got %v", err)
	}
}
