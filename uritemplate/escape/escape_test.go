package escape

import (
	"errors"
	"testing"
)

func TestIs(t *testing.T) {
	tests := []struct {
		name  string
		class byte
		in    string
		out   string
	}{
		{
			name:  "unreserved",
			class: Unreserved,
			in:    "AZaz09-._~",
			out:   " !\"#$%&'()*+,/:;<=>?@[\\]^`{|}",
		},
		{
			name:  "reserved",
			class: Reserved,
			in:    ":/?#[]@!$&'()*+,;=",
			out:   "AZaz09-._~ \"%<>\\^`{|}",
		},
		{
			name:  "varchar",
			class: Varchar,
			in:    "AZaz09_",
			out:   "-.~:/?#[]@!$&'()*+,;= \"%",
		},
		{
			name:  "literal",
			class: Literal,
			in:    "!#$&()*+,-./09:;=?@AZ[]_az~",
			out:   " \"%'<>\\^`{|}\x00\x1f\x7f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < len(tt.in); i++ {
				if !Is(tt.in[i], tt.class) {
					t.Errorf("Is(%q, %s) = false, want true", tt.in[i], tt.name)
				}
			}

			for i := 0; i < len(tt.out); i++ {
				if Is(tt.out[i], tt.class) {
					t.Errorf("Is(%q, %s) = true, want false", tt.out[i], tt.name)
				}
			}
		})
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		allowed byte
		want    string
	}{
		{
			name:    "unreserved passthrough",
			in:      "hello-world_1.0~x",
			allowed: Unreserved,
			want:    "hello-world_1.0~x",
		},
		{
			name:    "reserved escaped under unreserved",
			in:      "/foo/bar?q=1",
			allowed: Unreserved,
			want:    "%2Ffoo%2Fbar%3Fq%3D1",
		},
		{
			name:    "reserved passthrough under wide alphabet",
			in:      "/foo/bar?q=1",
			allowed: Unreserved | Reserved,
			want:    "/foo/bar?q=1",
		},
		{
			name:    "space and percent always escaped",
			in:      "100% sure",
			allowed: Unreserved | Reserved,
			want:    "100%25%20sure",
		},
		{
			name:    "utf8 escaped per octet",
			in:      "café",
			allowed: Unreserved,
			want:    "caf%C3%A9",
		},
		{
			name:    "empty",
			in:      "",
			allowed: Unreserved,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Escape(tt.in, tt.allowed)
			if got != tt.want {
				t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{
			name: "no escapes",
			in:   "plain",
			want: "plain",
		},
		{
			name: "uppercase hex",
			in:   "%2Ffoo%2Fbar",
			want: "/foo/bar",
		},
		{
			name: "lowercase hex accepted",
			in:   "%2ffoo%2fbar",
			want: "/foo/bar",
		},
		{
			name: "utf8 octets",
			in:   "caf%C3%A9",
			want: "café",
		},
		{
			name:    "truncated triplet",
			in:      "abc%2",
			wantErr: true,
		},
		{
			name:    "bad hex digit",
			in:      "abc%zz",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unescape(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Unescape(%q) = %q, want error", tt.in, got)
				}

				var ee EscapeError
				if !errors.As(err, &ee) {
					t.Errorf("error type = %T, want EscapeError", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Unescape(%q) error: %v", tt.in, err)
			}

			if got != tt.want {
				t.Errorf("Unescape(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Escaping with any class mask then unescaping must return the input.
func TestEscapeUnescapeRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"hello",
		"/foo/bar?q=1&r=2#frag",
		"100% of $5",
		"café au lait",
		"a,b,c",
		"{curly}",
	}

	masks := []byte{0, Unreserved, Reserved, Varchar, Literal, Unreserved | Reserved}

	for _, in := range inputs {
		for _, mask := range masks {
			got, err := Unescape(Escape(in, mask))
			if err != nil {
				t.Fatalf("round trip %q mask %#x error: %v", in, mask, err)
			}

			if got != in {
				t.Errorf("round trip %q mask %#x = %q", in, mask, got)
			}
		}
	}
}
