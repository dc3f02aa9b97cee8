package uritemplate

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestParseCached_SharedInstance(t *testing.T) {
	ClearCache()

	source := "/users/{id}/posts{?page}"

	t1, err := ParseCached(source)
	if err != nil {
		t.Fatalf("first parse error: %v", err)
	}

	t2, err := ParseCached(source)
	if err != nil {
		t.Fatalf("second parse error: %v", err)
	}

	if len(t1.Parts) == 0 || len(t2.Parts) == 0 {
		t.Fatal("expected parsed parts")
	}

	// The cached template shares one backing array.
	if &t1.Parts[0] != &t2.Parts[0] {
		t.Error("expected the same cached template instance")
	}
}

func TestParseCached_Error(t *testing.T) {
	ClearCache()

	for i := 0; i < 2; i++ {
		_, err := ParseCached("{")
		if err == nil {
			t.Fatalf("call %d: expected parse error", i)
		}

		if !errors.Is(err, ErrParse) {
			t.Errorf("call %d: expected error to wrap ErrParse, got %v", i, err)
		}
	}
}

func TestClearCache(t *testing.T) {
	ClearCache()

	source := "X{hello}"

	t1, err := ParseCached(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	ClearCache()

	t2, err := ParseCached(source)
	if err != nil {
		t.Fatalf("parse error after clear: %v", err)
	}

	// A fresh parse populates the cache with a new instance.
	if &t1.Parts[0] == &t2.Parts[0] {
		t.Error("expected a distinct instance after ClearCache")
	}
}

func TestParseReader(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "plain text",
			source: "X{hello}",
			want:   "X{hello}",
		},
		{
			name:   "trailing newline trimmed",
			source: "X{hello}\n",
			want:   "X{hello}",
		},
		{
			name:   "trailing crlf trimmed",
			source: "X{hello}\r\n",
			want:   "X{hello}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseReader(context.Background(), strings.NewReader(tt.source))
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if got := tmpl.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseReader_ParseError(t *testing.T) {
	_, err := ParseReader(context.Background(), strings.NewReader("{"))
	if err == nil {
		t.Fatal("expected parse error")
	}

	if !errors.Is(err, ErrParse) {
		t.Errorf("expected error to wrap ErrParse, got %v", err)
	}
}

func TestParseReader_ReadError(t *testing.T) {
	_, err := ParseReader(context.Background(), failingReader{})
	if err == nil {
		t.Fatal("expected read error")
	}

	if !errors.Is(err, ErrReadInput) {
		t.Errorf("expected error to wrap ErrReadInput, got %v", err)
	}
}

func TestParseReader_ConsumesReader(t *testing.T) {
	readCount := 0
	r := &countingReader{
		reader: strings.NewReader("X{hello}"),
		count:  &readCount,
	}

	_, err := ParseReader(context.Background(), r)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if readCount == 0 {
		t.Error("expected ParseReader to consume the reader")
	}
}

// countingReader wraps an io.Reader and counts Read calls.
type countingReader struct {
	reader io.Reader
	count  *int
}

func (c *countingReader) Read(p []byte) (n int, err error) {
	*c.count++

	return c.reader.Read(p)
}

// failingReader always fails.
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}
