package uritemplate

import (
	"fmt"
	"strings"
	"testing"
)

// benchTemplate builds a template with the given number of
// literal-expression segment pairs.
func benchTemplate(count int) string {
	var sb strings.Builder

	for i := 0; i < count; i++ {
		fmt.Fprintf(&sb, "/seg%d/{var%d}", i, i)
	}

	return sb.String()
}

// BenchmarkParse measures parser throughput across input sizes.
func BenchmarkParse(b *testing.B) {
	sizes := []struct {
		name  string
		count int
	}{
		{"small", 2},
		{"medium", 20},
		{"large", 200},
	}

	for _, size := range sizes {
		source := benchTemplate(size.count)

		b.Run(size.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := Parse(source)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkParseCached measures the impact of caching on repeated
// parses of identical text.
func BenchmarkParseCached(b *testing.B) {
	source := benchTemplate(20)

	ClearCache()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := ParseCached(source)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkExpand measures expansion throughput.
func BenchmarkExpand(b *testing.B) {
	tmpl, err := Parse("/users/{id}/posts{#section}")
	if err != nil {
		b.Fatal(err)
	}

	values := Values{
		"id":      Atom("42"),
		"section": Atom("comments"),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tmpl.Expand(values)
	}
}

// BenchmarkMatch measures match throughput against a known instance.
func BenchmarkMatch(b *testing.B) {
	tmpl, err := Parse("/users/{id}/posts{#section}")
	if err != nil {
		b.Fatal(err)
	}

	uri := tmpl.Expand(Values{
		"id":      Atom("42"),
		"section": Atom("comments"),
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := tmpl.Match(uri)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFormat measures canonical text rendering throughput.
func BenchmarkFormat(b *testing.B) {
	sizes := []struct {
		name  string
		count int
	}{
		{"small", 2},
		{"medium", 20},
		{"large", 200},
	}

	for _, size := range sizes {
		tmpl, err := Parse(benchTemplate(size.count))
		if err != nil {
			b.Fatal(err)
		}

		b.Run(size.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = tmpl.String()
			}
		})
	}
}
