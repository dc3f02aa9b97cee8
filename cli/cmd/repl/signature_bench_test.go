package repl

import (
	"testing"
)

// BenchmarkSignatureFor benchmarks signature lookups across a rotation of
// builtin functions.
func BenchmarkSignatureFor(b *testing.B) {
	functions := []string{"len", "join", "filter", "map", "upper", "env"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		funcName := functions[i%len(functions)]
		_, _ = signatureFor(funcName)
	}
}

// BenchmarkSignatureFor_SingleFunction benchmarks repeated lookups of the
// same function.
func BenchmarkSignatureFor_SingleFunction(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = signatureFor("len")
	}
}

// BenchmarkDetectFunctionCall benchmarks call detection with the cursor
// inside a nested parameter list.
func BenchmarkDetectFunctionCall(b *testing.B) {
	const input = "s=join(split(x, '/'), '-')"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = detectFunctionCall(input, len(input)-1)
	}
}

// BenchmarkRenderSignatureHint benchmarks hint rendering with a highlighted
// parameter.
func BenchmarkRenderSignatureHint(b *testing.B) {
	signature, params := signatureFor("replace")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = renderSignatureHint(signature, params, 1)
	}
}
