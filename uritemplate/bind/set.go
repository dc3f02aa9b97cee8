package bind

import (
	"log/slog"
	"os"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ardnew/urit/uritemplate"
)

// Set applies a "name=expression" assignment to the binding. The
// right-hand side is an expr-lang expression evaluated against an
// environment exposing every variable already bound, plus an env()
// function for process environment access. The result converts to a
// binding value per [FromNative], so expressions can produce atoms
// ("hello", 42), lists (["a", "b"]), or key sets ({k: "v"}).
func Set(values uritemplate.Values, entry string) error {
	name, source, err := split(entry)
	if err != nil {
		return err
	}

	env := exprEnv(values)

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return ErrExprCompile.Wrap(err).
			With(slog.String("source", source))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return ErrExprEval.Wrap(err).
			With(slog.String("source", source))
	}

	value, err := FromNative(out)
	if err != nil {
		return uritemplate.WrapError(err).
			With(slog.String("variable", name))
	}

	values[name] = value

	return nil
}

// Raw applies a "name=text" assignment to the binding, binding the
// right-hand side verbatim as an atom.
func Raw(values uritemplate.Values, entry string) error {
	name, text, err := split(entry)
	if err != nil {
		return err
	}

	values[name] = uritemplate.Atom(text)

	return nil
}

func split(entry string) (name, rest string, err error) {
	name, rest, ok := strings.Cut(entry, "=")

	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", ErrBindingSyntax.
			With(slog.String("entry", entry))
	}

	return name, rest, nil
}

// exprEnv builds the expression environment from the current binding
// and the process environment.
func exprEnv(values uritemplate.Values) map[string]any {
	env := make(map[string]any, len(values)+1)

	for name, value := range values {
		env[name] = value.ToNative()
	}

	env["env"] = envFunc(os.Environ())

	return env
}

// envFunc returns the built-in env() function that provides process
// environment access to expressions.
func envFunc(environ []string) func(string) string {
	lookup := make(map[string]string, len(environ))

	for _, entry := range environ {
		if key, value, ok := strings.Cut(entry, "="); ok {
			lookup[key] = value
		}
	}

	return func(key string) string {
		return lookup[key]
	}
}
