package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/ardnew/urit/log"
	"github.com/ardnew/urit/uritemplate"
)

// Match matches a URI against a template and prints the recovered variable
// binding.
type Match struct {
	Template string `arg:"" help:"URI template to match against" name:"template"`
	URI      string `arg:"" help:"URI to match"                   name:"uri"`

	Format string `default:"yaml" enum:"yaml,json,flat" help:"Binding output format (yaml, json, flat)" short:"o"`
	Indent int    `default:"2"    help:"Indent width for structured output" short:"i"`
}

// Run executes the match command.
func (m *Match) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	tmpl, err := uritemplate.ParseCached(m.Template)
	if err != nil {
		return uritemplate.WrapError(err).
			With(slog.String("command", "match"))
	}

	values, err := tmpl.Match(m.URI)
	if err != nil {
		return uritemplate.WrapError(err).
			With(
				slog.String("command", "match"),
				slog.String("uri", m.URI),
			)
	}

	log.TraceContext(ctx, "matched URI",
		slog.String("template", tmpl.String()),
		slog.Int("bound", len(values)),
	)

	switch m.Format {
	case "json":
		if err := values.FormatJSON(ctx, os.Stdout, m.Indent); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		return nil

	case "flat":
		for _, name := range slices.Sorted(maps.Keys(values)) {
			fmt.Printf("%s=%s\n", name, values[name])
		}

		return nil

	default:
		if err := values.FormatYAML(ctx, os.Stdout, m.Indent); err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		return nil
	}
}
