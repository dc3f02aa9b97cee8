package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/urit/uritemplate"
)

// Fmt reads a URI template, parses it, and reprints it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical template text (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as abstract syntax tree."`
}

// Native formats a template as canonical text with normalized escaping.
type Native struct {
	Template string `arg:"" help:"URI template text" name:"template" optional:""`
	File     string `help:"Read template from file or '-' for default stdin." name:"template-file" short:"f"`
}

// Run executes the fmt command.
func (f *Native) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	tmpl, err := templateFrom(ctx, f.Template, f.File)
	if err != nil {
		return uritemplate.WrapError(err).
			With(slog.String("format", "native"))
	}

	_, err = fmt.Fprintln(os.Stdout, tmpl)

	return err
}

// JSON reads a template, parses it, and outputs its syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Template string `arg:"" help:"URI template text" name:"template" optional:""`
	File     string `help:"Read template from file or '-' for default stdin." name:"template-file" short:"f"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	tmpl, err := templateFrom(ctx, j.Template, j.File)
	if err != nil {
		return uritemplate.WrapError(err).
			With(slog.String("format", "json"))
	}

	if err := tmpl.FormatJSON(ctx, os.Stdout, j.Indent); err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	return nil
}

// YAML reads a template, parses it, and outputs its syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Template string `arg:"" help:"URI template text" name:"template" optional:""`
	File     string `help:"Read template from file or '-' for default stdin." name:"template-file" short:"f"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	tmpl, err := templateFrom(ctx, y.Template, y.File)
	if err != nil {
		return uritemplate.WrapError(err).
			With(slog.String("format", "yaml"))
	}

	if err := tmpl.FormatYAML(ctx, os.Stdout, y.Indent); err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

// AST formats a template as a readable syntax tree dump.
type AST struct {
	Template string `arg:"" help:"URI template text" name:"template" optional:""`
	File     string `help:"Read template from file or '-' for default stdin." name:"template-file" short:"f"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	tmpl, err := templateFrom(ctx, a.Template, a.File)
	if err != nil {
		return uritemplate.WrapError(err).
			With(slog.String("format", "ast"))
	}

	return tmpl.Print(os.Stdout)
}
