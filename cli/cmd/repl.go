package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/urit/cli/cmd/repl"
	"github.com/ardnew/urit/log"
	"github.com/ardnew/urit/uritemplate"
)

// Repl starts the interactive template playground.
type Repl struct {
	Template string `arg:"" help:"Initial URI template" name:"template" optional:""`
	File     string `help:"Read initial template from file" name:"template-file" short:"f"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	ktx := kongContextFrom(ctx)

	cacheDir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok {
		panic("internal error: cache path undefined")
	}

	// Only resolve a template when one was named. The playground starts
	// empty otherwise, and stdin stays free for the terminal.
	var tmpl *uritemplate.Template

	if r.Template != "" || r.File != "" {
		parsed, err := templateFrom(ctx, r.Template, r.File)
		if err != nil {
			return uritemplate.WrapError(err).
				With(slog.String("command", "repl"))
		}

		tmpl = &parsed
	}

	values := make(uritemplate.Values)

	if files := valuesFilesFrom(ctx); files != nil {
		bound, err := files.Bind()
		if err != nil {
			return err
		}

		values = bound
	}

	return repl.Run(ctx, tmpl, values, cacheDir,
		log.With(slog.String("component", "repl")))
}
