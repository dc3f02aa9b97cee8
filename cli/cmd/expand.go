package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/urit/log"
	"github.com/ardnew/urit/uritemplate"
	"github.com/ardnew/urit/uritemplate/bind"
)

// Expand expands a URI template with variable values bound from files and
// command-line flags.
type Expand struct {
	Template string   `arg:"" help:"URI template to expand" name:"template" optional:""`
	Set      []string `help:"Bind a variable to an expression result (name=expr)" placeholder:"name=expr" short:"X"`
	Raw      []string `help:"Bind a variable to a literal string (name=text)"     placeholder:"name=text" short:"r"`
	File     string   `help:"Read template from file or '-' for stdin" name:"template-file" short:"f"`
	Watch    bool     `help:"Re-expand whenever a values file changes" short:"w"`
}

// Run executes the expand command.
func (e *Expand) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	tmpl, err := templateFrom(ctx, e.Template, e.File)
	if err != nil {
		return uritemplate.WrapError(err).
			With(slog.String("command", "expand"))
	}

	expansion, err := e.expand(ctx, tmpl)
	if err != nil {
		return err
	}

	fmt.Println(expansion)

	if !e.Watch {
		return nil
	}

	return e.watch(ctx, tmpl)
}

// bindValues decodes the values files stored in ctx and applies the --raw
// and --set bindings on top, in that order, so command-line bindings always
// override file bindings.
func (e *Expand) bindValues(ctx context.Context) (uritemplate.Values, error) {
	values := make(uritemplate.Values)

	if files := valuesFilesFrom(ctx); files != nil {
		bound, err := files.Bind()
		if err != nil {
			return nil, err
		}

		values = values.Merge(bound)
	}

	for _, entry := range e.Raw {
		if err := bind.Raw(values, entry); err != nil {
			return nil, err
		}
	}

	for _, entry := range e.Set {
		if err := bind.Set(values, entry); err != nil {
			return nil, err
		}
	}

	return values, nil
}

func (e *Expand) expand(ctx context.Context, tmpl uritemplate.Template) (string, error) {
	values, err := e.bindValues(ctx)
	if err != nil {
		return "", err
	}

	log.TraceContext(ctx, "expand template",
		slog.String("template", tmpl.String()),
		slog.Int("bound", len(values)),
	)

	return tmpl.Expand(values), nil
}

// watch re-expands the template whenever one of the values files changes,
// printing each new expansion on its own line until ctx is done.
func (e *Expand) watch(ctx context.Context, tmpl uritemplate.Template) error {
	files := valuesFilesFrom(ctx)
	if files == nil || len(files.Paths()) == 0 {
		return ErrWatchValues.Wrap(ErrNoValuesFiles)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatchValues.Wrap(err)
	}
	defer watcher.Close()

	// Watch the parent directories rather than the files themselves so
	// that editors which replace files by rename are still observed.
	watched := make(map[string]struct{}, len(files.Paths()))

	for _, path := range files.Paths() {
		watched[path] = struct{}{}

		if err := watcher.Add(filepath.Dir(path)); err != nil {
			return ErrWatchValues.
				With(slog.String("file", path)).
				Wrap(err)
		}
	}

	log.DebugContext(ctx, "watching values files",
		slog.Int("count", len(watched)),
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if _, ok := watched[event.Name]; !ok {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			expansion, err := e.expand(ctx, tmpl)
			if err != nil {
				log.ErrorContext(ctx, "bind values",
					slog.String("file", event.Name),
					slog.Any("error", err),
				)

				continue
			}

			fmt.Println(expansion)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watch values files", slog.Any("error", err))
		}
	}
}
