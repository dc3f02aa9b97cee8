package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/urit/log"
	"github.com/ardnew/urit/uritemplate"
)

const defaultEditor = "vi"

// editTemplateCommand implements [tea.ExecCommand] for the template
// edit-parse-retry loop. It writes the current template text to a temp file,
// opens the user's editor, and re-parses the result. On parse error the user
// is prompted to re-edit; declining keeps the previous template.
type editTemplateCommand struct {
	tmpl    *uritemplate.Template
	ctxFunc func() context.Context
	edited  *uritemplate.Template
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editTemplateCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editTemplateCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editTemplateCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. It writes the template text, opens
// the editor, parses the result, and prompts on error. If the user declines
// to re-edit, it returns [ErrEditDeclined].
func (c *editTemplateCommand) Run() error {
	ctx := c.ctxFunc()

	var content string
	if c.tmpl != nil {
		content = c.tmpl.String() + "\n"
	}

	// Create a single temp file for the entire loop.
	f, err := os.CreateTemp(os.TempDir(), "urit-repl-*.urit")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		// Write current content to temp file.
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		// Launch editor and get a reader over the result.
		r, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}

		// An empty (or whitespace-only) file means the user cleared the
		// content; treat as a cancelled edit.
		text := strings.TrimSpace(string(data))
		if text == "" {
			return nil
		}

		tmpl, parseErr := uritemplate.Parse(
			text,
			uritemplate.WithLogger(c.logger),
		)
		c.logger.TraceContext(
			ctx,
			"editor parse attempt",
			slog.Int("content_length", len(text)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.edited = &tmpl

			return nil
		}

		// Show error and prompt.
		fmt.Fprintf(c.stderr, "\nParse error: %s\n", parseErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		// Re-read the (failed) content for the next editor iteration.
		raw, readErr := os.ReadFile(tmpPath)
		if readErr != nil {
			return readErr
		}

		content = string(raw)
	}
}

// runEditor launches the user's editor on the given file path and returns a
// reader over the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) (io.Reader, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return f, nil
}
