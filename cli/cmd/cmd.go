package cmd

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/urit/uritemplate"
	"github.com/ardnew/urit/uritemplate/bind"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	valuesFilesKey struct{}
	valuesFiles    struct {
		paths    []string
		hasStdin bool
	}

	// ValuesFiles is the deduplicated, ordered set of value binding files
	// named on the command line.
	ValuesFiles interface {
		IsZero() bool
		HasStdin() bool
		Paths() []string
		Bind() (uritemplate.Values, error)
	}
)

// IsZero reports whether no values files were given.
func (v *valuesFiles) IsZero() bool { return len(v.paths) == 0 && !v.hasStdin }

// HasStdin reports whether stdin was included as a values source.
func (v *valuesFiles) HasStdin() bool { return v.hasStdin }

// Paths returns the distinct regular files in command-line order.
// Stdin is never included; it is always decoded last by Bind.
func (v *valuesFiles) Paths() []string { return v.paths }

// Bind decodes every values file in order and merges the results into a
// single binding. Later files override earlier ones name by name, and
// stdin overrides all regular files.
func (v *valuesFiles) Bind() (uritemplate.Values, error) {
	merged := make(uritemplate.Values)

	sources := v.paths
	if v.hasStdin {
		sources = append(sources[:len(sources):len(sources)], stdinSource)
	}

	for _, src := range sources {
		values, err := bind.FromFile(src)
		if err != nil {
			return nil, ErrBindValues.
				With(slog.String("file", src)).
				Wrap(err)
		}

		merged = merged.Merge(values)
	}

	return merged, nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithValuesFiles returns a new context.Context containing the set of value
// binding files named by sources.
//
// The function deduplicates paths by resolving symlinks and comparing device/
// inode pairs, so the same file named twice (directly, relatively, or through
// a link) is decoded once. All occurrences of "-" are replaced with a single
// stdin source, which is always decoded last so its bindings override those
// of all regular files. Paths that cannot be resolved are skipped.
func WithValuesFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, valuesFilesKey{}, buildValuesFiles(sources))
}

func buildValuesFiles(sources []string) ValuesFiles {
	if len(sources) == 0 {
		return nil
	}

	var values valuesFiles

	values.paths = make([]string, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		path, ok := uniqueFilePath(src, seen)
		if !ok {
			continue
		}

		values.paths = append(values.paths, path)
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, values.hasStdin = seen[stdinKey]

	if values.IsZero() {
		return nil
	}

	return &values
}

// uniqueFilePath resolves the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// Returns the resolved path and true if successful, or "" and false if the
// file is a duplicate or cannot be resolved.
func uniqueFilePath(path string, seen map[fileKey]struct{}) (string, bool) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", false
	}

	// Get file info to extract device and inode.
	info, err := os.Stat(resolved)
	if err != nil {
		return "", false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return "", false
	}

	if _, exists := seen[key]; exists {
		return "", false
	}

	seen[key] = struct{}{}

	return resolved, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// valuesFilesFrom retrieves the ValuesFiles stored in ctx by WithValuesFiles.
// Returns nil if none were stored.
func valuesFilesFrom(ctx context.Context) ValuesFiles {
	values, ok := ctx.Value(valuesFilesKey{}).(ValuesFiles)
	if !ok || values == nil {
		return nil
	}

	return values
}

// templateFrom parses a template given either inline as text or named by a
// file path ("-" for stdin). Giving both is an error. Giving neither reads
// stdin, so bare invocations compose with pipes.
func templateFrom(ctx context.Context, text, path string) (uritemplate.Template, error) {
	switch {
	case text != "" && path != "":
		return uritemplate.Template{}, ErrTemplateSource

	case text != "":
		return uritemplate.ParseCached(text)

	default:
		if path == "" {
			path = stdinSource
		}

		return parseTemplateFile(ctx, path)
	}
}

// parseTemplateFile parses template text from the named file, or from stdin
// when path is "-".
func parseTemplateFile(ctx context.Context, path string) (uritemplate.Template, error) {
	file := os.Stdin

	if path != stdinSource {
		var err error

		file, err = os.Open(path)
		if err != nil {
			return uritemplate.Template{}, uritemplate.ErrReadInput.
				With(slog.String("file", path)).
				Wrap(err)
		}

		defer file.Close()
	}

	return uritemplate.ParseReader(ctx, bufio.NewReader(file))
}
