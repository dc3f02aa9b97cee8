// Package cli contains the command line interface for urit.
//
// # Usage
//
// Templates may be given inline, read from files, or piped on stdin. The
// default command expands a template with values bound from YAML or JSON
// files and from command-line flags:
//
//	urit '{scheme}://{host}{/path*}{?q}' --values vals.yaml
//	urit expand '{/path*}' -X 'path=["a","b"]'
//	urit match '/users/{id}' /users/42
//	echo '{+base}/search' | urit fmt json
//
// # Configuration Loader
//
// The package includes a Kong configuration loader ([resolve]) that reads
// flag defaults from the "config" section of a YAML file in the user config
// directory. A sibling JSON file is also honored via Kong's built-in loader.
// Run "urit init" to generate the file from the current flag values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Enable colorized pretty printing
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o urit .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/urit/pprof)
//
// # Examples
//
//	# Debug logging with CPU profiling
//	urit --log-level=debug --pprof-mode=cpu '{var}'
//
//	# Re-expand whenever the values file changes
//	urit expand --watch --values vals.yaml '{scheme}://{host}'
//
//	# Interactive playground
//	urit repl '{/path*}{?q,lang}'
package cli
