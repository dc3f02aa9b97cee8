package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag values from
// the section of a YAML document stored under the given top-level key.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve("config"), "/path/to/config")
//
// The section is converted as follows:
//   - Each key under the section becomes a flat configuration entry
//   - Flag names with hyphens (e.g., "log-level") may use underscores
//     in the config file (e.g., "log_level") or keep the hyphens
//   - Numbers are converted to strings for Kong's flag parsing
//   - Top-level keys other than the named section are ignored
//
// Example config file:
//
//	config:
//	  log_level: debug
//	  log_format: json
//	  log_pretty: true
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug
//	--log-format=json
//	--log-pretty=true
//
// Command-line flags override config file values. A file that cannot be
// parsed, or that lacks the named section, resolves to an empty config so
// that a broken or foreign config file never blocks the CLI.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			// Unreadable config - return empty config
			return config{}, nil
		}

		var doc yaml.MapSlice

		err = yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap())
		if err != nil {
			// Parse error - return empty config
			return config{}, nil
		}

		for _, item := range doc {
			key, ok := item.Key.(string)
			if !ok || key != name {
				continue
			}

			section, ok := item.Value.(yaml.MapSlice)
			if !ok {
				// Section is not a mapping - return empty config
				return config{}, nil
			}

			return config(sectionToMap(section)), nil
		}

		// Section not found - return empty config
		return config{}, nil
	}
}

// config implements [kong.Resolver] for YAML config sections.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but config keys may use
	// underscores. Try both forms.
	name := flag.Name
	underscoreName := strings.ReplaceAll(name, "-", "_")

	// Look up the value in our config
	if value, ok := r[name]; ok {
		return value, nil
	}

	// Try underscore variant
	if value, ok := r[underscoreName]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// sectionToMap converts a YAML mapping to a flat configuration map.
func sectionToMap(section yaml.MapSlice) map[string]any {
	result := make(map[string]any, len(section))

	for _, item := range section {
		key, ok := item.Key.(string)
		if !ok {
			continue
		}

		// Kong requires numbers as strings for parsing
		switch v := item.Value.(type) {
		case int:
			result[key] = strconv.Itoa(v)

		case int64:
			result[key] = strconv.FormatInt(v, 10)

		case uint64:
			result[key] = strconv.FormatUint(v, 10)

		case float64:
			result[key] = strconv.FormatFloat(v, 'f', -1, 64)

		default:
			result[key] = v
		}
	}

	return result
}
