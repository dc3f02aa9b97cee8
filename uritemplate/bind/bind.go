package bind

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/urit/uritemplate"
)

// FromFile reads a YAML binding document from path. A path of "-"
// reads standard input.
func FromFile(path string) (uritemplate.Values, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, ErrReadBinding.Wrap(err).
			With(slog.String("path", path))
	}

	return FromYAML(data)
}

// FromYAML decodes a YAML mapping into a binding. Each top-level key
// names a variable; scalar values bind as atoms, sequences of scalars
// as lists, and nested mappings as ordered key sets.
func FromYAML(data []byte) (uritemplate.Values, error) {
	var doc any

	// Ordered decoding keeps key sets in document order.
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, ErrDecodeBinding.Wrap(err)
	}

	if doc == nil {
		return uritemplate.Values{}, nil
	}

	mapping, ok := doc.(yaml.MapSlice)
	if !ok {
		return nil, ErrDecodeBinding.
			With(slog.String("issue", "document root is not a mapping"))
	}

	values := make(uritemplate.Values, len(mapping))

	for _, item := range mapping {
		name, ok := item.Key.(string)
		if !ok {
			return nil, ErrDecodeBinding.
				With(slog.Any("key", item.Key))
		}

		value, err := FromNative(item.Value)
		if err != nil {
			return nil, uritemplate.WrapError(err).
				With(slog.String("variable", name))
		}

		values[name] = value
	}

	return values, nil
}

// FromNative converts a decoded Go value into a binding value. Scalars
// become atoms, slices of scalars become lists, and mappings become
// key sets. Nesting beyond one level has no home in the value model
// and is an error.
func FromNative(v any) (uritemplate.Value, error) {
	switch value := v.(type) {
	case nil:
		return uritemplate.Atom(""), nil

	case []any:
		items := make([]string, len(value))

		for i, item := range value {
			text, err := scalarText(item)
			if err != nil {
				return uritemplate.Value{}, err
			}

			items[i] = text
		}

		return uritemplate.List(items...), nil

	case yaml.MapSlice:
		members := make([]uritemplate.Member, len(value))

		for i, item := range value {
			key, ok := item.Key.(string)
			if !ok {
				return uritemplate.Value{}, ErrBindingValue.
					With(slog.Any("key", item.Key))
			}

			text, err := scalarText(item.Value)
			if err != nil {
				return uritemplate.Value{}, err
			}

			members[i] = uritemplate.Pair(key, text)
		}

		return uritemplate.Keys(members...), nil

	case map[string]any:
		// Unordered maps come from expression results; sort their
		// keys so the binding is deterministic.
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		members := make([]uritemplate.Member, len(keys))

		for i, key := range keys {
			text, err := scalarText(value[key])
			if err != nil {
				return uritemplate.Value{}, err
			}

			members[i] = uritemplate.Pair(key, text)
		}

		return uritemplate.Keys(members...), nil
	}

	text, err := scalarText(v)
	if err != nil {
		return uritemplate.Value{}, err
	}

	return uritemplate.Atom(text), nil
}

// scalarText renders a scalar decoded value as its text form.
func scalarText(v any) (string, error) {
	switch value := v.(type) {
	case nil:
		return "", nil

	case string:
		return value, nil

	case bool:
		return strconv.FormatBool(value), nil

	case int:
		return strconv.Itoa(value), nil

	case int64:
		return strconv.FormatInt(value, 10), nil

	case uint64:
		return strconv.FormatUint(value, 10), nil

	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), nil
	}

	return "", ErrBindingValue.
		With(slog.String("type", fmt.Sprintf("%T", v)))
}
