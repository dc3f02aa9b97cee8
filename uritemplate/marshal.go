package uritemplate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// MarshalJSON implements json.Marshaler for Template.
func (t Template) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToMap())
}

// ToMap converts the template to a native Go structure describing its
// parts, suitable for serialization.
func (t Template) ToMap() map[string]any {
	parts := make([]any, len(t.Parts))
	for i, part := range t.Parts {
		parts[i] = part.toNative()
	}

	return map[string]any{
		"template": t.String(),
		"parts":    parts,
	}
}

func (p Part) toNative() any {
	switch p.Kind {
	case KindLiteral:
		return map[string]any{"literal": p.Text}

	case KindExpression:
		expr := make(map[string]any)

		if p.Expr.Op != OpNone {
			expr["operator"] = p.Expr.Op.String()
		}

		vars := make([]any, len(p.Expr.Vars))
		for i, v := range p.Expr.Vars {
			vars[i] = v.toNative()
		}

		expr["variables"] = vars

		return map[string]any{"expression": expr}
	}

	return nil
}

func (v VarSpec) toNative() any {
	spec := map[string]any{"name": v.Name}

	switch v.Modifier {
	case ModPrefix:
		spec["prefix"] = v.MaxLength

	case ModExplode:
		spec["explode"] = true
	}

	return spec
}

// FormatJSON writes the template's structure as JSON to the writer.
func (t Template) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	return formatJSON(w, t, indent)
}

// FormatYAML writes the template's structure as YAML to the writer.
func (t Template) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return formatYAML(ctx, w, t.ToMap(), indent)
}

// MarshalJSON implements json.Marshaler for Value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToNative())
}

// ToNative converts a Value to its native Go type: a string for an
// atom, a slice for a list, and a sequence of single-entry maps for
// keys, which preserves member order in both JSON and YAML.
func (v Value) ToNative() any {
	switch v.Kind {
	case KindAtom:
		return v.Text

	case KindList:
		items := make([]any, len(v.Items))
		for i, item := range v.Items {
			items[i] = item
		}

		return items

	case KindKeys:
		members := make([]any, len(v.Members))
		for i, m := range v.Members {
			members[i] = map[string]any{m.Key: m.Value}
		}

		return members
	}

	return nil
}

// ToMap converts the binding to a native Go map structure.
func (vs Values) ToMap() map[string]any {
	result := make(map[string]any, len(vs))

	for name, value := range vs {
		result[name] = value.ToNative()
	}

	return result
}

// FormatJSON writes the binding as JSON to the writer.
func (vs Values) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	return formatJSON(w, vs.ToMap(), indent)
}

// FormatYAML writes the binding as YAML to the writer.
func (vs Values) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return formatYAML(ctx, w, vs.ToMap(), indent)
}

func formatJSON(w io.Writer, v any, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

func formatYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}
