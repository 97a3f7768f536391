package builtin

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/xvandervort/graphoid/pkg/value"
)

// ToJSON renders v as JSON text, using the same marshal round-trip
// idiom a storage export layer would use, retargeted at Graphoid's
// Value model.
func ToJSON(v value.Value) (string, error) {
	native, err := toNative(v)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(native)
	if err != nil {
		return "", fmt.Errorf("to_json: %w", err)
	}
	return string(out), nil
}

// FromJSON parses JSON text into a Value (objects become Hash, arrays
// become List).
func FromJSON(text string) (value.Value, error) {
	var native any
	if err := json.Unmarshal([]byte(text), &native); err != nil {
		return value.Value{}, fmt.Errorf("from_json: %w", err)
	}
	return fromNative(native), nil
}

// ToYAML renders v as YAML text, mirroring ToJSON — exercises the
// teacher's own yaml.v3 dependency as a native conversion built-in.
func ToYAML(v value.Value) (string, error) {
	native, err := toNative(v)
	if err != nil {
		return "", err
	}
	out, err := yaml.Marshal(native)
	if err != nil {
		return "", fmt.Errorf("to_yaml: %w", err)
	}
	return string(out), nil
}

// FromYAML parses YAML text into a Value.
func FromYAML(text string) (value.Value, error) {
	var native any
	if err := yaml.Unmarshal([]byte(text), &native); err != nil {
		return value.Value{}, fmt.Errorf("from_yaml: %w", err)
	}
	return fromNative(normalizeYAML(native)), nil
}

func toNative(v value.Value) (any, error) {
	switch v.Kind {
	case value.KindNone:
		return nil, nil
	case value.KindBoolean:
		return v.Bool, nil
	case value.KindNumber:
		return v.Num, nil
	case value.KindString, value.KindSymbol:
		return v.Str, nil
	case value.KindList:
		elems := v.List.Elements()
		out := make([]any, len(elems))
		for i, e := range elems {
			n, err := toNative(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case value.KindHash:
		out := map[string]any{}
		for _, k := range v.Hash.Keys() {
			ev, _ := v.Hash.Get(k)
			n, err := toNative(ev)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot convert a %s to json/yaml", value.TypeName(v))
	}
}

func fromNative(native any) value.Value {
	switch n := native.(type) {
	case nil:
		return value.None()
	case bool:
		return value.Bool(n)
	case float64:
		return value.Num(n)
	case int:
		return value.Num(float64(n))
	case string:
		return value.Str(n)
	case []any:
		elems := make([]value.Value, len(n))
		for i, e := range n {
			elems[i] = fromNative(e)
		}
		return value.FromList(value.NewList(elems))
	case map[string]any:
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		h := value.NewHash(nil)
		for _, k := range keys {
			_, _ = h.Set(k, fromNative(n[k]))
		}
		return value.FromHash(h)
	default:
		return value.Str(fmt.Sprintf("%v", n))
	}
}

// normalizeYAML recursively converts yaml.v3's map[string]interface{}
// decode target (it actually produces map[string]interface{} when
// unmarshaling into `any`, but nested maps decode as
// map[string]interface{} too except when keys aren't strings, in which
// case it falls back to map[interface{}]interface{} pre-v3; yaml.v3
// always uses string keys) into the same shape toNative/fromNative
// expect.
func normalizeYAML(v any) any {
	switch n := v.(type) {
	case map[string]any:
		out := map[string]any{}
		for k, val := range n {
			out[k] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, val := range n {
			out[i] = normalizeYAML(val)
		}
		return out
	case int:
		return float64(n)
	default:
		return n
	}
}
