package params

import "fmt"

// ConfigError reports a mismatch between a parameter registry and the
// values or expressions presented to it: an out-of-range enum value, a
// non-numeric override, or a formula symbol no parameter owns. These are
// configuration-integrity faults and always fatal to the call.
type ConfigError struct {
	Name   string
	Detail string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("parameter configuration error for %q: %s", e.Name, e.Detail)
}

// Spec describes one user-facing parameter. Name is the unique key;
// Values is populated iff Kind is Enum, in which case its order fixes
// the order of the expanded indicator slots.
type Spec struct {
	Name    string
	Kind    Kind
	Unit    string
	Default any
	Values  []string
}

// ExpandedNames returns the names of the flat-namespace slots this
// parameter occupies, in deterministic order.
func (s *Spec) ExpandedNames() []string {
	switch s.Kind {
	case Float, Bool:
		return []string{s.Name}
	case Enum:
		names := make([]string, len(s.Values))
		for i, v := range s.Values {
			names[i] = s.Name + "_" + v
		}
		return names
	default:
		panic(fmt.Sprintf("params: unhandled kind %v", s.Kind))
	}
}

// Expand maps a parameter value onto the flat numeric namespace. Float
// and bool parameters yield a single entry under the parameter's own
// name; enum parameters yield a 1 for the matching allowed value and 0
// for every other one. A value outside the allowed set is a hard
// ConfigError rather than an all-zero expansion, since all-zero
// indicators silently null out every term the parameter gates.
func (s *Spec) Expand(value any) (map[string]float64, error) {
	switch s.Kind {
	case Float:
		f, err := toFloat(value)
		if err != nil {
			return nil, &ConfigError{Name: s.Name, Detail: err.Error()}
		}
		return map[string]float64{s.Name: f}, nil

	case Bool:
		b, err := toBool(value)
		if err != nil {
			return nil, &ConfigError{Name: s.Name, Detail: err.Error()}
		}
		out := map[string]float64{s.Name: 0}
		if b {
			out[s.Name] = 1
		}
		return out, nil

	case Enum:
		chosen, ok := value.(string)
		if !ok {
			return nil, &ConfigError{Name: s.Name, Detail: fmt.Sprintf("enum value must be a string, got %T", value)}
		}
		out := make(map[string]float64, len(s.Values))
		found := false
		for _, v := range s.Values {
			indicator := 0.0
			if v == chosen {
				indicator = 1.0
				found = true
			}
			out[s.Name+"_"+v] = indicator
		}
		if !found {
			return nil, &ConfigError{Name: s.Name, Detail: fmt.Sprintf("value %q is not one of %v", chosen, s.Values)}
		}
		return out, nil

	default:
		panic(fmt.Sprintf("params: unhandled kind %v", s.Kind))
	}
}

// toFloat accepts the numeric shapes that reach us from Go callers and
// from decoded JSON/YAML documents.
func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("value must be numeric, got %T", value)
	}
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	default:
		// Numeric truthiness covers documents that store booleans as 0/1.
		f, err := toFloat(value)
		if err != nil {
			return false, fmt.Errorf("value must be a boolean, got %T", value)
		}
		return f != 0, nil
	}
}
