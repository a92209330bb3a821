// Package params models the user-facing parameters of an exported impact
// model and their expansion into the flat numeric namespace compiled
// formulas consume. Float and boolean parameters occupy one slot named
// after the parameter; an enum parameter with n allowed values occupies
// n one-hot indicator slots named "<param>_<value>".
package params

import "fmt"

// Kind is the closed set of parameter kinds.
type Kind int

const (
	// Float is a plain numeric parameter.
	Float Kind = iota
	// Bool is a boolean parameter, expanded to 1 or 0.
	Bool
	// Enum is a multi-valued parameter, expanded to one-hot indicators.
	Enum
)

// kindNames holds the wire names, matching the exported document format.
var kindNames = map[Kind]string{
	Float: "float",
	Bool:  "bool",
	Enum:  "enum",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown parameter kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown parameter kind %q", text)
}
