package metadata

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind classifies a change for release-note grouping.
// The zero value is not a valid Kind.
type Kind int

const (
	Added Kind = iota + 1
	Breaking
	Changed
	Development
	Distribution
	Documentation
	Fix
	Reform
	Release
	Testing
)

// kindInfo holds the wire name and display attributes of a Kind.
type kindInfo struct {
	name        string
	emoji       string
	description string
}

// kindTable is the wire-name table, in declaration order.
var kindTable = map[Kind]kindInfo{
	Added:         {name: "added", emoji: "✨", description: "New user-facing functionality"},
	Breaking:      {name: "breaking", emoji: "💥", description: "Backwards-incompatible change"},
	Changed:       {name: "changed", emoji: "⚡", description: "Change to existing behavior"},
	Development:   {name: "development", emoji: "🔧", description: "Internal tooling or refactoring"},
	Distribution:  {name: "distribution", emoji: "📦", description: "Packaging and distribution"},
	Documentation: {name: "documentation", emoji: "📚", description: "Documentation only"},
	Fix:           {name: "fix", emoji: "🐛", description: "Bug fix"},
	Reform:        {name: "reform", emoji: "🎨", description: "Code style or structure cleanup"},
	Release:       {name: "release", emoji: "🔖", description: "Release bookkeeping"},
	Testing:       {name: "testing", emoji: "✅", description: "Tests only"},
}

// Kinds returns every valid Kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		Added, Breaking, Changed, Development, Distribution,
		Documentation, Fix, Reform, Release, Testing,
	}
}

// KindNames returns the wire names of all kinds in declaration order.
func KindNames() []string {
	kinds := Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}

// ParseKind returns the Kind whose wire name is s. Matching is case-sensitive.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if kindTable[k].name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown variant %q, expected one of %s", s, strings.Join(KindNames(), ", "))
}

// Valid reports whether k is one of the declared variants.
func (k Kind) Valid() bool {
	_, ok := kindTable[k]
	return ok
}

// String returns the canonical lowercase wire name.
func (k Kind) String() string {
	if info, ok := kindTable[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Emoji returns the display emoji for k, or an empty string for invalid kinds.
func (k Kind) Emoji() string {
	return kindTable[k].emoji
}

// Description returns a one-line human description of k.
func (k Kind) Description() string {
	return kindTable[k].description
}

// MarshalYAML implements yaml.Marshaler.
func (k Kind) MarshalYAML() (interface{}, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("cannot encode invalid kind %d", int(k))
	}
	return k.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Only plain scalars are accepted.
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: type must be a string", value.Line)
	}
	parsed, err := ParseKind(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: type: %w", value.Line, err)
	}
	*k = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("cannot encode invalid kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
