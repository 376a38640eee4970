// Package codec centralizes the JSON encoding of container descriptions and
// CLI output.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Indenter is implemented by codecs that can pretty-print.
type Indenter interface {
	MarshalIndent(v any, prefix, indent string) ([]byte, error)
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Names lists the built-in codec names.
func Names() []string {
	return []string{"go-json", "json"}
}

// MarshalPretty indents when c supports it and falls back to Marshal otherwise.
func MarshalPretty(c Codec, v any) ([]byte, error) {
	if c == nil {
		c = Default
	}
	if ind, ok := c.(Indenter); ok {
		return ind.MarshalIndent(v, "", "  ")
	}
	b, err := c.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec %s marshal failed: %w", c.Name(), err)
	}
	return b, nil
}
