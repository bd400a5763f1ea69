package level

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Pixels is raw RGBA8 data. In a snapshot it is written as a base64 string,
// or as a plain list of byte values for small hand-written images.
type Pixels []byte

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Pixels) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		data, err := base64.StdEncoding.DecodeString(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: pixels: %w", node.Line, err)
		}
		*p = data
		return nil
	case yaml.SequenceNode:
		var values []uint8
		if err := node.Decode(&values); err != nil {
			return fmt.Errorf("line %d: pixels: %w", node.Line, err)
		}
		*p = values
		return nil
	default:
		return fmt.Errorf("line %d: pixels must be a base64 string or a list", node.Line)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (p Pixels) MarshalYAML() (interface{}, error) {
	return base64.StdEncoding.EncodeToString(p), nil
}

// Decode reads a level snapshot and validates it.
func Decode(r io.Reader) (*Level, error) {
	var lvl Level
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&lvl); err != nil {
		return nil, fmt.Errorf("decoding level snapshot: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("invalid level snapshot: %w", err)
	}
	return &lvl, nil
}

// LoadFile reads a level snapshot from path.
func LoadFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level snapshot: %w", err)
	}
	lvl, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lvl, nil
}

// Encode writes lvl as a snapshot.
func Encode(w io.Writer, lvl *Level) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(lvl); err != nil {
		return fmt.Errorf("encoding level snapshot: %w", err)
	}
	return enc.Close()
}
