// Package snapshot serialises models so they can be saved and restored
// losslessly. JSON and YAML carry the model as is; the legacy format is the
// save file of the original desktop application.
package snapshot

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"dcf-engine/internal/model"
)

type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatLegacy Format = "legacy"
)

// ParseFormat accepts a format name as typed on a command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "legacy":
		return FormatLegacy, nil
	}
	return "", fmt.Errorf("unknown snapshot format %q", s)
}

// Encode serialises m.
func Encode(m model.Model, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.MarshalIndent(m, "", "  ")
	case FormatYAML:
		return yaml.Marshal(m)
	case FormatLegacy:
		return EncodeLegacy(m)
	}
	return nil, fmt.Errorf("unknown snapshot format %q", f)
}

// Decode restores a model.
func Decode(data []byte, f Format) (model.Model, error) {
	var m model.Model
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(data, &m); err != nil {
			return model.Model{}, fmt.Errorf("decode json snapshot: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return model.Model{}, fmt.Errorf("decode yaml snapshot: %w", err)
		}
	case FormatLegacy:
		return DecodeLegacy(data)
	default:
		return model.Model{}, fmt.Errorf("unknown snapshot format %q", f)
	}
	return m, nil
}

// Detect picks a format from the file extension, falling back to the content:
// JSON objects with a "rows" key are legacy saves.
func Detect(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return FormatYAML
	}
	var keys map[string]json.RawMessage
	if json.Unmarshal(trimmed, &keys) == nil {
		if _, ok := keys["rows"]; ok {
			return FormatLegacy
		}
	}
	return FormatJSON
}

// Load reads a model from path, detecting its format.
func Load(path string) (model.Model, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Model{}, "", err
	}
	f := Detect(path, data)
	m, err := Decode(data, f)
	return m, f, err
}

// Save writes m to path in format f.
func Save(path string, m model.Model, f Format) error {
	data, err := Encode(m, f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
