package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads a run configuration from a file.
//
// Supports both YAML (.yaml, .yml) and JSON (.json) formats. Files with any
// other extension are parsed as YAML. Defaults are not applied.
func LoadConfig(path string) (*RunConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return ParseConfig(data, path)
}

// ParseConfig parses configuration data. The path is only used to pick the
// format by extension.
//
// The document is first checked against the embedded JSON schema, then
// decoded into a RunConfig.
func ParseConfig(data []byte, path string) (*RunConfig, error) {
	isJSON := isJSONPath(path)

	doc, err := decodeDocument(data, isJSON)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}

	var cfg RunConfig
	if isJSON {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("error parsing JSON config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing YAML config: %w", err)
		}
	}
	return &cfg, nil
}

func isJSONPath(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}

// decodeDocument decodes data into the generic form produced by
// encoding/json, which is what the schema validator expects. YAML documents
// are normalized by a JSON round trip.
func decodeDocument(data []byte, isJSON bool) (interface{}, error) {
	var doc interface{}
	if isJSON {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return map[string]interface{}{}, nil
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var normalized interface{}
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

// ToYAML renders the configuration, e.g. for "run --dump-config".
func (c *RunConfig) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}
