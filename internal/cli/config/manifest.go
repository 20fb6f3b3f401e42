package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/pmclSF/hamlet/pkg/migrate"
)

// Manifest is an optional plan file listing the files to convert and the
// dependency edges between them. Entries convert before their dependents.
type Manifest struct {
	Files []ManifestEntry `json:"files" yaml:"files"`
}

// ManifestEntry names one file and the files it depends on.
type ManifestEntry struct {
	Path      string   `json:"path" yaml:"path"`
	DependsOn []string `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}

const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["files"],
  "additionalProperties": false,
  "properties": {
    "files": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["path"],
        "additionalProperties": false,
        "properties": {
          "path": {"type": "string", "minLength": 1},
          "dependsOn": {
            "type": "array",
            "items": {"type": "string", "minLength": 1}
          }
        }
      }
    }
  }
}`

// LoadManifest reads a YAML or JSON plan manifest, validates it against the
// manifest schema and returns the parsed result.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	// The schema validator wants generic JSON-shaped data, so decode via YAML
	// first. YAML is a superset of JSON, so .json manifests pass through too.
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse manifest %s: %v", migrate.ErrConfigValidation, path, err)
	}

	schemaLoader := gojsonschema.NewStringLoader(manifestSchema)
	docLoader := gojsonschema.NewGoLoader(doc)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("validate manifest %s: %w", path, err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("%w: manifest %s: %s", migrate.ErrConfigValidation, path, strings.Join(problems, "; "))
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return &m, nil
}
