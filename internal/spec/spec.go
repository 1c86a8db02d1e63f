// Package spec parses the TOML project specification consumed by a
// generation request. Core fields are typed; every other top-level key is
// kept verbatim in Extras for use as template context.
package spec

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Declared project archetypes. Anything else falls back to the default
// bootstrap skeleton.
const (
	ProjectTypeService = "service"
	ProjectTypeLibrary = "library"
)

// Project is the project identity block of a specification.
type Project struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
}

// Specification is the parsed project specification.
type Specification struct {
	Language    string  `toml:"language"`
	ProjectType string  `toml:"project_type"`
	Description string  `toml:"description"`
	Project     Project `toml:"project"`

	// Extras holds arbitrary extra sections such as [[features]] or
	// [datasets], exposed verbatim to templates.
	Extras map[string]any `toml:"-"`
}

// knownKeys are the typed top-level specification keys; everything else lands
// in Extras.
var knownKeys = map[string]bool{
	"language":     true,
	"project_type": true,
	"description":  true,
	"project":      true,
}

// Parse decodes a TOML specification document.
func Parse(data []byte) (*Specification, error) {
	var sp Specification
	if err := toml.Unmarshal(data, &sp); err != nil {
		return nil, fmt.Errorf("invalid specification: %w", err)
	}

	if sp.Language == "" {
		return nil, fmt.Errorf("invalid specification: missing language")
	}
	if sp.Project.Name == "" {
		return nil, fmt.Errorf("invalid specification: missing project.name")
	}

	// Second pass into a generic map to capture the open-ended sections.
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid specification: %w", err)
	}

	sp.Extras = make(map[string]any)
	for key, value := range raw {
		if !knownKeys[key] {
			sp.Extras[key] = value
		}
	}

	return &sp, nil
}
