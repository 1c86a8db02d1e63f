// Package prompt renders the generation and review prompts sent to the text
// model, using the same template capability and flattened specification
// context as the packaging core.
package prompt

import (
	"fmt"

	"spexgen/internal/spec"
)

// Template identifiers for the two prompt passes.
const (
	generationTemplate = "rust/prompt_templates/generation.tmpl"
	reviewTemplate     = "rust/prompt_templates/review.tmpl"
)

// Renderer is the template capability the builder depends on.
type Renderer interface {
	Has(id string) bool
	Render(id string, data map[string]any) (string, error)
}

// Builder renders prompts from the shared template store.
type Builder struct {
	templates Renderer
}

// NewBuilder creates a Builder.
func NewBuilder(templates Renderer) *Builder {
	return &Builder{templates: templates}
}

// Build renders the prompt for one generation request. A review pass uses the
// review template and additionally binds initial_code; otherwise the
// generation template is used and initialCode is ignored.
func (b *Builder) Build(sp *spec.Specification, reviewPass bool, initialCode string) (string, error) {
	id := generationTemplate
	if reviewPass {
		id = reviewTemplate
	}
	if !b.templates.Has(id) {
		return "", fmt.Errorf("prompt template not found: %s", id)
	}

	data := make(map[string]any, len(sp.Extras)+2)
	for k, v := range sp.Extras {
		data[k] = v
	}
	data["spec"] = sp
	if reviewPass {
		data["initial_code"] = initialCode
	}

	rendered, err := b.templates.Render(id, data)
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return rendered, nil
}
