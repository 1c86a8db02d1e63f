// Package packager turns free-form model output into a well-formed project
// artifact: an ordered, deduplicated mapping from safe relative paths to file
// content, with template-rendered infrastructure files, a bootstrap skeleton
// fallback, and a trailing manifest.
package packager

import (
	"go.uber.org/zap"

	"spexgen/internal/spec"
)

// TemplateRenderer is the template capability the packaging core depends on.
// Existence is checked via Has so missing templates are detected without
// relying on render-time failure.
type TemplateRenderer interface {
	Has(id string) bool
	Render(id string, data map[string]any) (string, error)
}

// Packager runs the artifact-packaging pipeline. One Packager may serve
// concurrent runs: it holds only the immutable template set and a logger.
type Packager struct {
	templates TemplateRenderer
	logger    *zap.Logger
}

// New creates a Packager. A nil logger disables logging.
func New(templates TemplateRenderer, logger *zap.Logger) *Packager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Packager{templates: templates, logger: logger}
}

// Package runs one packaging pass over model output and a parsed
// specification. It returns either a complete artifact or an error, never
// both. The pipeline: extract file blocks, always render infrastructure
// files, synthesize a bootstrap skeleton iff no block was extracted, then
// emit the manifest.
func (p *Packager) Package(modelOutput string, sp *spec.Specification) ([]OutputFile, error) {
	reg := NewRegistry()
	data := templateData(sp)

	extracted := p.extractFiles(modelOutput, reg)

	if err := p.assembleInfrastructure(reg, data); err != nil {
		return nil, err
	}

	if extracted == 0 {
		p.assembleBootstrap(reg, sp.ProjectType, data)
	}

	if err := p.emitManifest(reg); err != nil {
		return nil, err
	}

	p.logger.Info("artifact packaged",
		zap.Int("extracted", extracted), zap.Int("total", reg.Len()))
	return reg.Files(), nil
}

// templateData builds the template context: the specification under "spec",
// plus its open-ended extras flattened to top level so arbitrary spec
// sections are directly addressable by name inside templates.
func templateData(sp *spec.Specification) map[string]any {
	data := make(map[string]any, len(sp.Extras)+1)
	for k, v := range sp.Extras {
		data[k] = v
	}
	data["spec"] = sp
	return data
}
