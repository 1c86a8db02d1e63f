package packager

import (
	"go.uber.org/zap"

	"spexgen/internal/spec"
)

// =============================================================================
// BOOTSTRAP ASSEMBLER
// =============================================================================

// bootstrapFile pairs a skeleton output path with its template.
type bootstrapFile struct {
	path     string
	template string
}

// bootstrapSets maps a project archetype to the skeleton files synthesized
// when extraction produced nothing. Unknown archetypes use the default set.
var bootstrapSets = map[string][]bootstrapFile{
	spec.ProjectTypeService: {
		{path: "src/main.rs", template: "rust/bootstrap/main.rs.template"},
	},
	spec.ProjectTypeLibrary: {
		{path: "src/lib.rs", template: "rust/bootstrap/lib.rs.template"},
	},
}

// defaultBootstrapSet covers any archetype without an explicit entry.
var defaultBootstrapSet = []bootstrapFile{
	{path: "src/main.rs", template: "rust/bootstrap/main.rs.template"},
}

// BootstrapSetSize returns the number of skeleton files configured for the
// given archetype.
func BootstrapSetSize(projectType string) int {
	if set, ok := bootstrapSets[projectType]; ok {
		return len(set)
	}
	return len(defaultBootstrapSet)
}

// assembleBootstrap renders the minimal compilable skeleton for the
// specification's archetype. A missing template skips that file with a
// warning; zero rendered files is a legitimate outcome, not an error.
func (p *Packager) assembleBootstrap(reg *Registry, projectType string, data map[string]any) int {
	set, ok := bootstrapSets[projectType]
	if !ok {
		set = defaultBootstrapSet
	}

	count := 0
	for _, f := range set {
		if !p.templates.Has(f.template) {
			p.logger.Warn("bootstrap template missing, skipping",
				zap.String("path", f.path), zap.String("template", f.template))
			continue
		}

		rendered, err := p.templates.Render(f.template, data)
		if err != nil {
			p.logger.Warn("bootstrap template failed to render, skipping",
				zap.String("template", f.template), zap.Error(err))
			continue
		}

		reg.Upsert(f.path, SanitizeContent(f.path, rendered))
		count++
	}

	p.logger.Info("bootstrap skeleton assembled",
		zap.String("project_type", projectType), zap.Int("files", count))
	return count
}
