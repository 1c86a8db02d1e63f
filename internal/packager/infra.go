package packager

import (
	"fmt"

	"go.uber.org/zap"
)

// =============================================================================
// INFRASTRUCTURE ASSEMBLER
// =============================================================================

// infraOutput is one logical infrastructure file with its ordered candidate
// templates. The first existing candidate wins. An output with builtin set is
// allowed to fall back to that fixed content when no candidate exists;
// everything else is load-bearing and missing templates abort the run.
type infraOutput struct {
	path       string
	candidates []string
	builtin    string
}

// DefaultGitignore is the built-in fallback for the ignore file when no
// candidate template is available.
const DefaultGitignore = `/target
**/*.rs.bk
*.log
.env
`

var infraOutputs = []infraOutput{
	{
		path:       "Cargo.toml",
		candidates: []string{"rust/Cargo.toml.tera", "rust/Cargo.toml.template"},
	},
	{
		path:       "Makefile",
		candidates: []string{"rust/Makefile.tera", "rust/Makefile.template"},
	},
	{
		path:       "README.md",
		candidates: []string{"rust/README.md.tera", "rust/README.md.template"},
	},
	{
		path:       ".gitignore",
		candidates: []string{"rust/gitignore.tera", "rust/gitignore.template"},
		builtin:    DefaultGitignore,
	},
}

// assembleInfrastructure renders the fixed set of infrastructure files into
// the registry, overwriting anything the model produced under the same paths.
func (p *Packager) assembleInfrastructure(reg *Registry, data map[string]any) error {
	for _, out := range infraOutputs {
		id := ""
		for _, candidate := range out.candidates {
			if p.templates.Has(candidate) {
				id = candidate
				break
			}
		}

		if id == "" {
			if out.builtin != "" {
				p.logger.Warn("no template candidate found, using built-in default",
					zap.String("path", out.path))
				reg.Upsert(out.path, out.builtin)
				continue
			}
			return fmt.Errorf("no template candidate found for %s (tried %v)", out.path, out.candidates)
		}

		rendered, err := p.templates.Render(id, data)
		if err != nil {
			return fmt.Errorf("failed to render template %s: %w", id, err)
		}

		reg.Upsert(out.path, SanitizeContent(out.path, rendered))
		p.logger.Debug("packaged infrastructure file",
			zap.String("path", out.path), zap.String("template", id))
	}
	return nil
}
