package packager

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// MANIFEST EMITTER
// =============================================================================

// ManifestPath is the reserved filename for the machine-readable listing of
// all produced paths.
const ManifestPath = "project_manifest.json"

// manifestDoc is the serialized manifest shape.
type manifestDoc struct {
	Files []string `json:"files"`
}

// emitManifest appends the manifest entry. The listed paths are computed from
// the registry state before the manifest itself is added, so the manifest
// never lists itself.
func (p *Packager) emitManifest(reg *Registry) error {
	doc := manifestDoc{Files: reg.Paths()}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize manifest: %w", err)
	}

	reg.Upsert(ManifestPath, string(data)+"\n")
	return nil
}
