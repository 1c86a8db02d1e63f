package packager

// =============================================================================
// ARTIFACT REGISTRY
// =============================================================================

// OutputFile is one produced file: a safe relative path and its final content.
type OutputFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Registry is the ordered, path-keyed collection of output files for a single
// packaging run. Paths are unique; order reflects first insertion.
type Registry struct {
	files []OutputFile
	index map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]int),
	}
}

// Upsert inserts a file or, if the path is already present, replaces its
// content in place without moving its position. Entries are never removed.
func (r *Registry) Upsert(path, content string) {
	if i, ok := r.index[path]; ok {
		r.files[i].Content = content
		return
	}
	r.index[path] = len(r.files)
	r.files = append(r.files, OutputFile{Path: path, Content: content})
}

// Has reports whether a file exists under the given path.
func (r *Registry) Has(path string) bool {
	_, ok := r.index[path]
	return ok
}

// Len returns the number of files in the registry.
func (r *Registry) Len() int {
	return len(r.files)
}

// Paths returns all paths in insertion order.
func (r *Registry) Paths() []string {
	paths := make([]string, len(r.files))
	for i, f := range r.files {
		paths[i] = f.Path
	}
	return paths
}

// Files returns a copy of the registry contents in insertion order.
func (r *Registry) Files() []OutputFile {
	out := make([]OutputFile, len(r.files))
	copy(out, r.files)
	return out
}
