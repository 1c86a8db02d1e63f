// Package template provides the immutable, load-once template store shared
// by concurrent generation requests. Built-in templates are baked into the
// binary with go:embed; an optional on-disk directory overlays or adds
// templates at startup. After construction the store is never mutated, so it
// is safe to share by reference without synchronization.
package template

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
)

//go:embed templates
var builtinFS embed.FS

// templateExtensions are the filename suffixes loaded as templates.
var templateExtensions = []string{".tera", ".template", ".tmpl"}

// Store holds parsed templates keyed by their identifier: the path relative
// to the template root, e.g. "rust/Cargo.toml.template".
type Store struct {
	set map[string]*template.Template
}

// NewStore loads the built-in templates plus, if dir is non-empty, every
// template file under dir. Disk templates override built-ins with the same
// identifier.
func NewStore(dir string) (*Store, error) {
	s := &Store{set: make(map[string]*template.Template)}

	sub, err := fs.Sub(builtinFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("embedded templates unavailable: %w", err)
	}
	if err := s.loadFS(sub); err != nil {
		return nil, fmt.Errorf("failed to load embedded templates: %w", err)
	}

	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("template directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("template directory %s: not a directory", dir)
		}
		if err := s.loadFS(os.DirFS(dir)); err != nil {
			return nil, fmt.Errorf("failed to load templates from %s: %w", dir, err)
		}
	}

	return s, nil
}

// loadFS parses every template file in fsys into the store.
func (s *Store) loadFS(fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isTemplateFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}

		id := filepath.ToSlash(path)
		tmpl, err := template.New(id).Option("missingkey=zero").Parse(string(data))
		if err != nil {
			return fmt.Errorf("parse %s: %w", id, err)
		}
		s.set[id] = tmpl
		return nil
	})
}

func isTemplateFile(path string) bool {
	for _, ext := range templateExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Has reports whether a template with the given identifier exists.
func (s *Store) Has(id string) bool {
	_, ok := s.set[id]
	return ok
}

// IDs returns all template identifiers, sorted.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.set))
	for id := range s.set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Render executes the template with the given data.
func (s *Store) Render(id string, data map[string]any) (string, error) {
	tmpl, ok := s.set[id]
	if !ok {
		return "", fmt.Errorf("template not found: %s", id)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s: %w", id, err)
	}
	return sb.String(), nil
}
