// Package formdef loads declarative form definitions from YAML or JSON
// files into descriptor.Form values. Definitions are validated on load:
// duplicate or empty field names, unknown field types, and cascade
// references to undeclared fields are rejected up front rather than
// surfacing as broken bindings later.
package formdef

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbind/pkg/descriptor"
)

type document struct {
	Forms map[string]descriptor.Form `json:"forms" yaml:"forms"`
}

// Registry holds the loaded form definitions keyed by id.
type Registry struct {
	forms map[string]descriptor.Form
}

// Form returns the named definition.
func (r *Registry) Form(id string) (descriptor.Form, bool) {
	if r == nil {
		return descriptor.Form{}, false
	}
	form, ok := r.forms[id]
	return form, ok
}

// IDs returns the loaded form ids, sorted.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.forms))
	for id := range r.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadFS walks the provided filesystem and parses every JSON/YAML form
// definition file. When fsys is nil or no definition files are present, the
// returned registry is empty.
func LoadFS(fsys fs.FS) (*Registry, error) {
	registry := &Registry{forms: make(map[string]descriptor.Form)}
	if fsys == nil {
		return registry, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("formdef: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for id, form := range doc.Forms {
			id = strings.TrimSpace(id)
			if id == "" {
				return fmt.Errorf("formdef: file %s defines an empty form id", path)
			}
			if _, dup := registry.forms[id]; dup {
				return fmt.Errorf("formdef: form %q defined more than once (%s)", id, path)
			}
			if form.ID == "" {
				form.ID = id
			}
			sanitizeForm(&form)
			if err := validateForm(form); err != nil {
				return fmt.Errorf("formdef: file %s: %w", path, err)
			}
			registry.forms[id] = form
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return registry, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

func parseDocument(data []byte, path string) (document, error) {
	var doc document
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return document{}, fmt.Errorf("formdef: parse %s: %w", path, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("formdef: parse %s: %w", path, err)
	}
	return doc, nil
}

func validateForm(form descriptor.Form) error {
	seen := make(map[string]int, len(form.Fields))
	for i, field := range form.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("form %q: field %d has no name", form.ID, i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("form %q: duplicate field %q", form.ID, name)
		}
		if !knownType(field.Type) {
			return fmt.Errorf("form %q: field %q has unknown type %q", form.ID, name, field.Type)
		}
		if field.Lookup != nil {
			if strings.TrimSpace(field.Lookup.Provider) == "" {
				return fmt.Errorf("form %q: field %q lookup needs a provider", form.ID, name)
			}
			for _, upstream := range field.Lookup.RefreshOn {
				// Cascades run in declaration order, so an upstream field
				// must be declared before its dependents. This also keeps
				// the dependency graph acyclic by construction.
				at, declared := seen[upstream]
				if !declared {
					return fmt.Errorf("form %q: field %q refreshes on undeclared field %q", form.ID, name, upstream)
				}
				upstreamField := form.Fields[at]
				if upstreamField.Lookup == nil {
					return fmt.Errorf("form %q: field %q refreshes on %q which has no lookup", form.ID, name, upstream)
				}
			}
		}
		seen[name] = i
	}
	return nil
}

func knownType(t descriptor.FieldType) bool {
	switch t {
	case "", descriptor.FieldTypeString, descriptor.FieldTypeInteger, descriptor.FieldTypeNumber,
		descriptor.FieldTypeBoolean, descriptor.FieldTypeArray, descriptor.FieldTypeObject:
		return true
	default:
		return false
	}
}
