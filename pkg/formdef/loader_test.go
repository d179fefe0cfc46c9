package formdef

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

const patientForm = `
forms:
  patient:
    title: Patient intake
    fields:
      - name: firstName
        type: string
        label: "<b>First name</b>"
        validations:
          - kind: required
      - name: years
        type: integer
        validations:
          - kind: min
            params: {value: "4"}
      - name: country
        type: string
        lookup:
          provider: countries
          paramKey: country
      - name: state
        type: string
        lookup:
          provider: states
          refreshOn: [country]
`

func loadOne(t *testing.T, name, content string) *Registry {
	t.Helper()
	registry, err := LoadFS(fstest.MapFS{
		name: &fstest.MapFile{Data: []byte(content)},
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return registry
}

func TestLoadFS_ParsesYAMLDefinition(t *testing.T) {
	registry := loadOne(t, "forms/patient.yaml", patientForm)

	form, ok := registry.Form("patient")
	if !ok {
		t.Fatal("expected patient form")
	}
	if form.ID != "patient" || form.Title != "Patient intake" {
		t.Fatalf("unexpected form header: %#v", form)
	}

	var names []string
	for _, field := range form.Fields {
		names = append(names, field.Name)
	}
	want := []string{"firstName", "years", "country", "state"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("declaration order mismatch (-want +got):\n%s", diff)
	}

	state, _ := form.FieldByName("state")
	if state.Lookup == nil || state.Lookup.Provider != "states" {
		t.Fatalf("unexpected state lookup: %#v", state.Lookup)
	}
	if diff := cmp.Diff([]string{"country"}, state.Lookup.RefreshOn); diff != "" {
		t.Fatalf("refreshOn mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS_SanitisesMarkup(t *testing.T) {
	registry := loadOne(t, "patient.yml", patientForm)

	form, _ := registry.Form("patient")
	first, _ := form.FieldByName("firstName")
	if first.Label != "First name" {
		t.Fatalf("expected stripped label, got %q", first.Label)
	}
}

func TestLoadFS_ParsesJSONDefinition(t *testing.T) {
	registry := loadOne(t, "min.json", `{
		"forms": {
			"mini": {
				"fields": [{"name": "title", "type": "string"}]
			}
		}
	}`)

	if _, ok := registry.Form("mini"); !ok {
		t.Fatal("expected mini form")
	}
}

func TestLoadFS_RejectsUndeclaredCascadeReference(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{
		"bad.yaml": &fstest.MapFile{Data: []byte(`
forms:
  bad:
    fields:
      - name: state
        type: string
        lookup:
          provider: states
          refreshOn: [country]
`)},
	})
	if err == nil || !strings.Contains(err.Error(), "undeclared field") {
		t.Fatalf("expected undeclared-field error, got %v", err)
	}
}

func TestLoadFS_RejectsForwardCascadeReference(t *testing.T) {
	// Upstream fields must be declared before their dependents; cascade
	// order is declaration order.
	_, err := LoadFS(fstest.MapFS{
		"bad.yaml": &fstest.MapFile{Data: []byte(`
forms:
  bad:
    fields:
      - name: state
        type: string
        lookup:
          provider: states
          refreshOn: [country]
      - name: country
        type: string
        lookup:
          provider: countries
`)},
	})
	if err == nil {
		t.Fatal("expected an error for a forward reference")
	}
}

func TestLoadFS_RejectsDuplicateFieldNames(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{
		"bad.yaml": &fstest.MapFile{Data: []byte(`
forms:
  bad:
    fields:
      - name: a
        type: string
      - name: a
        type: string
`)},
	})
	if err == nil || !strings.Contains(err.Error(), "duplicate field") {
		t.Fatalf("expected duplicate-field error, got %v", err)
	}
}

func TestLoadFS_EmptyFilesystem(t *testing.T) {
	registry, err := LoadFS(nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(registry.IDs()) != 0 {
		t.Fatalf("expected empty registry, got %v", registry.IDs())
	}
}

func TestLoadFS_UnknownType(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{
		"bad.yaml": &fstest.MapFile{Data: []byte(`
forms:
  bad:
    fields:
      - name: a
        type: decimal
`)},
	})
	if err == nil || !strings.Contains(err.Error(), "unknown type") {
		t.Fatalf("expected unknown-type error, got %v", err)
	}
}

func TestRegistry_NilSafety(t *testing.T) {
	var registry *Registry
	if _, ok := registry.Form("x"); ok {
		t.Fatal("nil registry must not resolve forms")
	}
	if ids := registry.IDs(); ids != nil {
		t.Fatalf("nil registry must have no ids, got %v", ids)
	}
}
