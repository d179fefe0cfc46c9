// Package descriptor defines the declarative shape of a form: the field
// descriptors a binder turns into live fields. Descriptors are plain values
// with no behaviour; they can come from Go code, a YAML/JSON definition
// (pkg/formdef), or be derived from an OpenAPI schema at runtime.
package descriptor

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

const (
	ValidationRuleRequired  = "required"
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// ValidationRule is a single declarative constraint. Numeric bounds and
// length limits encode their threshold in Params["value"]; pattern rules
// keep the expression in Params["pattern"]. Boolean flags are encoded as
// string values to keep serialised forms stable.
type ValidationRule struct {
	Kind   string            `json:"kind" yaml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Lookup wires a field to an asynchronous option source. Provider names a
// registered ValuesProvider; RefreshOn lists the upstream fields whose
// selection change resets this field, in declaration order; ParamKey is the
// query parameter this field's own selection contributes downstream.
// SearchParam, when set, mirrors the non-empty search term into the query
// parameters under that name, for providers that read parameters only.
type Lookup struct {
	Provider    string            `json:"provider" yaml:"provider"`
	SearchParam string            `json:"searchParam,omitempty" yaml:"searchParam,omitempty"`
	Params      map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	RefreshOn   []string          `json:"refreshOn,omitempty" yaml:"refreshOn,omitempty"`
	ParamKey    string            `json:"paramKey,omitempty" yaml:"paramKey,omitempty"`
}

// Field describes one editable input of a form.
type Field struct {
	Name        string            `json:"name" yaml:"name"`
	Type        FieldType         `json:"type" yaml:"type"`
	Format      string            `json:"format,omitempty" yaml:"format,omitempty"`
	Required    bool              `json:"required" yaml:"required"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any               `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        []any             `json:"enum,omitempty" yaml:"enum,omitempty"`
	Items       *Field            `json:"items,omitempty" yaml:"items,omitempty"`
	Nested      []Field           `json:"nested,omitempty" yaml:"nested,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty" yaml:"validations,omitempty"`
	Lookup      *Lookup           `json:"lookup,omitempty" yaml:"lookup,omitempty"`
	Flow        string            `json:"flow,omitempty" yaml:"flow,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Form is the top-level descriptor a binder consumes. Field order is
// declaration order and drives cascade wiring.
type Form struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field           `json:"fields" yaml:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// FieldByName returns the named field descriptor, if declared.
func (f Form) FieldByName(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}
