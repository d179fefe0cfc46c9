package descriptor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const lookupExtensionKey = "x-formbind-lookup"

// Builder derives form descriptors from OpenAPI documents at runtime. It
// focuses on request bodies: each JSON request-body property becomes a
// field descriptor with its schema constraints mapped onto validation
// rules.
type Builder struct {
	opts BuilderOptions
}

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	Labeler func(string) string
}

// NewBuilder constructs a Builder, falling back to DefaultLabeler.
func NewBuilder(options BuilderOptions) *Builder {
	if options.Labeler == nil {
		options.Labeler = DefaultLabeler
	}
	return &Builder{opts: options}
}

// FromData loads an OpenAPI document from raw bytes and derives the form
// descriptor for the named operation's request body.
func (b *Builder) FromData(ctx context.Context, data []byte, operationID string) (Form, error) {
	if len(data) == 0 {
		return Form{}, errors.New("descriptor: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return Form{}, fmt.Errorf("descriptor: load document: %w", err)
	}
	return b.FromDocument(ctx, spec, operationID)
}

// FromDocument derives the form descriptor for the named operation.
func (b *Builder) FromDocument(ctx context.Context, spec *openapi3.T, operationID string) (Form, error) {
	if err := ctx.Err(); err != nil {
		return Form{}, err
	}
	if spec == nil || spec.Paths == nil {
		return Form{}, errors.New("descriptor: document has no paths")
	}

	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation == nil || operation.OperationID != operationID {
				continue
			}
			return b.fromOperation(operation)
		}
	}
	return Form{}, fmt.Errorf("descriptor: operation %q not found", operationID)
}

func (b *Builder) fromOperation(operation *openapi3.Operation) (Form, error) {
	form := Form{
		ID:          operation.OperationID,
		Title:       operation.Summary,
		Description: operation.Description,
	}

	schema := requestSchema(operation.RequestBody)
	if schema == nil {
		return form, nil
	}

	fields, err := b.fieldsFromObject(schema)
	if err != nil {
		return Form{}, err
	}
	form.Fields = fields
	return form, nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := body.Value.Content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range body.Value.Content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func (b *Builder) fieldsFromObject(schema *openapi3.Schema) ([]Field, error) {
	requiredSet := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		requiredSet[name] = struct{}{}
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []Field
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		_, required := requiredSet[name]
		field, err := b.fieldFromSchema(name, ref.Value, required)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func (b *Builder) fieldFromSchema(name string, schema *openapi3.Schema, required bool) (Field, error) {
	field := Field{
		Name:        name,
		Type:        mapType(schemaType(schema)),
		Format:      schema.Format,
		Label:       b.opts.Labeler(name),
		Description: schema.Description,
		Required:    required,
		Default:     schema.Default,
	}
	if len(schema.Enum) > 0 {
		field.Enum = append([]any(nil), schema.Enum...)
	}

	switch field.Type {
	case FieldTypeObject:
		nested, err := b.fieldsFromObject(schema)
		if err != nil {
			return Field{}, err
		}
		field.Nested = nested
	case FieldTypeArray:
		if schema.Items == nil || schema.Items.Value == nil {
			return Field{}, fmt.Errorf("descriptor: array field %q missing items", name)
		}
		item, err := b.fieldFromSchema(name+"Item", schema.Items.Value, false)
		if err != nil {
			return Field{}, err
		}
		field.Items = &item
	}

	applyValidations(&field, schema)
	if required {
		field.Validations = append([]ValidationRule{{Kind: ValidationRuleRequired}}, field.Validations...)
	}
	field.Lookup = lookupFromExtensions(schema.Extensions)
	return field, nil
}

func schemaType(schema *openapi3.Schema) string {
	if schema.Type == nil {
		return ""
	}
	values := schema.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func mapType(schemaType string) FieldType {
	switch schemaType {
	case "integer":
		return FieldTypeInteger
	case "number":
		return FieldTypeNumber
	case "boolean":
		return FieldTypeBoolean
	case "array":
		return FieldTypeArray
	case "object":
		return FieldTypeObject
	default:
		return FieldTypeString
	}
}

func applyValidations(field *Field, schema *openapi3.Schema) {
	if schema.Min != nil {
		params := map[string]string{"value": formatFloat(*schema.Min)}
		if schema.ExclusiveMin {
			params["exclusive"] = "true"
		}
		field.Validations = append(field.Validations, ValidationRule{Kind: ValidationRuleMin, Params: params})
	}
	if schema.Max != nil {
		params := map[string]string{"value": formatFloat(*schema.Max)}
		if schema.ExclusiveMax {
			params["exclusive"] = "true"
		}
		field.Validations = append(field.Validations, ValidationRule{Kind: ValidationRuleMax, Params: params})
	}
	if schema.MinLength != 0 {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMinLength,
			Params: map[string]string{"value": strconv.FormatUint(schema.MinLength, 10)},
		})
	}
	if schema.MaxLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMaxLength,
			Params: map[string]string{"value": strconv.FormatUint(*schema.MaxLength, 10)},
		})
	}
	if schema.Pattern != "" {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRulePattern,
			Params: map[string]string{"pattern": schema.Pattern},
		})
	}
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// lookupFromExtensions reads the x-formbind-lookup extension:
//
//	x-formbind-lookup:
//	  provider: countries
//	  searchParam: q
//	  paramKey: country
//	  refreshOn: [country]
func lookupFromExtensions(ext map[string]any) *Lookup {
	raw, ok := ext[lookupExtensionKey]
	if !ok {
		return nil
	}
	mapped, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	lookup := &Lookup{
		Provider:    stringValue(mapped["provider"]),
		SearchParam: stringValue(mapped["searchParam"]),
		ParamKey:    stringValue(mapped["paramKey"]),
	}
	if params, ok := mapped["params"].(map[string]any); ok {
		lookup.Params = make(map[string]string, len(params))
		for key, value := range params {
			lookup.Params[key] = stringValue(value)
		}
	}
	if refresh, ok := mapped["refreshOn"].([]any); ok {
		for _, entry := range refresh {
			if name := strings.TrimSpace(stringValue(entry)); name != "" {
				lookup.RefreshOn = append(lookup.RefreshOn, name)
			}
		}
	}
	if lookup.Provider == "" {
		return nil
	}
	return lookup
}

func stringValue(value any) string {
	s, _ := value.(string)
	return s
}
