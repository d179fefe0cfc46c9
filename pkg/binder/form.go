package binder

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/collection"
	"github.com/goliatone/go-formbind/pkg/descriptor"
	"github.com/goliatone/go-formbind/pkg/dispatch"
	"github.com/goliatone/go-formbind/pkg/picker"
	"github.com/goliatone/go-formbind/pkg/provider"
)

// ErrNoLoader is returned by Load when the binder was built without a
// record loader.
var ErrNoLoader = errors.New("binder: no record loader configured")

// Form is a live, bound form: one typed field object per descriptor field,
// sharing the binder's dispatcher.
type Form struct {
	desc       descriptor.Form
	dispatcher *dispatch.Dispatcher
	loader     provider.RecordLoader[Record]
	logger     zerolog.Logger

	order       []string
	strings     map[string]*binding.Field[string]
	numbers     map[string]*binding.Field[float64]
	bools       map[string]*binding.Field[bool]
	pickers     map[string]*picker.Picker[provider.Option]
	collections map[string]*collection.Collection[Record]
}

// Descriptor returns the descriptor this form was bound from.
func (f *Form) Descriptor() descriptor.Form { return f.desc }

// Dispatcher returns the form's event dispatcher.
func (f *Form) Dispatcher() *dispatch.Dispatcher { return f.dispatcher }

// FieldNames returns the field names in declaration order.
func (f *Form) FieldNames() []string {
	return append([]string(nil), f.order...)
}

// StringField returns the named string field, if bound as one.
func (f *Form) StringField(name string) (*binding.Field[string], bool) {
	field, ok := f.strings[name]
	return field, ok
}

// NumberField returns the named numeric field, if bound as one. Integer and
// number descriptors both bind to float64 fields.
func (f *Form) NumberField(name string) (*binding.Field[float64], bool) {
	field, ok := f.numbers[name]
	return field, ok
}

// BoolField returns the named boolean field, if bound as one.
func (f *Form) BoolField(name string) (*binding.Field[bool], bool) {
	field, ok := f.bools[name]
	return field, ok
}

// Picker returns the named lookup field, if bound as one.
func (f *Form) Picker(name string) (*picker.Picker[provider.Option], bool) {
	p, ok := f.pickers[name]
	return p, ok
}

// Collection returns the named collection field, if bound as one.
func (f *Form) Collection(name string) (*collection.Collection[Record], bool) {
	c, ok := f.collections[name]
	return c, ok
}

// FieldError reports one invalid field.
type FieldError struct {
	Field   string
	Message string
}

// Validate re-checks every scalar field and returns the failures in
// declaration order. Pickers and collections have no value-level rules;
// they are always considered valid here.
func (f *Form) Validate() []FieldError {
	var out []FieldError
	for _, name := range f.order {
		if field, ok := f.strings[name]; ok && !field.Valid() {
			out = append(out, FieldError{Field: name, Message: field.ErrorMessage()})
		}
		if field, ok := f.numbers[name]; ok && !field.Valid() {
			out = append(out, FieldError{Field: name, Message: field.ErrorMessage()})
		}
	}
	return out
}

// Load fetches the identified record through the configured loader and
// applies its values onto the form's scalar fields. Each applied value runs
// the normal Set path, so validation and change events fire as usual.
func (f *Form) Load(ctx context.Context, id string) error {
	if f.loader == nil {
		return ErrNoLoader
	}
	record, err := f.loader.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("binder: load record %q: %w", id, err)
	}
	f.Apply(record.Values)
	return nil
}

// Apply sets the scalar fields named in values. Names without a matching
// field and values of the wrong shape are skipped; prefill data is advisory,
// not authoritative.
func (f *Form) Apply(values map[string]any) {
	for _, name := range f.order {
		raw, ok := values[name]
		if !ok {
			continue
		}
		if field, ok := f.strings[name]; ok {
			if v, ok := raw.(string); ok {
				field.Set(v)
			}
		}
		if field, ok := f.numbers[name]; ok {
			switch v := raw.(type) {
			case float64:
				field.Set(v)
			case int:
				field.Set(float64(v))
			case int64:
				field.Set(float64(v))
			}
		}
		if field, ok := f.bools[name]; ok {
			if v, ok := raw.(bool); ok {
				field.Set(v)
			}
		}
	}
}

// Values snapshots the form's current state into a record keyed by field
// name. Picker entries hold the selected value (empty when unselected);
// collection entries hold the item list.
func (f *Form) Values() map[string]any {
	out := make(map[string]any, len(f.order))
	for _, name := range f.order {
		if field, ok := f.strings[name]; ok {
			out[name] = field.Value()
		}
		if field, ok := f.numbers[name]; ok {
			out[name] = field.Value()
		}
		if field, ok := f.bools[name]; ok {
			out[name] = field.Value()
		}
		if p, ok := f.pickers[name]; ok {
			selected, has := p.Selection()
			if has {
				out[name] = selected.Value
			} else {
				out[name] = ""
			}
		}
		if c, ok := f.collections[name]; ok {
			out[name] = c.Items()
		}
	}
	return out
}
