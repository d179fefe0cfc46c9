// Package binder assembles live forms from descriptors: scalar fields with
// compiled validation rules, picker fields wired to named option providers
// with declaration-order cascade chains, and collection fields delegating
// creation to named external flows. One dispatcher per form decouples field
// producers from dependent consumers.
package binder

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/collection"
	"github.com/goliatone/go-formbind/pkg/descriptor"
	"github.com/goliatone/go-formbind/pkg/dispatch"
	"github.com/goliatone/go-formbind/pkg/picker"
	"github.com/goliatone/go-formbind/pkg/provider"
)

// Binder builds Form instances. Providers and creation flows are
// registered by name and resolved when a descriptor references them;
// binding fails fast on a dangling reference.
type Binder struct {
	dispatcher *dispatch.Dispatcher
	logger     zerolog.Logger
	debounce   time.Duration
	policy     binding.Policy
	providers  map[string]provider.ValuesProvider[provider.Option]
	flows      map[string]provider.CreationFlow[Record]
	loader     provider.RecordLoader[Record]
}

// Option configures a Binder.
type Option func(*Binder)

// WithDispatcher shares an externally constructed dispatcher across forms.
func WithDispatcher(d *dispatch.Dispatcher) Option {
	return func(b *Binder) {
		if d != nil {
			b.dispatcher = d
		}
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Binder) {
		b.logger = logger
	}
}

// WithDebounce sets the picker debounce interval for bound forms.
func WithDebounce(d time.Duration) Option {
	return func(b *Binder) {
		if d >= 0 {
			b.debounce = d
		}
	}
}

// WithPolicy selects the validation failure policy for compiled rules.
func WithPolicy(policy binding.Policy) Option {
	return func(b *Binder) {
		b.policy = policy
	}
}

// WithProvider registers a named option provider for lookup fields.
func WithProvider(name string, values provider.ValuesProvider[provider.Option]) Option {
	return func(b *Binder) {
		if name != "" && values != nil {
			b.providers[name] = values
		}
	}
}

// WithRecordLoader wires the service Form.Load prefills from.
func WithRecordLoader(loader provider.RecordLoader[Record]) Option {
	return func(b *Binder) {
		b.loader = loader
	}
}

// WithCreationFlow registers a named creation flow for collection fields.
func WithCreationFlow(name string, flow provider.CreationFlow[Record]) Option {
	return func(b *Binder) {
		if name != "" && flow != nil {
			b.flows[name] = flow
		}
	}
}

// New constructs a Binder.
func New(opts ...Option) *Binder {
	b := &Binder{
		dispatcher: dispatch.New(),
		logger:     zerolog.Nop(),
		debounce:   picker.DefaultDebounce,
		policy:     binding.FirstFailure,
		providers:  make(map[string]provider.ValuesProvider[provider.Option]),
		flows:      make(map[string]provider.CreationFlow[Record]),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Bind turns a form descriptor into a live form. Fields are created in
// declaration order; cascade chains follow each lookup's refreshOn list, so
// dependents registered against the same upstream reset in the order they
// are declared.
func (b *Binder) Bind(ctx context.Context, desc descriptor.Form) (*Form, error) {
	form := &Form{
		desc:        desc,
		dispatcher:  b.dispatcher,
		loader:      b.loader,
		logger:      b.logger.With().Str("form", desc.ID).Logger(),
		strings:     make(map[string]*binding.Field[string]),
		numbers:     make(map[string]*binding.Field[float64]),
		bools:       make(map[string]*binding.Field[bool]),
		pickers:     make(map[string]*picker.Picker[provider.Option]),
		collections: make(map[string]*collection.Collection[Record]),
	}

	for _, field := range desc.Fields {
		if err := b.bindField(form, field); err != nil {
			return nil, err
		}
		form.order = append(form.order, field.Name)
	}

	if err := b.wireCascades(form, desc); err != nil {
		return nil, err
	}

	// Load each picker's initial option set. Fetches run asynchronously;
	// results land whenever the providers answer.
	for _, name := range form.order {
		if p, ok := form.pickers[name]; ok {
			p.Refresh(ctx)
		}
	}
	return form, nil
}

func (b *Binder) bindField(form *Form, field descriptor.Field) error {
	name := field.Name
	if name == "" {
		return fmt.Errorf("binder: form %q has an unnamed field", form.desc.ID)
	}

	if field.Lookup != nil {
		return b.bindPicker(form, field)
	}

	switch field.Type {
	case descriptor.FieldTypeArray:
		return b.bindCollection(form, field)
	case descriptor.FieldTypeInteger, descriptor.FieldTypeNumber:
		rule, err := descriptor.CompileNumber(field, b.policy)
		if err != nil {
			return fmt.Errorf("binder: %w", err)
		}
		f := binding.New(defaultNumber(field.Default), binding.WithRule(rule))
		f.OnChange(func(v float64) {
			form.dispatcher.Publish(FieldChangedEvent{Form: form.desc.ID, Field: name, Value: v, Valid: f.Valid()})
		})
		form.numbers[name] = f
	case descriptor.FieldTypeBoolean:
		f := binding.New(defaultBool(field.Default))
		f.OnChange(func(v bool) {
			form.dispatcher.Publish(FieldChangedEvent{Form: form.desc.ID, Field: name, Value: v, Valid: true})
		})
		form.bools[name] = f
	default:
		rule, err := descriptor.CompileString(field, b.policy)
		if err != nil {
			return fmt.Errorf("binder: %w", err)
		}
		f := binding.New(defaultString(field.Default), binding.WithRule(rule))
		f.OnChange(func(v string) {
			form.dispatcher.Publish(FieldChangedEvent{Form: form.desc.ID, Field: name, Value: v, Valid: f.Valid()})
		})
		form.strings[name] = f
	}
	return nil
}

func (b *Binder) bindPicker(form *Form, field descriptor.Field) error {
	lookup := field.Lookup
	values, ok := b.providers[lookup.Provider]
	if !ok {
		return fmt.Errorf("binder: form %q field %q references unknown provider %q", form.desc.ID, field.Name, lookup.Provider)
	}

	paramKey := lookup.ParamKey
	if paramKey == "" {
		paramKey = field.Name
	}
	static := lookup.Params
	searchParam := lookup.SearchParam

	name := field.Name
	p := picker.New(name, values,
		picker.WithDebounce[provider.Option](b.debounce),
		picker.WithParamKey[provider.Option](paramKey),
		picker.WithValueFunc(func(opt provider.Option) string { return opt.Value }),
		picker.WithLogger[provider.Option](form.logger),
		picker.WithQueryBuilder[provider.Option](func(input string, params map[string]string) provider.Query {
			merged := make(map[string]string, len(static)+len(params))
			for key, value := range static {
				merged[key] = value
			}
			for key, value := range params {
				merged[key] = value
			}
			if searchParam != "" && input != "" {
				merged[searchParam] = input
			}
			return provider.Query{Term: input, Params: merged}
		}),
	)
	p.OnSelectionChange(func(change picker.SelectionChange[provider.Option]) {
		form.dispatcher.Publish(SelectionChangedEvent{
			Form:     form.desc.ID,
			Field:    name,
			Value:    change.Value.Value,
			Selected: change.Selected,
		})
	})
	form.pickers[name] = p
	return nil
}

func (b *Binder) bindCollection(form *Form, field descriptor.Field) error {
	var opts []collection.Option[Record]
	if field.Flow != "" {
		flow, ok := b.flows[field.Flow]
		if !ok {
			return fmt.Errorf("binder: form %q field %q references unknown creation flow %q", form.desc.ID, field.Name, field.Flow)
		}
		opts = append(opts, collection.WithFlow[Record](flow))
	}

	c, err := collection.New(RecordID, opts...)
	if err != nil {
		return fmt.Errorf("binder: form %q field %q: %w", form.desc.ID, field.Name, err)
	}

	name := field.Name
	c.OnChange(func(items []Record) {
		form.dispatcher.Publish(CollectionChangedEvent{Form: form.desc.ID, Field: name, Items: items})
	})
	form.collections[name] = c
	return nil
}

// wireCascades connects each lookup field to the upstream pickers named in
// its refreshOn list. Upstreams must be declared before their dependents,
// which keeps the dependency graph acyclic and makes cascade order a
// property of the descriptor, not of callback capture order.
func (b *Binder) wireCascades(form *Form, desc descriptor.Form) error {
	declared := make(map[string]int, len(desc.Fields))
	for i, field := range desc.Fields {
		declared[field.Name] = i
	}

	for i, field := range desc.Fields {
		if field.Lookup == nil {
			continue
		}
		dependent := form.pickers[field.Name]
		for _, upstreamName := range field.Lookup.RefreshOn {
			at, ok := declared[upstreamName]
			if !ok {
				return fmt.Errorf("binder: form %q field %q refreshes on undeclared field %q", desc.ID, field.Name, upstreamName)
			}
			if at >= i {
				return fmt.Errorf("binder: form %q field %q refreshes on %q which is declared later", desc.ID, field.Name, upstreamName)
			}
			upstream, ok := form.pickers[upstreamName]
			if !ok {
				return fmt.Errorf("binder: form %q field %q refreshes on %q which is not a lookup field", desc.ID, field.Name, upstreamName)
			}
			upstream.AddDependent(dependent)
		}
	}
	return nil
}

func defaultString(value any) string {
	s, _ := value.(string)
	return s
}

func defaultNumber(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func defaultBool(value any) bool {
	b, _ := value.(bool)
	return b
}
