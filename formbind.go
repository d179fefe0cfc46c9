// Package formbind assembles reactive forms: declarative descriptors become
// live fields with synchronous validation, debounced asynchronous lookups
// with cascade resets, and collections that delegate item creation to
// external flows. The root package re-exports the common entry points; the
// building blocks live under pkg/.
package formbind

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formbind/pkg/binder"
	"github.com/goliatone/go-formbind/pkg/descriptor"
	"github.com/goliatone/go-formbind/pkg/formdef"
	"github.com/goliatone/go-formbind/pkg/provider"
)

// FormDescriptor is the declarative shape a binder turns into a live form.
type FormDescriptor = descriptor.Form

// FieldDescriptor describes one editable input of a form.
type FieldDescriptor = descriptor.Field

// Form is a live, bound form.
type Form = binder.Form

// Record is the generic item type collection fields manage.
type Record = binder.Record

// FieldError reports one invalid field from Form.Validate.
type FieldError = binder.FieldError

// Option is a value/label pair served by lookup providers.
type Option = provider.Option

// Query is the derived key a lookup field fetches against.
type Query = provider.Query

// BinderOption configures a Binder.
type BinderOption = binder.Option

// Binder builds forms from descriptors.
type Binder = binder.Binder

// Configuration options, re-exported from pkg/binder.
var (
	WithDispatcher   = binder.WithDispatcher
	WithLogger       = binder.WithLogger
	WithDebounce     = binder.WithDebounce
	WithPolicy       = binder.WithPolicy
	WithProvider     = binder.WithProvider
	WithRecordLoader = binder.WithRecordLoader
	WithCreationFlow = binder.WithCreationFlow
)

// NewBinder constructs a Binder.
func NewBinder(opts ...BinderOption) *Binder {
	return binder.New(opts...)
}

// Bind builds a one-off binder and binds desc with it. Callers binding
// several forms against the same providers should construct a Binder once
// and reuse it.
func Bind(ctx context.Context, desc FormDescriptor, opts ...BinderOption) (*Form, error) {
	return binder.New(opts...).Bind(ctx, desc)
}

// LoadForms reads every form definition under fsys into a registry. YAML
// and JSON definitions are supported; labels and descriptions are sanitised.
func LoadForms(fsys fs.FS) (*formdef.Registry, error) {
	return formdef.LoadFS(fsys)
}
