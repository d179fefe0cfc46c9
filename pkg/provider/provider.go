// Package provider declares the collaborator contracts the binding core
// consumes: asynchronous option sources for picker fields, creation flows
// for collection fields and modal edits, and record/document services. The
// core never knows their concrete implementation; anything that satisfies
// these interfaces can be wired in.
package provider

import (
	"context"
	"errors"
)

// ErrUnavailable signals that an external source could not serve the
// request this cycle. The core surfaces it to the caller and never retries
// by itself; retry policy belongs to the collaborator.
var ErrUnavailable = errors.New("provider: source unavailable")

// Query is the derived key a picker fetches against: the raw search term
// plus the parameters contributed by upstream selections (for example
// {"country": "US"} for a state picker).
type Query struct {
	Term   string
	Params map[string]string
}

// Param returns the named parameter or the empty string.
func (q Query) Param(key string) string {
	if q.Params == nil {
		return ""
	}
	return q.Params[key]
}

// ValuesProvider serves the option list for a query. Implementations may
// hit the network; the caller discards results that arrive for a superseded
// query, so providers need not cancel in-flight work.
type ValuesProvider[R any] interface {
	Values(ctx context.Context, query Query) ([]R, error)
}

// ValuesProviderFunc adapts a function into a ValuesProvider.
type ValuesProviderFunc[R any] func(ctx context.Context, query Query) ([]R, error)

// Values delegates to the underlying function.
func (fn ValuesProviderFunc[R]) Values(ctx context.Context, query Query) ([]R, error) {
	return fn(ctx, query)
}

// CreationFlow produces a new item through an external interaction, such as
// presenting a sub-editor. A nil item with a nil error signals user
// cancellation; callers treat it as a no-op, not a failure.
type CreationFlow[T any] interface {
	Create(ctx context.Context) (*T, error)
}

// CreationFlowFunc adapts a function into a CreationFlow.
type CreationFlowFunc[T any] func(ctx context.Context) (*T, error)

// Create delegates to the underlying function.
func (fn CreationFlowFunc[T]) Create(ctx context.Context) (*T, error) {
	return fn(ctx)
}

// RecordLoader fetches a single record by id.
type RecordLoader[T any] interface {
	Load(ctx context.Context, id string) (T, error)
}

// RecordDeleter removes a record by id.
type RecordDeleter interface {
	Delete(ctx context.Context, id string) error
}

// DocumentStore uploads and deletes opaque documents, returning the stored
// document's id on upload.
type DocumentStore interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
	Delete(ctx context.Context, id string) error
}
