package binder

import "github.com/goliatone/go-formbind/pkg/dispatch"

// Event kinds published on the form's dispatcher.
const (
	KindFieldChanged      dispatch.Kind = "formbind.field.changed"
	KindSelectionChanged  dispatch.Kind = "formbind.selection.changed"
	KindCollectionChanged dispatch.Kind = "formbind.collection.changed"
)

// FieldChangedEvent fires after a scalar field's value (and validity) has
// been updated.
type FieldChangedEvent struct {
	Form  string
	Field string
	Value any
	Valid bool
}

// EventKind names the event's kind.
func (FieldChangedEvent) EventKind() dispatch.Kind { return KindFieldChanged }

// SelectionChangedEvent fires when a picker's selection is set or cleared
// by a cascade reset.
type SelectionChangedEvent struct {
	Form     string
	Field    string
	Value    string
	Selected bool
}

// EventKind names the event's kind.
func (SelectionChangedEvent) EventKind() dispatch.Kind { return KindSelectionChanged }

// CollectionChangedEvent fires after an insert, remove, or reorder with the
// full updated item list.
type CollectionChangedEvent struct {
	Form  string
	Field string
	Items []Record
}

// EventKind names the event's kind.
func (CollectionChangedEvent) EventKind() dispatch.Kind { return KindCollectionChanged }
