// Package binding implements the observable field primitive the rest of the
// module is built on: an owned, editable value paired with composable
// validation rules and ordered change notifications.
//
// A Field is exclusively owned by the composition that created it. All
// mutation is expected to happen from one logical owner context; the field
// serialises the bookkeeping it does internally but makes no attempt to turn
// concurrent writers into a supported pattern.
package binding
