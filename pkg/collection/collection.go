// Package collection implements an ordered, identity-stable list field.
// Item creation is delegated to an external flow; the caller suspends on
// Insert until that flow resolves with a new item or signals cancellation.
// Every mutation notifies subscribers exactly once with the full updated
// list, never a diff.
package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/provider"
)

var (
	// ErrNoFlow is returned by Insert when no creation flow was configured.
	ErrNoFlow = errors.New("collection: no creation flow configured")
	// ErrDuplicateID rejects an item whose id is already present. Ids are
	// unique per collection; violating that is a programming error.
	ErrDuplicateID = errors.New("collection: duplicate item id")
	// ErrBadReorder rejects out-of-range reorder indices.
	ErrBadReorder = errors.New("collection: reorder index out of range")
)

// Collection is an ordered list field whose items carry stable identities.
type Collection[T any] struct {
	idOf func(T) string
	flow provider.CreationFlow[T]

	mu    sync.Mutex
	items []T
	subs  []listSub[T]
}

type listSub[T any] struct {
	token string
	fn    func([]T)
}

// Option configures a Collection during construction.
type Option[T any] func(*Collection[T]) error

// WithFlow wires the external creation flow Insert delegates to.
func WithFlow[T any](flow provider.CreationFlow[T]) Option[T] {
	return func(c *Collection[T]) error {
		c.flow = flow
		return nil
	}
}

// WithItems seeds the initial items. Ids must already be unique.
func WithItems[T any](items ...T) Option[T] {
	return func(c *Collection[T]) error {
		seen := make(map[string]struct{}, len(items))
		for _, item := range items {
			id := c.idOf(item)
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: %q", ErrDuplicateID, id)
			}
			seen[id] = struct{}{}
		}
		c.items = append([]T(nil), items...)
		return nil
	}
}

// New constructs a collection. idOf extracts each item's stable identity.
func New[T any](idOf func(T) string, opts ...Option[T]) (*Collection[T], error) {
	if idOf == nil {
		return nil, errors.New("collection: id function is required")
	}
	c := &Collection[T]{idOf: idOf}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewID mints a fresh item id. Creation flows that build records from
// scratch use it so appended items satisfy the uniqueness invariant.
func NewID() string {
	return uuid.NewString()
}

// Items returns a copy of the ordered items.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Len returns the item count.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Insert delegates creation to the external flow and suspends until it
// resolves. A nil item means the user cancelled: the list is untouched and
// ok is false. A created item is appended and subscribers are notified once
// with the full list.
func (c *Collection[T]) Insert(ctx context.Context) (item T, ok bool, err error) {
	var zero T
	if c.flow == nil {
		return zero, false, ErrNoFlow
	}

	created, err := c.flow.Create(ctx)
	if err != nil {
		return zero, false, fmt.Errorf("collection: creation flow: %w", err)
	}
	if created == nil {
		return zero, false, nil
	}
	if err := c.Append(*created); err != nil {
		return zero, false, err
	}
	return *created, true, nil
}

// Append adds an item directly, enforcing id uniqueness.
func (c *Collection[T]) Append(item T) error {
	id := c.idOf(item)

	c.mu.Lock()
	for _, existing := range c.items {
		if c.idOf(existing) == id {
			c.mu.Unlock()
			return fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
	}
	c.items = append(c.items, item)
	snapshot, subs := c.snapshotLocked()
	c.mu.Unlock()

	notify(subs, snapshot)
	return nil
}

// Remove deletes the item with the given id and reports whether anything
// changed. Removing an absent id is a no-op, not an error, and does not
// notify.
func (c *Collection[T]) Remove(id string) bool {
	c.mu.Lock()
	index := -1
	for i, item := range c.items {
		if c.idOf(item) == id {
			index = i
			break
		}
	}
	if index < 0 {
		c.mu.Unlock()
		return false
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	snapshot, subs := c.snapshotLocked()
	c.mu.Unlock()

	notify(subs, snapshot)
	return true
}

// Reorder moves the item at from to position to. The operation is a pure
// permutation: no item is lost, duplicated, or mutated. Out-of-range
// indices are a programming error and are rejected.
func (c *Collection[T]) Reorder(from, to int) error {
	c.mu.Lock()
	n := len(c.items)
	if from < 0 || from >= n || to < 0 || to >= n {
		c.mu.Unlock()
		return fmt.Errorf("%w: from=%d to=%d len=%d", ErrBadReorder, from, to, n)
	}
	if from != to {
		item := c.items[from]
		c.items = append(c.items[:from], c.items[from+1:]...)
		rest := append([]T(nil), c.items[to:]...)
		c.items = append(append(c.items[:to:to], item), rest...)
	}
	snapshot, subs := c.snapshotLocked()
	c.mu.Unlock()

	notify(subs, snapshot)
	return nil
}

// OnChange registers a callback receiving the full updated list after every
// mutation. Exactly one invocation per insert/remove/reorder.
func (c *Collection[T]) OnChange(fn func([]T)) *binding.Subscription {
	if fn == nil {
		return binding.NewSubscription(nil)
	}
	token := uuid.NewString()

	c.mu.Lock()
	c.subs = append(c.subs, listSub[T]{token: token, fn: fn})
	c.mu.Unlock()

	return binding.NewSubscription(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, sub := range c.subs {
			if sub.token == token {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	})
}

func (c *Collection[T]) snapshotLocked() ([]T, []func([]T)) {
	items := append([]T(nil), c.items...)
	subs := make([]func([]T), 0, len(c.subs))
	for _, sub := range c.subs {
		subs = append(subs, sub.fn)
	}
	return items, subs
}

func notify[T any](subs []func([]T), items []T) {
	for _, fn := range subs {
		fn(items)
	}
}
