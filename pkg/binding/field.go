package binding

import (
	"sync"

	"github.com/google/uuid"
)

// Field owns one editable value together with its validation state. Setting
// the value re-runs the composed rule synchronously and then notifies
// subscribers in registration order, so an observer never sees a value whose
// validity has not been recomputed yet.
type Field[T any] struct {
	mu sync.Mutex

	value  T
	rule   Rule[T]
	valid  bool
	errMsg string

	subs []fieldSub[T]
}

type fieldSub[T any] struct {
	token string
	fn    func(T)
}

// Option configures a Field during construction.
type Option[T any] func(*Field[T])

// WithRule attaches a single validation rule.
func WithRule[T any](rule Rule[T]) Option[T] {
	return func(f *Field[T]) {
		f.rule = rule
	}
}

// WithRules combines rules under the given policy and attaches the result.
func WithRules[T any](policy Policy, rules ...Rule[T]) Option[T] {
	return func(f *Field[T]) {
		f.rule = Combine(policy, rules...)
	}
}

// New constructs a field holding initial and validates it immediately.
func New[T any](initial T, opts ...Option[T]) *Field[T] {
	f := &Field[T]{value: initial}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	f.valid, f.errMsg = f.check(initial)
	return f
}

// Set replaces the stored value, recomputes validity, then invokes every
// registered change callback with the new value before returning. Writes of
// an equal value are not short-circuited; callers that care should compare
// before calling Set.
func (f *Field[T]) Set(value T) {
	f.mu.Lock()
	f.value = value
	f.valid, f.errMsg = f.check(value)
	snapshot := make([]fieldSub[T], len(f.subs))
	copy(snapshot, f.subs)
	f.mu.Unlock()

	for _, sub := range snapshot {
		sub.fn(value)
	}
}

// Value returns the current value.
func (f *Field[T]) Value() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Valid reports whether the current value passes the attached rules.
func (f *Field[T]) Valid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.valid
}

// ErrorMessage returns the failure reason for the current value, or the
// empty string when the value is valid.
func (f *Field[T]) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// OnChange registers a callback invoked after every Set with the new value.
// Callbacks run synchronously in registration order. The returned
// subscription detaches the callback; cancelling twice is a no-op.
func (f *Field[T]) OnChange(fn func(T)) *Subscription {
	if fn == nil {
		return NewSubscription(nil)
	}
	token := uuid.NewString()

	f.mu.Lock()
	f.subs = append(f.subs, fieldSub[T]{token: token, fn: fn})
	f.mu.Unlock()

	return NewSubscription(func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, sub := range f.subs {
			if sub.token == token {
				f.subs = append(f.subs[:i], f.subs[i+1:]...)
				return
			}
		}
	})
}

// SetRule swaps the attached rule and revalidates the current value without
// notifying subscribers; the value itself did not change.
func (f *Field[T]) SetRule(rule Rule[T]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rule = rule
	f.valid, f.errMsg = f.check(f.value)
}

func (f *Field[T]) check(value T) (bool, string) {
	if f.rule == nil {
		return true, ""
	}
	if err := f.rule(value); err != nil {
		return false, err.Error()
	}
	return true, ""
}
