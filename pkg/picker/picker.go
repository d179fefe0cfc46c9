// Package picker implements option-list fields whose values are fetched
// asynchronously from an external source. Every query-affecting edit derives
// a fresh query, fetches are tagged with a monotonically increasing request
// id, and a response that is no longer the latest in-flight request is
// discarded silently. Dependent pickers form an explicit, ordered chain:
// selecting a value upstream resets each downstream picker in declaration
// order and re-triggers its fetch cycle.
package picker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/provider"
)

// DefaultDebounce coalesces keystroke-driven queries before a fetch is
// issued. Overridable per picker via WithDebounce.
const DefaultDebounce = 250 * time.Millisecond

// QueryBuilder derives the provider query from the picker's raw input and
// the parameters contributed by upstream selections.
type QueryBuilder func(input string, params map[string]string) provider.Query

// Node is the cascade-facing surface of a picker. Reset clears the node's
// selection and results, merges the upstream parameter contribution,
// re-triggers the node's fetch cycle, and then resets the node's own
// dependents in declaration order.
type Node interface {
	Name() string
	Reset(ctx context.Context, upstream map[string]string)
}

// Picker is an asynchronous option field. All bookkeeping is serialised
// internally; fetches run on their own goroutines and gate result
// application on request-id freshness.
type Picker[R any] struct {
	name     string
	provider provider.ValuesProvider[R]

	mu sync.Mutex

	queryFn  QueryBuilder
	debounce time.Duration
	valueOf  func(R) string
	paramKey string
	logger   zerolog.Logger

	input        string
	params       map[string]string
	timer        *time.Timer
	reqID        uint64
	results      []R
	selection    R
	hasSelection bool
	dependents   []Node

	resultSubs []pickerSub[[]R]
	selectSubs []pickerSub[SelectionChange[R]]
	errSubs    []pickerSub[error]
}

type pickerSub[T any] struct {
	token string
	fn    func(T)
}

// SelectionChange carries a selection notification. Selected is false when
// the selection was cleared by a cascade reset.
type SelectionChange[R any] struct {
	Value    R
	Selected bool
}

// Option configures a Picker during construction.
type Option[R any] func(*Picker[R])

// WithQueryBuilder replaces the default query derivation (raw input as the
// term plus the current upstream parameters).
func WithQueryBuilder[R any](fn QueryBuilder) Option[R] {
	return func(p *Picker[R]) {
		if fn != nil {
			p.queryFn = fn
		}
	}
}

// WithDebounce sets the coalescing delay for input-driven fetches. Zero
// issues fetches immediately.
func WithDebounce[R any](d time.Duration) Option[R] {
	return func(p *Picker[R]) {
		if d >= 0 {
			p.debounce = d
		}
	}
}

// WithParamKey names the query parameter this picker's selection contributes
// to its dependents.
func WithParamKey[R any](key string) Option[R] {
	return func(p *Picker[R]) {
		p.paramKey = key
	}
}

// WithValueFunc extracts the downstream parameter value from a selection.
func WithValueFunc[R any](fn func(R) string) Option[R] {
	return func(p *Picker[R]) {
		p.valueOf = fn
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger[R any](logger zerolog.Logger) Option[R] {
	return func(p *Picker[R]) {
		p.logger = logger
	}
}

// New constructs a picker named name over the given provider.
func New[R any](name string, values provider.ValuesProvider[R], opts ...Option[R]) *Picker[R] {
	p := &Picker[R]{
		name:     name,
		provider: values,
		debounce: DefaultDebounce,
		params:   make(map[string]string),
		logger:   zerolog.Nop(),
	}
	p.queryFn = func(input string, params map[string]string) provider.Query {
		return provider.Query{Term: input, Params: params}
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// Name returns the picker's name.
func (p *Picker[R]) Name() string { return p.name }

// Input returns the current raw input.
func (p *Picker[R]) Input() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input
}

// Results returns the options from the most recent fresh fetch.
func (p *Picker[R]) Results() []R {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]R(nil), p.results...)
}

// Selection returns the current selection, if any.
func (p *Picker[R]) Selection() (R, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selection, p.hasSelection
}

// SetInput records a query-affecting edit. The fetch is debounced: rapid
// successive edits collapse into one fetch issued after the configured
// delay. With a zero debounce the fetch is issued immediately.
func (p *Picker[R]) SetInput(ctx context.Context, text string) {
	p.mu.Lock()
	p.input = text
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.debounce <= 0 {
		p.issueLocked(ctx)
		p.mu.Unlock()
		return
	}
	p.timer = time.AfterFunc(p.debounce, func() {
		p.Refresh(ctx)
	})
	p.mu.Unlock()
}

// Refresh issues a fetch for the current input immediately, bypassing the
// debounce. The fetch itself still runs asynchronously.
func (p *Picker[R]) Refresh(ctx context.Context) {
	p.mu.Lock()
	p.issueLocked(ctx)
	p.mu.Unlock()
}

// issueLocked tags a new fetch with the next request id and launches it.
// Callers must hold p.mu.
func (p *Picker[R]) issueLocked(ctx context.Context) {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.reqID++
	id := p.reqID
	query := p.queryFn(p.input, cloneParams(p.params))

	go func() {
		results, err := p.provider.Values(ctx, query)
		p.apply(id, results, err)
	}()
}

// apply installs a fetch outcome if its request id is still current.
// Superseded responses are discarded silently; they are an expected outcome
// of the staleness check, not an error.
func (p *Picker[R]) apply(id uint64, results []R, err error) {
	p.mu.Lock()
	if id != p.reqID {
		p.logger.Debug().
			Str("picker", p.name).
			Uint64("request", id).
			Uint64("current", p.reqID).
			Msg("discarding stale fetch result")
		p.mu.Unlock()
		return
	}

	if err != nil {
		p.results = nil
	} else {
		p.results = results
	}
	resultSnap := snapshotSubs(p.resultSubs)
	errSnap := snapshotSubs(p.errSubs)
	installed := append([]R(nil), p.results...)
	p.mu.Unlock()

	if err != nil {
		p.logger.Warn().Str("picker", p.name).Err(err).Msg("values provider failed")
		for _, fn := range errSnap {
			fn(err)
		}
	}
	for _, fn := range resultSnap {
		fn(installed)
	}
}

// Select installs a selection, notifies subscribers, and then resets the
// declared dependents in declaration order. Each dependent fully applies its
// own reset (and cascades to its dependents) before the next sibling is
// touched.
func (p *Picker[R]) Select(ctx context.Context, value R) {
	p.mu.Lock()
	p.selection = value
	p.hasSelection = true
	selectSnap := snapshotSubs(p.selectSubs)
	contribution := p.contributionLocked()
	dependents := append([]Node(nil), p.dependents...)
	p.mu.Unlock()

	for _, fn := range selectSnap {
		fn(SelectionChange[R]{Value: value, Selected: true})
	}
	for _, dep := range dependents {
		dep.Reset(ctx, contribution)
	}
}

// Reset clears the selection and results, merges the upstream parameter
// contribution, re-triggers the fetch cycle, and cascades to this picker's
// own dependents with its now-empty contribution.
func (p *Picker[R]) Reset(ctx context.Context, upstream map[string]string) {
	p.mu.Lock()
	for key, value := range upstream {
		p.params[key] = value
	}
	var zero R
	p.selection = zero
	p.hasSelection = false
	p.results = nil
	// Invalidate any fetch still in flight for the superseded query.
	p.reqID++
	selectSnap := snapshotSubs(p.selectSubs)
	resultSnap := snapshotSubs(p.resultSubs)
	contribution := p.contributionLocked()
	dependents := append([]Node(nil), p.dependents...)
	p.mu.Unlock()

	for _, fn := range selectSnap {
		fn(SelectionChange[R]{Selected: false})
	}
	for _, fn := range resultSnap {
		fn(nil)
	}

	p.Refresh(ctx)

	for _, dep := range dependents {
		dep.Reset(ctx, contribution)
	}
}

// AddDependent appends a downstream node. Declaration order is cascade
// order.
func (p *Picker[R]) AddDependent(node Node) {
	if node == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dependents = append(p.dependents, node)
}

// contributionLocked builds the parameter map this picker hands its
// dependents. Callers must hold p.mu.
func (p *Picker[R]) contributionLocked() map[string]string {
	if p.paramKey == "" {
		return nil
	}
	value := ""
	if p.hasSelection && p.valueOf != nil {
		value = p.valueOf(p.selection)
	}
	return map[string]string{p.paramKey: value}
}

// OnResults subscribes to installed fetch outcomes.
func (p *Picker[R]) OnResults(fn func([]R)) *binding.Subscription {
	return subscribe(&p.mu, &p.resultSubs, fn)
}

// OnSelectionChange subscribes to selections and cascade clears.
func (p *Picker[R]) OnSelectionChange(fn func(SelectionChange[R])) *binding.Subscription {
	return subscribe(&p.mu, &p.selectSubs, fn)
}

// OnError subscribes to provider failures. A failure means "no results this
// cycle"; the picker never retries by itself.
func (p *Picker[R]) OnError(fn func(error)) *binding.Subscription {
	return subscribe(&p.mu, &p.errSubs, fn)
}

func subscribe[T any](mu *sync.Mutex, list *[]pickerSub[T], fn func(T)) *binding.Subscription {
	if fn == nil {
		return binding.NewSubscription(nil)
	}
	token := uuid.NewString()

	mu.Lock()
	*list = append(*list, pickerSub[T]{token: token, fn: fn})
	mu.Unlock()

	return binding.NewSubscription(func() {
		mu.Lock()
		defer mu.Unlock()
		for i, sub := range *list {
			if sub.token == token {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return
			}
		}
	})
}

func snapshotSubs[T any](subs []pickerSub[T]) []func(T) {
	out := make([]func(T), 0, len(subs))
	for _, sub := range subs {
		out = append(out, sub.fn)
	}
	return out
}

func cloneParams(params map[string]string) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for key, value := range params {
		out[key] = value
	}
	return out
}
