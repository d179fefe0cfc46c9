// Package dispatch provides a small typed publish/subscribe bus used to
// decouple field producers from dependent consumers inside one form.
//
// Events declare an explicit Kind discriminator and handlers register
// against a Kind, so delivery is a map lookup rather than runtime type
// matching. The dispatcher keeps no event history: late subscribers miss
// prior events.
package dispatch

import (
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbind/pkg/binding"
)

// Kind discriminates event types at registration and publish time.
type Kind string

// Event is anything that can name its kind.
type Event interface {
	EventKind() Kind
}

// Handler consumes published events. Handlers registered for a kind only
// ever see events of that kind.
type Handler func(Event)

type registration struct {
	token   string
	handler Handler
}

// Dispatcher delivers events synchronously to the handlers registered for
// the event's kind, in registration order. It may be shared by several
// fields within one form instance and stays correct when a handler
// unsubscribes itself (or any other registration) mid-publish: the handler
// list is snapshotted before iteration.
type Dispatcher struct {
	mu       sync.Mutex
	handlers map[Kind][]registration
}

// New constructs an empty dispatcher.
func New() *Dispatcher {
	return &Dispatcher{handlers: make(map[Kind][]registration)}
}

// Subscribe registers a handler for the given kind and returns its
// cancellation token.
func (d *Dispatcher) Subscribe(kind Kind, handler Handler) *binding.Subscription {
	if handler == nil {
		return binding.NewSubscription(nil)
	}
	token := uuid.NewString()

	d.mu.Lock()
	d.handlers[kind] = append(d.handlers[kind], registration{token: token, handler: handler})
	d.mu.Unlock()

	return binding.NewSubscription(func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		regs := d.handlers[kind]
		for i, reg := range regs {
			if reg.token == token {
				d.handlers[kind] = append(regs[:i], regs[i+1:]...)
				return
			}
		}
	})
}

// Publish delivers the event to every handler registered for its kind, in
// registration order, before returning. Events with no registered handlers
// are dropped silently. It returns the number of handlers invoked.
func (d *Dispatcher) Publish(event Event) int {
	if event == nil {
		return 0
	}

	d.mu.Lock()
	regs := d.handlers[event.EventKind()]
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)
	d.mu.Unlock()

	for _, reg := range snapshot {
		reg.handler(event)
	}
	return len(snapshot)
}
