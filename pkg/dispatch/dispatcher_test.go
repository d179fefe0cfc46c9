package dispatch

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/binding"
)

const (
	kindChanged Kind = "field.changed"
	kindReset   Kind = "field.reset"
)

type changedEvent struct {
	field string
}

func (changedEvent) EventKind() Kind { return kindChanged }

type resetEvent struct{}

func (resetEvent) EventKind() Kind { return kindReset }

func TestDispatcher_DeliversOnlyToMatchingKind(t *testing.T) {
	d := New()

	var changed, reset int
	d.Subscribe(kindChanged, func(Event) { changed++ })
	d.Subscribe(kindReset, func(Event) { reset++ })

	if n := d.Publish(changedEvent{field: "a"}); n != 1 {
		t.Fatalf("expected 1 handler invoked, got %d", n)
	}
	if changed != 1 || reset != 0 {
		t.Fatalf("unexpected counts: changed=%d reset=%d", changed, reset)
	}
}

func TestDispatcher_NoHandlersIsSilent(t *testing.T) {
	d := New()
	if n := d.Publish(resetEvent{}); n != 0 {
		t.Fatalf("expected silent drop, got %d invocations", n)
	}
}

func TestDispatcher_RegistrationOrder(t *testing.T) {
	d := New()

	var order []string
	d.Subscribe(kindChanged, func(Event) { order = append(order, "first") })
	d.Subscribe(kindChanged, func(Event) { order = append(order, "second") })
	d.Subscribe(kindChanged, func(Event) { order = append(order, "third") })

	d.Publish(changedEvent{})

	want := []string{"first", "second", "third"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("delivery order mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatcher_UnsubscribeStopsDelivery(t *testing.T) {
	d := New()

	calls := 0
	sub := d.Subscribe(kindChanged, func(Event) { calls++ })

	d.Publish(changedEvent{})
	sub.Cancel()
	sub.Cancel() // idempotent
	d.Publish(changedEvent{})

	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDispatcher_UnsubscribeInsideHandler(t *testing.T) {
	d := New()

	var self *binding.Subscription
	selfCalls := 0
	self = d.Subscribe(kindChanged, func(Event) {
		selfCalls++
		self.Cancel()
	})

	otherCalls := 0
	d.Subscribe(kindChanged, func(Event) { otherCalls++ })

	// The publish that triggers the self-unsubscribe still finishes its
	// snapshot deterministically.
	d.Publish(changedEvent{})
	d.Publish(changedEvent{})

	if selfCalls != 1 {
		t.Fatalf("self-cancelling handler ran %d times, want 1", selfCalls)
	}
	if otherCalls != 2 {
		t.Fatalf("surviving handler ran %d times, want 2", otherCalls)
	}
}

func TestDispatcher_EventPayloadReachesHandler(t *testing.T) {
	d := New()

	var got string
	d.Subscribe(kindChanged, func(e Event) {
		got = e.(changedEvent).field
	})

	d.Publish(changedEvent{field: "years"})
	if got != "years" {
		t.Fatalf("expected payload %q, got %q", "years", got)
	}
}
