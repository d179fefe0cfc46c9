package binding

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func minValue(min int) Rule[int] {
	return func(v int) error {
		if v < min {
			return fmt.Errorf("Value must be at least %d", min)
		}
		return nil
	}
}

func TestField_SetRecomputesValidityBeforeNotify(t *testing.T) {
	years := New(0, WithRule(minValue(4)))

	var observedValid []bool
	years.OnChange(func(int) {
		observedValid = append(observedValid, years.Valid())
	})

	years.Set(2)
	if years.Value() != 2 {
		t.Fatalf("expected value 2, got %d", years.Value())
	}
	if years.Valid() {
		t.Fatal("expected invalid after Set(2)")
	}
	if got := years.ErrorMessage(); got != "Value must be at least 4" {
		t.Fatalf("unexpected error message: %q", got)
	}

	years.Set(5)
	if !years.Valid() {
		t.Fatal("expected valid after Set(5)")
	}
	if got := years.ErrorMessage(); got != "" {
		t.Fatalf("expected empty error message, got %q", got)
	}

	// Observers must never see a value/validity mismatch.
	want := []bool{false, true}
	if diff := cmp.Diff(want, observedValid); diff != "" {
		t.Fatalf("validity observed by subscriber mismatch (-want +got):\n%s", diff)
	}
}

func TestField_SubscribersInvokedOnceInRegistrationOrder(t *testing.T) {
	field := New("")

	var order []string
	field.OnChange(func(v string) { order = append(order, "first:"+v) })
	field.OnChange(func(v string) { order = append(order, "second:"+v) })
	field.OnChange(func(v string) { order = append(order, "third:"+v) })

	field.Set("x")

	want := []string{"first:x", "second:x", "third:x"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("notification order mismatch (-want +got):\n%s", diff)
	}
}

func TestField_CancelledSubscriptionNeverFiresAgain(t *testing.T) {
	field := New(0)

	calls := 0
	sub := field.OnChange(func(int) { calls++ })

	field.Set(1)
	sub.Cancel()
	sub.Cancel() // second cancel is a no-op
	field.Set(2)

	if calls != 1 {
		t.Fatalf("expected exactly one invocation, got %d", calls)
	}
}

func TestField_UnsubscribeDuringNotification(t *testing.T) {
	field := New(0)

	var sub *Subscription
	var later int
	sub = field.OnChange(func(int) { sub.Cancel() })
	field.OnChange(func(int) { later++ })

	field.Set(1)
	field.Set(2)

	// The self-cancelling handler must not disturb delivery to the one
	// registered after it.
	if later != 2 {
		t.Fatalf("expected later handler to run twice, got %d", later)
	}
}

func TestField_SetRuleRevalidatesWithoutNotifying(t *testing.T) {
	years := New(6, WithRule(minValue(4)))
	if !years.Valid() {
		t.Fatal("expected 6 to pass the initial rule")
	}

	notified := 0
	years.OnChange(func(int) { notified++ })

	// Tightening the rule flips validity for the unchanged value.
	years.SetRule(minValue(10))
	if years.Valid() {
		t.Fatal("expected 6 to fail the tightened rule")
	}
	if got := years.ErrorMessage(); got != "Value must be at least 10" {
		t.Fatalf("unexpected error message: %q", got)
	}
	if notified != 0 {
		t.Fatalf("a rule swap must not notify, got %d callbacks", notified)
	}

	// A nil rule clears validation entirely.
	years.SetRule(nil)
	if !years.Valid() || years.ErrorMessage() != "" {
		t.Fatalf("expected valid with no rule, got %v %q", years.Valid(), years.ErrorMessage())
	}
}

func TestField_NewValidatesInitialValue(t *testing.T) {
	field := New(1, WithRule(minValue(4)))
	if field.Valid() {
		t.Fatal("expected initial value to be reported invalid")
	}
}

func TestCombine_FirstFailureStopsInDeclaredOrder(t *testing.T) {
	first := func(int) error { return errors.New("first reason") }
	second := func(int) error { return errors.New("second reason") }
	pass := func(int) error { return nil }

	tests := []struct {
		name  string
		rules []Rule[int]
		want  string
	}{
		{"first failing wins", []Rule[int]{first, second}, "first reason"},
		{"passing rules are skipped", []Rule[int]{pass, second}, "second reason"},
		{"all pass", []Rule[int]{pass, pass}, ""},
		{"nil rules tolerated", []Rule[int]{nil, first}, "first reason"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Combine(FirstFailure, tc.rules...)(0)
			if tc.want == "" {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.want {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCombine_CollectAllJoinsEveryFailure(t *testing.T) {
	rule := Combine(CollectAll,
		func(int) error { return errors.New("too small") },
		func(int) error { return nil },
		func(int) error { return errors.New("not allowed") },
	)

	err := rule(0)
	if err == nil {
		t.Fatal("expected failure")
	}
	if err.Error() != "too small; not allowed" {
		t.Fatalf("unexpected joined message: %q", err.Error())
	}
}

func TestCombine_IsIdempotent(t *testing.T) {
	rule := Combine(FirstFailure, minValue(4))
	for i := 0; i < 3; i++ {
		if err := rule(2); err == nil || err.Error() != "Value must be at least 4" {
			t.Fatalf("run %d: unexpected result %v", i, err)
		}
	}
}
