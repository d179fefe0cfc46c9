package binding

import (
	"errors"
	"strings"
)

// Rule validates a single value. A nil return means the value is acceptable;
// a non-nil error carries the human-readable reason. Rules must be pure:
// no side effects, same answer for the same value.
type Rule[T any] func(value T) error

// Policy selects how Combine reports failures when more than one rule
// rejects a value.
type Policy int

const (
	// FirstFailure stops at the first failing rule, in declared order.
	FirstFailure Policy = iota
	// CollectAll runs every rule and joins the failing reasons.
	CollectAll
)

// Combine folds rules into a single rule. With FirstFailure the combined
// rule reports the first failing rule's reason in declared order; with
// CollectAll it reports every failing reason joined by "; ". Either way the
// combined rule succeeds iff every rule succeeds.
func Combine[T any](policy Policy, rules ...Rule[T]) Rule[T] {
	return func(value T) error {
		var reasons []string
		for _, rule := range rules {
			if rule == nil {
				continue
			}
			err := rule(value)
			if err == nil {
				continue
			}
			if policy == FirstFailure {
				return err
			}
			reasons = append(reasons, err.Error())
		}
		if len(reasons) == 0 {
			return nil
		}
		return errors.New(strings.Join(reasons, "; "))
	}
}
