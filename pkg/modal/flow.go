package modal

import (
	"context"

	"github.com/goliatone/go-formbind/pkg/provider"
)

// Flow adapts a session-opening function into a CreationFlow. The open
// callback presents the sub-editor and returns its session; the flow then
// suspends until the session resolves, mapping cancellation to the
// nil-item convention collection fields understand.
func Flow[T any](open func(ctx context.Context) *EditSession[T]) provider.CreationFlowFunc[T] {
	return func(ctx context.Context) (*T, error) {
		session := open(ctx)
		value, ok, err := session.Await(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return &value, nil
	}
}
