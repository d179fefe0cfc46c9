package binding

import "sync"

// Subscription is the token returned by a subscribe call. Cancel detaches
// the handler; cancelling more than once is a no-op.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// NewSubscription wraps a cancellation closure. Other packages in this
// module reuse it so every subscribe surface hands back the same token type.
func NewSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Cancel detaches the subscription. Safe to call repeatedly.
func (s *Subscription) Cancel() {
	if s == nil || s.cancel == nil {
		return
	}
	s.once.Do(s.cancel)
}
