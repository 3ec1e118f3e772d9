package resilience

import (
	"errors"
	"sync"
)

var ErrInFlight = errors.New("another request for this key is in flight")

// KeyedInFlight allows at most one operation per key at a time. Operations on
// distinct keys proceed independently. Used to keep approve and reject for the
// same dashboard row mutually exclusive while a request is pending.
type KeyedInFlight struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func NewKeyedInFlight() *KeyedInFlight {
	return &KeyedInFlight{pending: make(map[string]struct{})}
}

// Do runs fn if no operation for key is pending, otherwise returns ErrInFlight
// without invoking fn. The key is released when fn returns, success or not.
func (k *KeyedInFlight) Do(key string, fn func() error) error {
	k.mu.Lock()
	if _, busy := k.pending[key]; busy {
		k.mu.Unlock()
		return ErrInFlight
	}
	k.pending[key] = struct{}{}
	k.mu.Unlock()

	defer func() {
		k.mu.Lock()
		delete(k.pending, key)
		k.mu.Unlock()
	}()

	return fn()
}
