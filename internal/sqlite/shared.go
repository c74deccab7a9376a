package sqlite

import (
	"sync"

	"github.com/mesh-intelligence/wikigames/pkg/types"
)

// shared is the process-wide store handle. It is created on first use and
// guarded so concurrent first callers get the same Backend.
var shared struct {
	mu      sync.Mutex
	backend *Backend
}

// Shared returns the process-wide backend, attaching it with config on the
// first call. Later calls return the same backend and ignore config.
func Shared(config types.Config, opts ...Option) (*Backend, error) {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.backend != nil {
		return shared.backend, nil
	}

	b := NewBackend(opts...)
	if err := b.Attach(config); err != nil {
		return nil, err
	}
	shared.backend = b
	return b, nil
}

// ResetShared detaches and forgets the process-wide backend.
func ResetShared() error {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.backend == nil {
		return nil
	}
	err := shared.backend.Detach()
	shared.backend = nil
	return err
}
