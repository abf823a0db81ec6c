package suspension

import "context"

// Store is the persistence capability for the calendar cache. The in-memory
// variant lives for one process; the Redis variant survives restarts. The
// backend is selected at construction, never probed at call time.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
