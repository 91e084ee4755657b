package pool

import "sync"

var (
	defaultMu   sync.Mutex
	defaultPool *Pool
)

// Init starts the process-wide pool with n workers (n <= 0 means one per
// logical CPU). If the pool is already running it is returned unchanged.
func Init(n int) *Pool {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultPool == nil {
		defaultPool = New(WithWorkers(n))
	}
	return defaultPool
}

// Default returns the process-wide pool, starting it on first use.
func Default() *Pool {
	return Init(0)
}

// Shutdown stops the process-wide pool. It returns ErrClosed when no pool
// is running. A later Init starts a fresh pool.
func Shutdown() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultPool == nil {
		return ErrClosed
	}
	err := defaultPool.Close()
	defaultPool = nil
	return err
}
