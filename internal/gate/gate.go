// Package gate implements the single-flight request gate: at most one
// reconciliation runs at a time, with no queueing and no retry.
package gate

import "sync/atomic"

// Gate guards a single in-flight operation using an atomic flag. It
// follows the shape of internal/ipc.Server's shuttingDown flag (a
// mutex-guarded bool there), generalized here to a lock-free busy flag
// checked on every request.
type Gate struct {
	busy atomic.Bool
}

// TryAcquire attempts to claim the gate. It returns true if the caller
// now owns it; false if a reconciliation is already in flight.
func (g *Gate) TryAcquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

// Release frees the gate. Callers must defer this immediately after a
// successful TryAcquire so it fires on every exit path, including a
// recovered panic.
func (g *Gate) Release() {
	g.busy.Store(false)
}
