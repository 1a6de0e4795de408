package bufpool

// Policy is the pluggable replacement-policy hook. It only ever acts on
// frames with Pin == 0; a pinned frame is never an eligible victim.
// FIFO, LRU, and CLOCK each implement it so they're swappable without a
// switch buried inside pin.
type Policy interface {
	// OnAccess records that frames[idx] was just pinned, whether that
	// pin was a cache hit or a fill-on-miss.
	OnAccess(frames []*Frame, idx int)

	// OnMiss records that the pool just performed one disk read to
	// satisfy a pin. FIFO's hand advances on this event; LRU and CLOCK
	// ignore it (their bookkeeping lives in OnAccess).
	OnMiss()

	// Victim selects an unpinned frame to evict. flush writes a given
	// frame index back to disk and clears its dirty bit without
	// evicting it — used only by CLOCK's "dirty, not referenced"
	// second-chance step, which writes back and keeps sweeping rather
	// than evicting immediately. FIFO and LRU never call it; the caller
	// (Pool.pin) performs the final writeback+evict for whichever frame
	// Victim returns.
	//
	// Returns ok == false if no unpinned frame exists, or if a flush call
	// fails (Pool.Pin then returns that flush error).
	Victim(frames []*Frame, flush func(idx int) error) (idx int, ok bool)
}

// NewPolicyByName builds the Policy named by name ("fifo", "lru", or
// "clock"), for callers that select a policy from configuration rather
// than constructing one directly (internal/config, cmd/recshell).
func NewPolicyByName(name string) (Policy, error) {
	switch name {
	case "fifo":
		return NewFIFO(), nil
	case "lru":
		return NewLRU(), nil
	case "clock":
		return NewClock(), nil
	default:
		return nil, ErrStrategyNotImplemented
	}
}
