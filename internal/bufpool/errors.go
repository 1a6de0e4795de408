package bufpool

import "errors"

// Status codes the buffer pool returns at its boundary.
var (
	ErrPoolInitFailed  = errors.New("bufpool: pool init failed")
	ErrPageStillPinned = errors.New("bufpool: page still pinned")
	ErrNoFreeFrame     = errors.New("bufpool: no free frame")
	ErrIO              = errors.New("bufpool: I/O error")

	// ErrStrategyNotImplemented is returned by NewPolicyByName for any
	// policy name other than fifo/lru/clock.
	ErrStrategyNotImplemented = errors.New("bufpool: replacement strategy not implemented")
)
