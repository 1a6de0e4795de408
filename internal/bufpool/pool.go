// Package bufpool is the buffer pool: a bounded, fixed-size cache of
// pages pinned and released by callers, with a pluggable replacement
// policy (FIFO, LRU, CLOCK) choosing victims among unpinned frames.
package bufpool

import (
	"fmt"
	"log/slog"

	"github.com/riverdb/recordstore/internal/pagefile"
)

const logPrefix = "bufpool: "

// PageHandle is the {pageId, content-pointer} result of a successful
// pin: Content aliases the frame's backing buffer directly, so writes
// through it are visible to every other holder of the same handle and
// persist until the frame is next evicted.
type PageHandle struct {
	PageID  pagefile.PageID
	Content []byte
}

// Pool is a fixed-capacity buffer pool over a single page file.
// Capacity is chosen at construction and immutable.
type Pool struct {
	file     *pagefile.File
	policy   Policy
	frames   []*Frame
	pageIdx  map[pagefile.PageID]int
	capacity int

	readIO  int
	writeIO int
}

// NewPool creates a pool of capacity empty frames over file. Fails with
// ErrPoolInitFailed if capacity is not positive.
func NewPool(file *pagefile.File, capacity int, policy Policy) (*Pool, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be > 0, got %d", ErrPoolInitFailed, capacity)
	}
	frames := make([]*Frame, capacity)
	for i := range frames {
		frames[i] = newFrame()
	}
	return &Pool{
		file:     file,
		policy:   policy,
		frames:   frames,
		pageIdx:  make(map[pagefile.PageID]int),
		capacity: capacity,
	}, nil
}

// Pin loads pageId into the pool (if not already resident), increments
// its pin count, and returns a handle to its content.
func (p *Pool) Pin(id pagefile.PageID) (*PageHandle, error) {
	slog.Debug(logPrefix+"pin called", "pageID", id)

	if idx, ok := p.pageIdx[id]; ok {
		f := p.frames[idx]
		f.Pin++
		p.policy.OnAccess(p.frames, idx)
		slog.Debug(logPrefix+"pin hit", "pageID", id, "frameIdx", idx, "pin", f.Pin)
		return &PageHandle{PageID: id, Content: f.Content}, nil
	}

	if idx := p.firstEmptyFrame(); idx != -1 {
		f := p.frames[idx]
		slog.Debug(logPrefix+"using free frame", "pageID", id, "frameIdx", idx)
		if err := p.readInto(f, id); err != nil {
			slog.Error(logPrefix+"read into free frame failed", "pageID", id, "frameIdx", idx, "err", err)
			return nil, err
		}
		f.Pin = 1
		p.pageIdx[id] = idx
		p.policy.OnAccess(p.frames, idx)
		return &PageHandle{PageID: id, Content: f.Content}, nil
	}

	slog.Debug(logPrefix + "pool full, selecting victim frame")
	var flushErr error
	idx, ok := p.policy.Victim(p.frames, func(i int) error {
		err := p.flushFrame(i)
		if err != nil {
			flushErr = err
		}
		return err
	})
	if !ok {
		if flushErr != nil {
			return nil, flushErr
		}
		slog.Debug(logPrefix + "no victim available, all frames pinned")
		return nil, ErrNoFreeFrame
	}
	victim := p.frames[idx]
	slog.Debug(logPrefix+"selected victim frame", "frameIdx", idx, "evictedPageID", victim.PageID, "dirty", victim.Dirty)
	if victim.Dirty {
		slog.Debug(logPrefix+"flushing dirty victim before eviction", "frameIdx", idx, "evictedPageID", victim.PageID)
		if err := p.flushFrame(idx); err != nil {
			return nil, err
		}
	}
	delete(p.pageIdx, victim.PageID)

	if err := p.readInto(victim, id); err != nil {
		slog.Error(logPrefix+"read into victim frame failed, leaving frame empty", "pageID", id, "frameIdx", idx, "err", err)
		victim.PageID = pagefile.NoPage
		victim.Cookie = 0
		return nil, err
	}
	victim.Pin = 1
	p.pageIdx[id] = idx
	p.policy.OnAccess(p.frames, idx)
	slog.Debug(logPrefix+"reused victim frame for new page", "pageID", id, "frameIdx", idx)
	return &PageHandle{PageID: id, Content: victim.Content}, nil
}

func (p *Pool) firstEmptyFrame() int {
	for i, f := range p.frames {
		if f.empty() {
			return i
		}
	}
	return -1
}

func (p *Pool) readInto(f *Frame, id pagefile.PageID) error {
	if err := p.file.ReadBlock(id, f.Content); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	f.PageID = id
	f.Dirty = false
	p.readIO++
	p.policy.OnMiss()
	return nil
}

// flushFrame writes frame idx back to disk unconditionally and clears
// its dirty bit. Used both by eviction and by force*.
func (p *Pool) flushFrame(idx int) error {
	f := p.frames[idx]
	if f.empty() {
		return nil
	}
	if err := p.file.WriteBlock(f.PageID, f.Content); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	p.writeIO++
	f.Dirty = false
	return nil
}

func (p *Pool) frameFor(id pagefile.PageID) (*Frame, int, bool) {
	idx, ok := p.pageIdx[id]
	if !ok {
		return nil, -1, false
	}
	return p.frames[idx], idx, true
}

// Unpin decrements the pin count of handle's page. Unpinning a page not
// resident in the pool is a no-op rather than an error.
func (p *Pool) Unpin(h *PageHandle) error {
	if h == nil {
		return nil
	}
	f, _, ok := p.frameFor(h.PageID)
	if !ok {
		slog.Debug(logPrefix+"unpin ignored, page not in pool", "pageID", h.PageID)
		return nil
	}
	if f.Pin > 0 {
		f.Pin--
	}
	slog.Debug(logPrefix+"unpin", "pageID", h.PageID, "pin", f.Pin)
	return nil
}

// MarkDirty sets the dirty flag on the frame holding handle's page. A
// miss is a no-op, mirroring Unpin.
func (p *Pool) MarkDirty(h *PageHandle) error {
	if h == nil {
		return nil
	}
	f, _, ok := p.frameFor(h.PageID)
	if !ok {
		return nil
	}
	f.Dirty = true
	return nil
}

// ForcePage writes handle's frame to disk immediately, regardless of
// its dirty bit, and clears dirty.
func (p *Pool) ForcePage(h *PageHandle) error {
	if h == nil {
		return nil
	}
	_, idx, ok := p.frameFor(h.PageID)
	if !ok {
		return nil
	}
	return p.flushFrame(idx)
}

// ForceFlushPool writes back every frame that is dirty and unpinned,
// leaving pinned dirty frames untouched.
func (p *Pool) ForceFlushPool() error {
	slog.Debug(logPrefix + "force flush pool started")
	for idx, f := range p.frames {
		if f.empty() || !f.Dirty || f.Pin != 0 {
			continue
		}
		slog.Debug(logPrefix+"flushing dirty unpinned frame", "frameIdx", idx, "pageID", f.PageID)
		if err := p.flushFrame(idx); err != nil {
			return err
		}
	}
	slog.Debug(logPrefix + "force flush pool completed")
	return nil
}

// Shutdown force-flushes all dirty, unpinned frames and releases the
// pool's frames. If any frame is still pinned it fails with
// ErrPageStillPinned and leaves the pool's state untouched so the
// caller can reconcile (unpin the offending pages and retry).
func (p *Pool) Shutdown() error {
	for _, f := range p.frames {
		if !f.empty() && f.Pin > 0 {
			slog.Warn(logPrefix+"shutdown refused, page still pinned", "pageID", f.PageID, "pin", f.Pin)
			return ErrPageStillPinned
		}
	}
	if err := p.ForceFlushPool(); err != nil {
		return err
	}
	slog.Debug(logPrefix + "shutdown complete")
	for _, f := range p.frames {
		f.PageID = pagefile.NoPage
		f.Dirty = false
		f.Pin = 0
		f.Cookie = 0
	}
	p.pageIdx = make(map[pagefile.PageID]int)
	return p.file.Close()
}

// ReadIO is the number of pages fetched from disk since pool creation.
func (p *Pool) ReadIO() int { return p.readIO }

// WriteIO is the number of pages written to disk since pool creation.
func (p *Pool) WriteIO() int { return p.writeIO }

// Capacity is the fixed number of frames this pool manages.
func (p *Pool) Capacity() int { return p.capacity }

// FrameState is a read-only snapshot of one frame's bookkeeping, used
// for introspection by tests and operator tooling.
type FrameState struct {
	PageID pagefile.PageID
	Dirty  bool
	Pin    int
}

// Snapshot returns the current state of every frame, in frame order.
func (p *Pool) Snapshot() []FrameState {
	out := make([]FrameState, len(p.frames))
	for i, f := range p.frames {
		out[i] = FrameState{PageID: f.PageID, Dirty: f.Dirty, Pin: f.Pin}
	}
	return out
}
