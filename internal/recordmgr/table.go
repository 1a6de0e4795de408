// Package recordmgr is the record manager: per-table lifecycle, schema
// persistence on page 0, and slot-level record CRUD driven through a
// buffer pool. Each table is one open page file; there is no catalog of
// multiple simultaneously open tables and no variable-length or
// overflow record support — every record for a table has the same
// fixed size.
package recordmgr

import (
	"fmt"
	"log/slog"

	"github.com/riverdb/recordstore/internal/bufpool"
	"github.com/riverdb/recordstore/internal/pagefile"
	"github.com/riverdb/recordstore/internal/schema"
	"github.com/riverdb/recordstore/internal/slotpage"
)

// firstDataPage is the page id of the first data page; page 0 is always
// the schema header.
const firstDataPage pagefile.PageID = 1

// Table is a handle to one open table: its schema, its buffer pool, and
// the record-manager bookkeeping (tuple count, free-list hint) that
// belongs with the table rather than the pool.
type Table struct {
	path         string
	file         *pagefile.File
	pool         *bufpool.Pool
	schema       schema.Schema
	recordSize   int
	tupleCount   int32
	freeListHint pagefile.PageID
}

// CreateTable builds the page-0 header for s and writes it through the
// paged-file adapter directly, without attaching a buffer pool.
// tupleCount starts at 0, freeListHint at the first data page.
func CreateTable(path string, s *schema.Schema) error {
	if err := pagefile.Create(path); err != nil {
		return fmt.Errorf("%w: %v", ErrTableOpenFailed, err)
	}
	f, err := pagefile.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTableOpenFailed, err)
	}
	defer f.Close()

	buf, err := encodeHeader(header{
		tupleCount:   0,
		freeListHint: int32(firstDataPage),
		schema:       *s,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTableOpenFailed, err)
	}
	if err := f.WriteBlock(0, buf); err != nil {
		return fmt.Errorf("%w: %v", ErrTableOpenFailed, err)
	}
	return nil
}

// OpenTable opens the page file at path, attaches a buffer pool of the
// given capacity and replacement policy, pins page 0, parses the
// header, and unpins it again. It does not force page 0 back to disk
// after parsing — that write would be harmless but wasted, since
// parsing never mutates the header.
func OpenTable(path string, capacity int, policy bufpool.Policy) (*Table, error) {
	f, err := pagefile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTableOpenFailed, err)
	}
	pool, err := bufpool.NewPool(f, capacity, policy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTableOpenFailed, err)
	}

	h, err := pool.Pin(0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTableOpenFailed, err)
	}
	hdr, err := decodeHeader(h.Content)
	if err != nil {
		_ = pool.Unpin(h)
		return nil, fmt.Errorf("%w: %v", ErrTableOpenFailed, err)
	}
	if err := pool.Unpin(h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTableOpenFailed, err)
	}

	recSize := schema.GetRecordSize(&hdr.schema)
	if recSize < 0 {
		return nil, fmt.Errorf("%w: %v", ErrTableOpenFailed, schema.ErrUnknownDataType)
	}

	return &Table{
		path:         path,
		file:         f,
		pool:         pool,
		schema:       hdr.schema,
		recordSize:   recSize,
		tupleCount:   hdr.tupleCount,
		freeListHint: pagefile.PageID(hdr.freeListHint),
	}, nil
}

// CloseTable shuts down the table's buffer pool. It fails if the pool
// refuses to shut down (e.g. a page is still pinned).
func CloseTable(t *Table) error {
	if err := t.pool.Shutdown(); err != nil {
		slog.Warn("recordmgr: close table failed, pool refused shutdown", "path", t.path, "err", err)
		return err
	}
	return nil
}

// DeleteTable destroys the page file at path. The table must already be
// closed; deleting an open file while it is still open is the caller's
// mistake to avoid.
func DeleteTable(path string) error {
	if err := pagefile.Destroy(path); err != nil {
		return fmt.Errorf("%w: %v", ErrTableDeleteFailed, err)
	}
	return nil
}

// GetNumTuples returns the table's cached tuple count. This is a
// monotonic insert counter, not a live-row count: deleteRecord does not
// decrement it.
func (t *Table) GetNumTuples() int32 { return t.tupleCount }

// Schema returns the table's parsed schema.
func (t *Table) Schema() *schema.Schema { return &t.schema }

// RecordSize returns 1 + sum(attribute sizes) for this table's schema.
func (t *Table) RecordSize() int { return t.recordSize }

// Capacity returns the number of slots a data page holds for this
// table's record size.
func (t *Table) Capacity() int {
	return slotpage.New(make([]byte, pagefile.PageSize), t.recordSize).Capacity()
}

// PinPage and UnpinPage expose the table's buffer pool to the scan
// engine, which must pin/unpin per tuple itself rather than route every
// step through the record manager.
func (t *Table) PinPage(page pagefile.PageID) (*bufpool.PageHandle, error) {
	return t.pool.Pin(page)
}

func (t *Table) UnpinPage(h *bufpool.PageHandle) error {
	return t.pool.Unpin(h)
}

// InsertRecord starts from freeListHint and walks forward page by page
// until it finds a free slot (tolerating a stale hint), writes the
// marker and the caller's payload bytes, assigns rec.ID, and bumps
// tupleCount. Extending past the last data page is implicit: pinning a
// page beyond EOF returns a zero-filled page (all slots free), so the
// walk never needs to special-case file growth.
func (t *Table) InsertRecord(rec *schema.Record) error {
	page := t.freeListHint
	if page < firstDataPage {
		page = firstDataPage
	}
	for {
		h, err := t.pool.Pin(page)
		if err != nil {
			slog.Warn("recordmgr: insert failed to pin page", "page", page, "err", err)
			return fmt.Errorf("%w: %v", ErrInsertFailed, err)
		}
		sp := slotpage.New(h.Content, t.recordSize)
		slot := sp.FreeSlot()
		if slot == -1 {
			if err := t.pool.Unpin(h); err != nil {
				return fmt.Errorf("%w: %v", ErrInsertFailed, err)
			}
			page++
			continue
		}

		full := make([]byte, t.recordSize)
		full[0] = slotpage.Occupied
		copy(full[1:], rec.Data[1:])
		sp.WriteSlot(slot, full)

		if err := t.pool.MarkDirty(h); err != nil {
			_ = t.pool.Unpin(h)
			slog.Warn("recordmgr: insert failed to mark page dirty", "page", page, "err", err)
			return fmt.Errorf("%w: %v", ErrInsertFailed, err)
		}
		if err := t.pool.Unpin(h); err != nil {
			return fmt.Errorf("%w: %v", ErrInsertFailed, err)
		}

		rec.ID = schema.RID{Page: int32(page), Slot: int32(slot)}
		t.tupleCount++
		t.freeListHint = page
		return nil
	}
}

// DeleteRecord marks rid's slot free and remembers its page as the new
// free-list hint. It does not validate that the slot was occupied;
// deleting an already-free slot is a harmless no-op write of the same
// sentinel byte.
func (t *Table) DeleteRecord(rid schema.RID) error {
	h, err := t.pool.Pin(pagefile.PageID(rid.Page))
	if err != nil {
		slog.Warn("recordmgr: delete failed to pin page", "rid", rid, "err", err)
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	sp := slotpage.New(h.Content, t.recordSize)
	sp.MarkFree(int(rid.Slot))

	if err := t.pool.MarkDirty(h); err != nil {
		_ = t.pool.Unpin(h)
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	if err := t.pool.Unpin(h); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	t.freeListHint = pagefile.PageID(rid.Page)
	return nil
}

// UpdateRecord overwrites the payload after the marker at rec.ID,
// leaving the marker (and therefore occupancy) untouched.
func (t *Table) UpdateRecord(rec *schema.Record) error {
	h, err := t.pool.Pin(pagefile.PageID(rec.ID.Page))
	if err != nil {
		slog.Warn("recordmgr: update failed to pin page", "rid", rec.ID, "err", err)
		return fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}
	sp := slotpage.New(h.Content, t.recordSize)
	sp.WritePayload(int(rec.ID.Slot), rec.Data[1:])

	if err := t.pool.MarkDirty(h); err != nil {
		_ = t.pool.Unpin(h)
		return fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}
	if err := t.pool.Unpin(h); err != nil {
		return fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}
	return nil
}

// GetRecord pins rid.page, checks the slot marker, and on '#' copies the
// slot's payload bytes into rec.Data and sets rec.ID. A non-'#' marker
// yields ErrNoSuchRecord. Either way the page is unpinned before return.
func (t *Table) GetRecord(rid schema.RID, rec *schema.Record) error {
	h, err := t.pool.Pin(pagefile.PageID(rid.Page))
	if err != nil {
		return err
	}
	defer func() { _ = t.pool.Unpin(h) }()

	sp := slotpage.New(h.Content, t.recordSize)
	if !sp.IsOccupied(int(rid.Slot)) {
		slog.Debug("recordmgr: get found no record at rid", "rid", rid)
		return ErrNoSuchRecord
	}
	copy(rec.Data[1:], sp.ReadSlot(int(rid.Slot))[1:])
	rec.ID = rid
	return nil
}
