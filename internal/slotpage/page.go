// Package slotpage implements the in-page convention that maps a fixed
// record size and a slot index to a byte offset. It carries no page
// header: a data page is nothing but floor(PAGE_SIZE/recordSize) equal
// slots, each one byte status marker followed by the attribute payload.
// Every slot on a page is the same fixed size — there is no variable-
// length record or line-pointer indirection here.
package slotpage

// Occupied is the slot status marker written at byte 0 of a slot that
// holds a live record. Any other byte value means the slot is free;
// '-' is used by this package when a slot is explicitly freed, but the
// marker is never tested for that specific value — only for Occupied.
const (
	Occupied byte = '#'
	Freed    byte = '-'
)

// Page is a data page viewed as an array of fixed-size slots. It does
// not own the backing buffer; callers (bufpool.Frame, in practice) do.
type Page struct {
	Buf        []byte
	RecordSize int
}

// New wraps buf as a slotted page of the given record size. buf's length
// is expected to be the paged-file adapter's PAGE_SIZE.
func New(buf []byte, recordSize int) Page {
	return Page{Buf: buf, RecordSize: recordSize}
}

// Capacity returns floor(len(Buf) / RecordSize), the number of slots a
// page of this record size can hold.
func (p Page) Capacity() int {
	if p.RecordSize <= 0 {
		return 0
	}
	return len(p.Buf) / p.RecordSize
}

func (p Page) offset(slot int) int {
	return slot * p.RecordSize
}

// Marker returns the status byte of slot, without bounds checking beyond
// what indexing the backing array already enforces.
func (p Page) Marker(slot int) byte {
	return p.Buf[p.offset(slot)]
}

// IsOccupied reports whether slot currently holds a live record.
func (p Page) IsOccupied(slot int) bool {
	return p.Marker(slot) == Occupied
}

// FreeSlot returns the smallest slot index whose marker is not Occupied,
// or -1 if every slot in the page is occupied.
func (p Page) FreeSlot() int {
	for i := 0; i < p.Capacity(); i++ {
		if !p.IsOccupied(i) {
			return i
		}
	}
	return -1
}

// ReadSlot returns the full slot bytes (marker + payload) for slot,
// without copying — callers that need to retain the bytes past the next
// mutation must copy them out.
func (p Page) ReadSlot(slot int) []byte {
	off := p.offset(slot)
	return p.Buf[off : off+p.RecordSize]
}

// WriteSlot overwrites slot with rec, which must be exactly RecordSize
// bytes including the leading marker byte.
func (p Page) WriteSlot(slot int, rec []byte) {
	copy(p.ReadSlot(slot), rec)
}

// WritePayload overwrites the bytes after the marker in slot, leaving
// the marker untouched — used by update, which must not disturb
// occupancy.
func (p Page) WritePayload(slot int, payload []byte) {
	off := p.offset(slot)
	copy(p.Buf[off+1:off+p.RecordSize], payload)
}

// MarkFree overwrites slot's marker with the free sentinel. The payload
// bytes are left as-is (stale) — callers must not read them without
// checking IsOccupied first.
func (p Page) MarkFree(slot int) {
	p.Buf[p.offset(slot)] = Freed
}
