// Package scan implements a restartable, predicate-evaluated sequential
// cursor over a table's data pages: each step pins the page of one
// slot, copies the slot out and unpins the page before evaluating the
// predicate, so a scan never holds more than one page pinned at a time.
package scan

import (
	"errors"
	"fmt"

	"github.com/riverdb/recordstore/internal/pagefile"
	"github.com/riverdb/recordstore/internal/recordmgr"
	"github.com/riverdb/recordstore/internal/schema"
	"github.com/riverdb/recordstore/internal/slotpage"
)

var ErrMissingScanCondition = errors.New("scan: missing scan condition")

// Kind tags the type carried by a Value.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindString
)

// Value is the tagged union a Predicate evaluates to. Scans only ever
// inspect Kind == KindBool; the other kinds exist so a Predicate
// implementation can build up boolean results from typed attribute
// comparisons.
type Value struct {
	Kind Kind
	I    int32
	F    float64
	B    bool
	S    string
}

// Predicate evaluates a boolean expression over a record's attributes.
type Predicate interface {
	Eval(rec *schema.Record, s *schema.Schema) (Value, error)
}

// AlwaysTrue is a Predicate that matches every record; used by scans
// that want every tuple without filtering, and by tests that check a
// scan with an always-TRUE predicate visits exactly tupleCount records.
type AlwaysTrue struct{}

func (AlwaysTrue) Eval(*schema.Record, *schema.Schema) (Value, error) {
	return Value{Kind: KindBool, B: true}, nil
}

// AttrEquals matches records whose attribute AttrNum compares equal to
// Want, using Go equality on the typed value returned by schema.GetAttr.
type AttrEquals struct {
	AttrNum int
	Want    any
}

func (p AttrEquals) Eval(rec *schema.Record, s *schema.Schema) (Value, error) {
	got, err := schema.GetAttr(rec, s, p.AttrNum)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindBool, B: got == p.Want}, nil
}

// Scan is a restartable sequential cursor over one table's data pages.
type Scan struct {
	tbl        *recordmgr.Table
	predicate  Predicate
	cursor     schema.RID
	scanCount  int32
	recordSize int
	started    bool
}

// StartScan begins a scan of tbl with predicate pred. A nil predicate is
// rejected immediately with ErrMissingScanCondition, before any page is
// touched.
func StartScan(tbl *recordmgr.Table, pred Predicate) (*Scan, error) {
	if pred == nil {
		return nil, ErrMissingScanCondition
	}
	return &Scan{
		tbl:        tbl,
		predicate:  pred,
		cursor:     schema.RID{Page: 1, Slot: 0},
		recordSize: tbl.RecordSize(),
	}, nil
}

// ErrNoMoreTuples signals scan exhaustion; the cursor is reset so the
// scan may be restarted from (1, 0).
var ErrNoMoreTuples = errors.New("scan: no more tuples")

// Next advances the cursor slot by slot, pinning and unpinning the page
// of each slot it examines, and returns the first subsequent record that
// matches the predicate. It returns ErrNoMoreTuples once scanCount
// exceeds the table's tuple count, resetting the cursor first.
func (sc *Scan) Next() (*schema.Record, error) {
	capacity := sc.tbl.Capacity()
	if capacity <= 0 {
		return nil, fmt.Errorf("scan: table record size leaves no slots per page")
	}

	for {
		if sc.scanCount > sc.tbl.GetNumTuples() {
			sc.reset()
			return nil, ErrNoMoreTuples
		}

		rid := sc.cursor
		sc.advanceCursor(capacity)
		sc.scanCount++

		h, err := sc.tbl.PinPage(pagefile.PageID(rid.Page))
		if err != nil {
			return nil, err
		}
		sp := slotpage.New(h.Content, sc.recordSize)
		occupied := sp.IsOccupied(int(rid.Slot))
		var raw []byte
		if occupied {
			raw = append([]byte(nil), sp.ReadSlot(int(rid.Slot))...)
		}
		if err := sc.tbl.UnpinPage(h); err != nil {
			return nil, err
		}

		// Policy decision (recorded in DESIGN.md): skip non-'#' slots
		// before invoking the predicate at all, rather than relying on
		// the predicate to treat a stale payload as non-matching.
		if !occupied {
			continue
		}

		rec := &schema.Record{ID: rid, Data: raw}
		val, err := sc.predicate.Eval(rec, sc.tbl.Schema())
		if err != nil {
			return nil, err
		}
		if val.Kind == KindBool && val.B {
			return rec, nil
		}
	}
}

func (sc *Scan) advanceCursor(capacity int) {
	sc.cursor.Slot++
	if int(sc.cursor.Slot) >= capacity {
		sc.cursor.Slot = 0
		sc.cursor.Page++
	}
}

func (sc *Scan) reset() {
	sc.cursor = schema.RID{Page: 1, Slot: 0}
	sc.scanCount = 0
}

// Close releases scan state. The engine never holds a page pinned
// between Next calls, so there is nothing to unpin here; Close exists
// to make scan lifetimes explicit at call sites.
func (sc *Scan) Close() error {
	sc.tbl = nil
	sc.predicate = nil
	return nil
}
