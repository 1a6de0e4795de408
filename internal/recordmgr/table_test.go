package recordmgr

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riverdb/recordstore/internal/bufpool"
	"github.com/riverdb/recordstore/internal/schema"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.CreateSchema(
		[]string{"a", "b"},
		[]schema.DataType{schema.TypeInt, schema.TypeString},
		[]int{0, 4},
		[]int{0},
	)
	require.NoError(t, err)
	return s
}

func mustRecord(t *testing.T, s *schema.Schema, a int32, b string) *schema.Record {
	t.Helper()
	rec, err := schema.CreateRecord(s)
	require.NoError(t, err)
	require.NoError(t, schema.SetAttr(rec, s, 0, a))
	require.NoError(t, schema.SetAttr(rec, s, 1, b))
	return rec
}

func openFreshTable(t *testing.T, capacity int) *Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t1.tbl")
	s := testSchema(t)
	require.NoError(t, CreateTable(path, s))
	tbl, err := OpenTable(path, capacity, bufpool.NewFIFO())
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseTable(tbl) })
	return tbl
}

func TestCreateOpenRoundTripsSchema(t *testing.T) {
	tbl := openFreshTable(t, 4)
	require.Equal(t, 2, tbl.Schema().NumAttr())
	require.Equal(t, "a", tbl.Schema().Attrs[0].Name)
	require.Equal(t, "b", tbl.Schema().Attrs[1].Name)
	require.EqualValues(t, 0, tbl.GetNumTuples())
}

// Insert three records, get one back byte-identical, delete it, confirm
// it's gone, then insert a fourth and check it reuses the freed page.
func TestScenarioS4InsertGetDeleteRoundTrip(t *testing.T) {
	tbl := openFreshTable(t, 4)
	s := tbl.Schema()

	r1 := mustRecord(t, s, 1, "abcd")
	r2 := mustRecord(t, s, 2, "efgh")
	r3 := mustRecord(t, s, 3, "ijkl")

	require.NoError(t, tbl.InsertRecord(r1))
	require.NoError(t, tbl.InsertRecord(r2))
	require.NoError(t, tbl.InsertRecord(r3))

	got, err := schema.CreateRecord(s)
	require.NoError(t, err)
	require.NoError(t, tbl.GetRecord(r2.ID, got))
	require.Equal(t, r2.Data[1:], got.Data[1:])

	require.NoError(t, tbl.DeleteRecord(r2.ID))
	require.ErrorIs(t, tbl.GetRecord(r2.ID, got), ErrNoSuchRecord)

	r4 := mustRecord(t, s, 4, "mnop")
	require.NoError(t, tbl.InsertRecord(r4))
	require.Equal(t, r2.ID.Page, r4.ID.Page)
}

// Filling a page's slot capacity exactly must spill the next insert
// onto a fresh page rather than fail or overwrite.
func TestSlotCapacityBoundarySpillsToNextPage(t *testing.T) {
	tbl := openFreshTable(t, 8)
	s := tbl.Schema()
	cap := tbl.Capacity()
	require.Greater(t, cap, 0)

	var last *schema.Record
	for i := 0; i < cap; i++ {
		r := mustRecord(t, s, int32(i), "xxxx")
		require.NoError(t, tbl.InsertRecord(r))
		require.EqualValues(t, 1, r.ID.Page)
		last = r
	}
	_ = last

	overflow := mustRecord(t, s, int32(cap), "yyyy")
	require.NoError(t, tbl.InsertRecord(overflow))
	require.EqualValues(t, 2, overflow.ID.Page)
	require.EqualValues(t, 0, overflow.ID.Slot)
}

func TestUpdateRecordPreservesMarkerAndRID(t *testing.T) {
	tbl := openFreshTable(t, 4)
	s := tbl.Schema()

	r := mustRecord(t, s, 1, "abcd")
	require.NoError(t, tbl.InsertRecord(r))

	require.NoError(t, schema.SetAttr(r, s, 1, "zzzz"))
	require.NoError(t, tbl.UpdateRecord(r))

	got, err := schema.CreateRecord(s)
	require.NoError(t, err)
	require.NoError(t, tbl.GetRecord(r.ID, got))
	v, err := schema.GetAttr(got, s, 1)
	require.NoError(t, err)
	require.Equal(t, "zzzz", v)
}

func TestInsertContinuesOnHintPageWhileRoomRemains(t *testing.T) {
	tbl := openFreshTable(t, 8)
	s := tbl.Schema()
	cap := tbl.Capacity()

	for i := 0; i < cap; i++ {
		require.NoError(t, tbl.InsertRecord(mustRecord(t, s, int32(i), "xxxx")))
	}
	spill := mustRecord(t, s, int32(cap), "yyyy")
	require.NoError(t, tbl.InsertRecord(spill))
	require.EqualValues(t, 2, spill.ID.Page)

	// Hint points at page 2 now; page 1 is full. A fresh insert must
	// walk forward from the hint and land on page 2 again, not assume
	// the hint is exact slot info.
	next := mustRecord(t, s, int32(cap+1), "zzzz")
	require.NoError(t, tbl.InsertRecord(next))
	require.EqualValues(t, 2, next.ID.Page)
}
