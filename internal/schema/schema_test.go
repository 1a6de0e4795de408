package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := CreateSchema(
		[]string{"a", "b"},
		[]DataType{TypeInt, TypeString},
		[]int{0, 4},
		[]int{0},
	)
	require.NoError(t, err)
	return s
}

func TestCreateSchemaRejectsEmptyKeys(t *testing.T) {
	_, err := CreateSchema([]string{"a"}, []DataType{TypeInt}, []int{0}, nil)
	require.Error(t, err)
}

func TestGetRecordSize(t *testing.T) {
	s := testSchema(t)
	// marker(1) + int(4) + string[4](4) = 9
	require.Equal(t, 9, GetRecordSize(s))
}

func TestAttrOffsetBoundaryInvariant(t *testing.T) {
	s := testSchema(t)
	off0, err := AttrOffset(s, 0)
	require.NoError(t, err)
	require.Equal(t, 1, off0)

	offEnd, err := AttrOffset(s, s.NumAttr())
	require.NoError(t, err)
	require.Equal(t, GetRecordSize(s), offEnd)
}

func TestCreateRecordIsFreeAndUnassigned(t *testing.T) {
	s := testSchema(t)
	rec, err := CreateRecord(s)
	require.NoError(t, err)
	require.Equal(t, NoRID, rec.ID)
	require.Len(t, rec.Data, GetRecordSize(s))
	require.Equal(t, byte('-'), rec.Data[0])
}

func TestSetAttrGetAttrRoundTrip(t *testing.T) {
	s := testSchema(t)
	rec, err := CreateRecord(s)
	require.NoError(t, err)

	require.NoError(t, SetAttr(rec, s, 0, int32(42)))
	require.NoError(t, SetAttr(rec, s, 1, "abcd"))

	v0, err := GetAttr(rec, s, 0)
	require.NoError(t, err)
	require.Equal(t, int32(42), v0)

	v1, err := GetAttr(rec, s, 1)
	require.NoError(t, err)
	require.Equal(t, "abcd", v1)
}

func TestSetAttrStringTruncatesAndPads(t *testing.T) {
	s := testSchema(t)
	rec, err := CreateRecord(s)
	require.NoError(t, err)

	require.NoError(t, SetAttr(rec, s, 1, "abcdXYZ")) // longer than 4
	v, err := GetAttr(rec, s, 1)
	require.NoError(t, err)
	require.Equal(t, "abcd", v)

	require.NoError(t, SetAttr(rec, s, 1, "ab")) // shorter than 4, null-padded
	v, err = GetAttr(rec, s, 1)
	require.NoError(t, err)
	require.Equal(t, "ab", v)
}

func TestAttrOffsetBadAttrNum(t *testing.T) {
	s := testSchema(t)
	_, err := AttrOffset(s, -1)
	require.ErrorIs(t, err, ErrBadAttrNum)
	_, err = AttrOffset(s, s.NumAttr()+1)
	require.ErrorIs(t, err, ErrBadAttrNum)
}

func TestSetAttrBadAttrNum(t *testing.T) {
	s := testSchema(t)
	rec, _ := CreateRecord(s)
	require.ErrorIs(t, SetAttr(rec, s, -1, int32(1)), ErrBadAttrNum)
}

func TestNullArgumentRejected(t *testing.T) {
	s := testSchema(t)
	rec, err := CreateRecord(s)
	require.NoError(t, err)

	_, err = CreateRecord(nil)
	require.ErrorIs(t, err, ErrNullArgument)

	_, err = AttrOffset(nil, 0)
	require.ErrorIs(t, err, ErrNullArgument)

	_, err = GetAttr(nil, s, 0)
	require.ErrorIs(t, err, ErrNullArgument)
	_, err = GetAttr(rec, nil, 0)
	require.ErrorIs(t, err, ErrNullArgument)

	require.ErrorIs(t, SetAttr(nil, s, 0, int32(1)), ErrNullArgument)
	require.ErrorIs(t, SetAttr(rec, nil, 0, int32(1)), ErrNullArgument)
}
