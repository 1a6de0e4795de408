package pagefile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateOpenDestroy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t1.tbl")

	require.NoError(t, Create(path))

	f, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 0, f.PageCount())
	require.NoError(t, f.Close())

	require.NoError(t, Destroy(path))
	_, err = Open(path)
	require.Error(t, err)
}

func TestReadBlockBeyondEOFIsZeroFilled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t1.tbl")
	require.NoError(t, Create(path))
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, PageSize)
	for i := range buf {
		buf[i] = 0xFF
	}
	require.NoError(t, f.ReadBlock(5, buf))
	for i, b := range buf {
		require.Equalf(t, byte(0), b, "byte %d not zero-filled", i)
	}
}

func TestWriteBlockGrowsPageCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t1.tbl")
	require.NoError(t, Create(path))
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, PageSize)
	buf[0] = 0x42
	require.NoError(t, f.WriteBlock(3, buf))
	require.Equal(t, 4, f.PageCount())

	reread := make([]byte, PageSize)
	require.NoError(t, f.ReadBlock(3, reread))
	require.Equal(t, byte(0x42), reread[0])

	// Still-zero pages before the written one.
	zero := make([]byte, PageSize)
	require.NoError(t, f.ReadBlock(0, zero))
	for _, b := range zero {
		require.Equal(t, byte(0), b)
	}
}

func TestWriteBlockWrongSizeRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t1.tbl")
	require.NoError(t, Create(path))
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	require.Error(t, f.WriteBlock(0, make([]byte, 10)))
	require.Error(t, f.ReadBlock(0, make([]byte, 10)))
}
