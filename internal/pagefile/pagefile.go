// Package pagefile is the paged-file adapter the buffer pool and record
// manager sit on top of: fixed PAGE_SIZE block I/O by page number, byte
// exact and synchronous, over a single *os.File per table.
package pagefile

import (
	"fmt"
	"io"
	"os"
)

// PageSize is the fixed block size every page file is read and written in.
const PageSize = 4096

const (
	FileMode0644 = 0o644
	FileMode0755 = 0o755
)

// PageID identifies a fixed-size block within a page file. NoPage is the
// sentinel used by bufpool.Frame for an empty frame slot.
type PageID int32

const NoPage PageID = -1

// File is one page file: page 0 plus however many data pages have been
// written. There is no segmentation — recordstore is a single-file
// engine, so each table is exactly one *os.File.
type File struct {
	f         *os.File
	pageCount int
}

// Create creates a fresh, empty page file at path. It fails if the file
// already exists so callers don't silently clobber a table.
func Create(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, FileMode0644)
	if err != nil {
		return fmt.Errorf("pagefile: create %s: %w", path, err)
	}
	return f.Close()
}

// Open opens an existing page file for reading and writing.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, FileMode0644)
	if err != nil {
		return nil, fmt.Errorf("pagefile: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("pagefile: stat %s: %w", path, err)
	}
	return &File{
		f:         f,
		pageCount: int(info.Size()) / PageSize,
	}, nil
}

// Close closes the underlying OS file. It does not flush any cached
// pages — that is the buffer pool's job.
func (pf *File) Close() error {
	if pf == nil {
		return nil
	}
	return pf.f.Close()
}

// Destroy removes a page file from disk. The caller must close the file
// first if it has it open.
func Destroy(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("pagefile: destroy %s: %w", path, err)
	}
	return nil
}

// PageCount reports how many whole pages have ever been written.
func (pf *File) PageCount() int {
	return pf.pageCount
}

// ReadBlock reads page id into buf, which must be exactly PageSize bytes.
// Reading a page at or beyond EOF is not an error: buf is zero-filled,
// as if the file had already been extended to cover it.
func (pf *File) ReadBlock(id PageID, buf []byte) error {
	if len(buf) != PageSize {
		return fmt.Errorf("pagefile: buf must be %d bytes, got %d", PageSize, len(buf))
	}
	if id < 0 {
		return fmt.Errorf("pagefile: invalid page id %d", id)
	}

	offset := int64(id) * PageSize
	n, err := pf.f.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return fmt.Errorf("pagefile: read page %d: %w", id, err)
	}
	for i := n; i < PageSize; i++ {
		buf[i] = 0
	}
	return nil
}

// WriteBlock writes buf (exactly PageSize bytes) to page id, growing the
// file implicitly if id is beyond the current end of file.
func (pf *File) WriteBlock(id PageID, buf []byte) error {
	if len(buf) != PageSize {
		return fmt.Errorf("pagefile: buf must be %d bytes, got %d", PageSize, len(buf))
	}
	if id < 0 {
		return fmt.Errorf("pagefile: invalid page id %d", id)
	}

	offset := int64(id) * PageSize
	n, err := pf.f.WriteAt(buf, offset)
	if err != nil {
		return fmt.Errorf("pagefile: write page %d: %w", id, err)
	}
	if n != PageSize {
		return fmt.Errorf("pagefile: short write on page %d: wrote %d of %d bytes", id, n, PageSize)
	}
	if int(id)+1 > pf.pageCount {
		pf.pageCount = int(id) + 1
	}
	return nil
}
