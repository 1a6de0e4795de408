package recordmgr

import (
	"fmt"

	"github.com/riverdb/recordstore/internal/alias/bx"
	"github.com/riverdb/recordstore/internal/pagefile"
	"github.com/riverdb/recordstore/internal/schema"
)

// header is the in-memory form of page 0:
//
//	[0:4)   tupleCount   int32
//	[4:8)   freeListHint int32
//	[8:12)  numAttr      int32
//	[12:16) keySize      int32
//	then numAttr attribute records: 20 bytes name (null-padded) + 4 bytes
//	dataType + 4 bytes typeLength.
//
// Only keySize (the count of key attributes) is persisted, not which
// attribute indices are keys — the on-disk layout has no room for an
// index list, and round-tripping a header only needs
// numAttr/names/dataTypes/typeLengths to survive a write+parse, not
// Keys. openTable reconstructs a Keys slice of length keySize as a
// placeholder (0..keySize-1); no operation in scope consults it.
type header struct {
	tupleCount   int32
	freeListHint int32
	schema       schema.Schema
}

func attrRecordSize() int { return schema.SizeOfAttribute + 4 + 4 }

func headerSize(numAttr int) int {
	return 16 + numAttr*attrRecordSize()
}

func encodeHeader(h header) ([]byte, error) {
	numAttr := h.schema.NumAttr()
	size := headerSize(numAttr)
	if size > pagefile.PageSize {
		return nil, fmt.Errorf("recordmgr: schema header (%d bytes) exceeds page size", size)
	}
	buf := make([]byte, pagefile.PageSize)
	bx.PutU32(buf[0:4], uint32(h.tupleCount))
	bx.PutU32(buf[4:8], uint32(h.freeListHint))
	bx.PutU32(buf[8:12], uint32(numAttr))
	bx.PutU32(buf[12:16], uint32(len(h.schema.Keys)))

	off := 16
	for _, a := range h.schema.Attrs {
		nameBuf := make([]byte, schema.SizeOfAttribute)
		copy(nameBuf, a.Name) // truncates to 20 bytes; shorter names are null-padded
		copy(buf[off:off+schema.SizeOfAttribute], nameBuf)
		off += schema.SizeOfAttribute
		bx.PutU32(buf[off:off+4], uint32(a.Type))
		off += 4
		bx.PutU32(buf[off:off+4], uint32(a.TypeLength))
		off += 4
	}
	return buf, nil
}

func decodeHeader(buf []byte) (header, error) {
	if len(buf) != pagefile.PageSize {
		return header{}, fmt.Errorf("recordmgr: header buffer must be %d bytes", pagefile.PageSize)
	}
	tupleCount := int32(bx.U32(buf[0:4]))
	freeListHint := int32(bx.U32(buf[4:8]))
	numAttr := int(bx.U32(buf[8:12]))
	keySize := int(bx.U32(buf[12:16]))

	if headerSize(numAttr) > len(buf) {
		return header{}, fmt.Errorf("recordmgr: corrupt header: numAttr=%d overruns page", numAttr)
	}

	attrs := make([]schema.Attribute, numAttr)
	off := 16
	for i := 0; i < numAttr; i++ {
		name := cstring(buf[off : off+schema.SizeOfAttribute])
		off += schema.SizeOfAttribute
		dt := schema.DataType(bx.U32(buf[off : off+4]))
		off += 4
		tl := int(bx.U32(buf[off : off+4]))
		off += 4
		attrs[i] = schema.Attribute{Name: name, Type: dt, TypeLength: tl}
	}

	keys := make([]int, keySize)
	for i := range keys {
		keys[i] = i
	}

	return header{
		tupleCount:   tupleCount,
		freeListHint: freeListHint,
		schema:       schema.Schema{Attrs: attrs, Keys: keys},
	}, nil
}

func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
