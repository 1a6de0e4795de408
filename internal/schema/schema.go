// Package schema holds the pure data consumed by the record manager and
// scan engine: typed attribute descriptors, record allocation, and
// typed get/set access to a record's payload bytes at fixed offsets.
// Every attribute has a fixed, non-null, fixed-size-per-type width —
// there is no variable-length or nullable column here.
package schema

import (
	"bytes"
	"errors"
	"fmt"
)

// DataType enumerates the attribute types a Schema can declare.
type DataType int

const (
	TypeInt DataType = iota
	TypeFloat
	TypeBool
	TypeString
)

func (t DataType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeFloat:
		return "FLOAT"
	case TypeBool:
		return "BOOL"
	case TypeString:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}

// SizeOfAttribute is the fixed width of a packed attribute name in the
// on-disk header: 20 bytes, null-padded.
const SizeOfAttribute = 20

var (
	ErrUnknownDataType = errors.New("schema: unknown data type")
	ErrBadAttrNum      = errors.New("schema: bad attribute number")
	ErrNullArgument    = errors.New("schema: null argument")
	ErrSchemaMismatch  = errors.New("schema: value does not match attribute type")
)

// Attribute describes one column: its name, type, and (for STRING) the
// fixed length n.
type Attribute struct {
	Name       string
	Type       DataType
	TypeLength int // n for STRING, 0 otherwise
}

// Size returns the attribute's byte width on the page, or -1 if Type is
// not one of the known DataType values.
func (a Attribute) Size() int {
	switch a.Type {
	case TypeInt:
		return 4
	case TypeFloat:
		return 8
	case TypeBool:
		return 1
	case TypeString:
		return a.TypeLength
	default:
		return -1
	}
}

// Schema is an ordered list of attributes plus the index list of the
// attributes that make up the table's key.
type Schema struct {
	Attrs []Attribute
	Keys  []int
}

// NumAttr returns the number of attributes.
func (s Schema) NumAttr() int { return len(s.Attrs) }

// CreateSchema packages the given columns into a Schema. keys must be
// non-empty: every table declares at least one key attribute, even
// though the record manager itself never enforces uniqueness — key
// columns are carried through the header for a future index layer, not
// consulted by any operation in scope here.
func CreateSchema(names []string, types []DataType, lengths []int, keys []int) (*Schema, error) {
	if len(names) != len(types) || len(names) != len(lengths) {
		return nil, fmt.Errorf("schema: names/types/lengths length mismatch")
	}
	if len(keys) <= 0 {
		return nil, fmt.Errorf("schema: keySize must be > 0")
	}

	attrs := make([]Attribute, len(names))
	for i := range names {
		attrs[i] = Attribute{Name: names[i], Type: types[i], TypeLength: lengths[i]}
	}
	return &Schema{Attrs: attrs, Keys: append([]int(nil), keys...)}, nil
}

// GetRecordSize returns 1 (status marker) plus the sum of every
// attribute's size, or -1 if any attribute has an unknown type.
func GetRecordSize(s *Schema) int {
	total := 1
	for _, a := range s.Attrs {
		sz := a.Size()
		if sz < 0 {
			return -1
		}
		total += sz
	}
	return total
}

// AttrOffset returns the byte offset of attribute attrNum within a
// record's payload: 1 (skipping the marker) plus the sum of the sizes
// of attributes 0..attrNum-1. attrNum == NumAttr() is valid and yields
// GetRecordSize(s).
func AttrOffset(s *Schema, attrNum int) (int, error) {
	if s == nil {
		return 0, ErrNullArgument
	}
	if attrNum < 0 || attrNum > s.NumAttr() {
		return 0, ErrBadAttrNum
	}
	off := 1
	for i := 0; i < attrNum; i++ {
		sz := s.Attrs[i].Size()
		if sz < 0 {
			return 0, ErrUnknownDataType
		}
		off += sz
	}
	return off, nil
}

// Record is an RID plus a byte buffer of length GetRecordSize(schema).
// The leading byte is the slot status marker; payload follows at fixed
// offsets in attribute declaration order.
type Record struct {
	ID   RID
	Data []byte
}

// RID (Record Identifier) pairs a page number (>=1; page 0 is the
// schema header) with a slot index (>=0) within that page.
type RID struct {
	Page int32
	Slot int32
}

// NoRID is the sentinel identifier for a record not yet assigned a
// location, e.g. one just allocated by CreateRecord.
var NoRID = RID{Page: -1, Slot: -1}

// CreateRecord allocates a payload buffer sized for schema, sets the
// marker byte to the free sentinel, and assigns NoRID.
func CreateRecord(s *Schema) (*Record, error) {
	if s == nil {
		return nil, ErrNullArgument
	}
	size := GetRecordSize(s)
	if size < 0 {
		return nil, ErrUnknownDataType
	}
	data := make([]byte, size)
	data[0] = '-'
	return &Record{ID: NoRID, Data: data}, nil
}

// GetAttr reads the typed attribute at attrNum from rec's payload.
// STRING values are returned with their content cut at the first null
// byte (or the full TypeLength if there is none), treating the stored
// bytes as a null-terminated string.
func GetAttr(rec *Record, s *Schema, attrNum int) (any, error) {
	if rec == nil || s == nil {
		return nil, ErrNullArgument
	}
	if attrNum < 0 {
		return nil, ErrBadAttrNum
	}
	off, err := AttrOffset(s, attrNum)
	if err != nil {
		return nil, err
	}
	a := s.Attrs[attrNum]
	switch a.Type {
	case TypeInt:
		return int32(le32(rec.Data[off : off+4])), nil
	case TypeFloat:
		return bitsToFloat64(le64(rec.Data[off : off+8])), nil
	case TypeBool:
		return rec.Data[off] != 0, nil
	case TypeString:
		raw := rec.Data[off : off+a.TypeLength]
		if i := bytes.IndexByte(raw, 0); i >= 0 {
			return string(raw[:i]), nil
		}
		return string(raw), nil
	default:
		return nil, ErrUnknownDataType
	}
}

// SetAttr writes value into rec's payload at attrNum's offset. STRING
// writes copy exactly TypeLength bytes: a shorter string is left
// zero-padded, a longer one is truncated.
func SetAttr(rec *Record, s *Schema, attrNum int, value any) error {
	if rec == nil || s == nil {
		return ErrNullArgument
	}
	if attrNum < 0 {
		return ErrBadAttrNum
	}
	off, err := AttrOffset(s, attrNum)
	if err != nil {
		return err
	}
	a := s.Attrs[attrNum]
	switch a.Type {
	case TypeInt:
		v, ok := asInt32(value)
		if !ok {
			return ErrSchemaMismatch
		}
		putLE32(rec.Data[off:off+4], uint32(v))
	case TypeFloat:
		v, ok := asFloat64(value)
		if !ok {
			return ErrSchemaMismatch
		}
		putLE64(rec.Data[off:off+8], floatToBits64(v))
	case TypeBool:
		v, ok := value.(bool)
		if !ok {
			return ErrSchemaMismatch
		}
		if v {
			rec.Data[off] = 1
		} else {
			rec.Data[off] = 0
		}
	case TypeString:
		v, ok := value.(string)
		if !ok {
			return ErrSchemaMismatch
		}
		buf := rec.Data[off : off+a.TypeLength]
		for i := range buf {
			buf[i] = 0
		}
		copy(buf, v)
	default:
		return ErrUnknownDataType
	}
	return nil
}
