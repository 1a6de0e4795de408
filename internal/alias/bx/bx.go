// Package bx holds the little-endian byte-order helpers the on-disk
// header and record codecs build on: the 32- and 64-bit primitives that
// recordstore's fixed-width header and attribute encoding need.
package bx

import "encoding/binary"

var le = binary.LittleEndian

func U32(b []byte) uint32       { return le.Uint32(b) }
func PutU32(b []byte, v uint32) { le.PutUint32(b, v) }
func U64(b []byte) uint64       { return le.Uint64(b) }
func PutU64(b []byte, v uint64) { le.PutUint64(b, v) }
