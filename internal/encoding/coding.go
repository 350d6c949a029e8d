// Package encoding provides the fixed-width binary encoding primitives the
// block and SST wire formats build on.
//
// All multi-byte integers are encoded big-endian. Every length field in
// this repo's on-disk formats is a u16 or u32; there is no varint encoding
// here because the format never carries a value wide enough to need one.
package encoding

import "encoding/binary"

// EncodeFixed16 encodes a uint16 into a 2-byte big-endian buffer.
// REQUIRES: dst has at least 2 bytes.
func EncodeFixed16(dst []byte, value uint16) {
	binary.BigEndian.PutUint16(dst, value)
}

// DecodeFixed16 decodes a uint16 from a 2-byte big-endian buffer.
// REQUIRES: src has at least 2 bytes.
func DecodeFixed16(src []byte) uint16 {
	return binary.BigEndian.Uint16(src)
}

// EncodeFixed32 encodes a uint32 into a 4-byte big-endian buffer.
// REQUIRES: dst has at least 4 bytes.
func EncodeFixed32(dst []byte, value uint32) {
	binary.BigEndian.PutUint32(dst, value)
}

// DecodeFixed32 decodes a uint32 from a 4-byte big-endian buffer.
// REQUIRES: src has at least 4 bytes.
func DecodeFixed32(src []byte) uint32 {
	return binary.BigEndian.Uint32(src)
}

// AppendFixed16 appends a big-endian uint16 to dst and returns the extended slice.
func AppendFixed16(dst []byte, value uint16) []byte {
	return binary.BigEndian.AppendUint16(dst, value)
}

// AppendFixed32 appends a big-endian uint32 to dst and returns the extended slice.
func AppendFixed32(dst []byte, value uint32) []byte {
	return binary.BigEndian.AppendUint32(dst, value)
}
