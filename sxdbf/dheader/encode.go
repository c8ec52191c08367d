package dheader

import (
	"encoding/binary"
)

// EncodeDate reverses the pivot convention of DecodeDate: years from
// 1980 up to 1999 are stored as year - 1900, years from 2000 as
// year - 2000.
func EncodeDate(date Date) (yearByte, month, day byte) {
	year := date.Year - 2000
	if date.Year < 2000 {
		year = date.Year - 1900
	}
	return byte(year), byte(date.Month), byte(date.Day)
}

// PatchStatusByte overwrites the table status marker at offset 0.
func PatchStatusByte(bs []byte, value byte) {
	bs[0] = value
}

// PatchHeader writes the scalar header fields back into bs in place.
// Reserved bytes, the MDX flag, the descriptors, and everything past
// the header are carried through untouched.
func PatchHeader(bs []byte, header Header) error {
	if len(bs) < BaseSize {
		return ErrMalformed{Reason: "buffer is shorter than the base header"}
	}
	yearByte, month, day := EncodeDate(header.LastUpdate)
	bs[0] = header.StatusByte
	bs[1] = yearByte
	bs[2] = month
	bs[3] = day
	binary.LittleEndian.PutUint32(bs[4:8], header.RecordCount)
	binary.LittleEndian.PutUint16(bs[8:10], header.HeaderLength)
	binary.LittleEndian.PutUint16(bs[10:12], header.RecordLength)
	bs[29] = header.LanguageDriver
	return nil
}

// PayloadSlice returns the record payload range
// [HeaderLength, HeaderLength + RecordCount*RecordLength). The slice
// aliases bs; callers that mutate it get in-place payload mutation.
func PayloadSlice(bs []byte, header Header) ([]byte, error) {
	start := int(header.HeaderLength)
	end := start + int(header.RecordCount)*int(header.RecordLength)
	if len(bs) < end {
		return nil, ErrPayloadOutOfRange{Need: end, Have: len(bs)}
	}
	return bs[start:end], nil
}

// ReplacePayload returns a new buffer equal to bs except that the
// record payload range holds payload. Trailing bytes after the
// payload, the EOF marker included, are preserved byte for byte.
func ReplacePayload(bs []byte, payload []byte, header Header) ([]byte, error) {
	current, err := PayloadSlice(bs, header)
	if err != nil {
		return nil, err
	}
	if len(payload) != len(current) {
		return nil, ErrReplaceSizeMismatch{Want: len(current), Got: len(payload)}
	}
	result := make([]byte, len(bs))
	copy(result, bs)
	copy(result[int(header.HeaderLength):], payload)
	return result, nil
}
