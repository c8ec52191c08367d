package dheader

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"sxtool/sxdbf/lbytes"
)

type (
	// rawHeader mirrors the wire layout of the 32 byte base header;
	// Decode lifts it into Header afterwards.
	rawHeader struct {
		StatusByte     uint8  `json:"status_byte"`
		YearByte       uint8  `json:"year_byte"`
		Month          uint8  `json:"month"`
		Day            uint8  `json:"day"`
		RecordCount    uint32 `json:"record_count"`
		HeaderLength   uint16 `json:"header_length"`
		RecordLength   uint16 `json:"record_length"`
		Reserved       []byte `json:"reserved"`
		MDXFlag        uint8  `json:"mdx_flag"`
		LanguageDriver uint8  `json:"language_driver"`
		Reserved2      []byte `json:"reserved_2"`
	}
	rawField struct {
		Name          string `json:"name"`
		Type          uint8  `json:"type"`
		Reserved      []byte `json:"reserved"`
		Length        uint8  `json:"length"`
		DecimalPlaces uint8  `json:"decimal_places"`
		Reserved2     []byte `json:"reserved_2"`
	}
)

func decodeBase(bs []byte) (*rawHeader, error) {
	reader := lbytes.NewBytesReader(bs)
	readByte := lbytes.CreateUint8ReadFunction(reader)

	headerInstructions := []lbytes.Instruction{
		{Key: "status_byte", ReadFunction: readByte},
		{Key: "year_byte", ReadFunction: readByte},
		{Key: "month", ReadFunction: readByte},
		{Key: "day", ReadFunction: readByte},
		{Key: "record_count", ReadFunction: lbytes.CreateUint32ReadFunction(reader)},
		{Key: "header_length", ReadFunction: lbytes.CreateUint16ReadFunction(reader)},
		{Key: "record_length", ReadFunction: lbytes.CreateUint16ReadFunction(reader)},
		{Key: "reserved", ReadFunction: lbytes.CreateNBytesReadFunction(reader, 16)},
		{Key: "mdx_flag", ReadFunction: readByte},
		{Key: "language_driver", ReadFunction: readByte},
		{Key: "reserved_2", ReadFunction: lbytes.CreateNBytesReadFunction(reader, 2)},
	}

	raw, err := lbytes.ExecuteInstructions[rawHeader](headerInstructions)
	if err != nil {
		return nil, errors.Wrap(err, "decodeBase error")
	}
	return raw, nil
}

func decodeDescriptor(bs []byte) (*Field, error) {
	reader := lbytes.NewBytesReader(bs)

	fieldInstructions := []lbytes.Instruction{
		{Key: "name", ReadFunction: lbytes.CreateTrimmedStringReadFunction(reader, 11)},
		{Key: "type", ReadFunction: lbytes.CreateUint8ReadFunction(reader)},
		{Key: "reserved", ReadFunction: lbytes.CreateNBytesReadFunction(reader, 4)},
		{Key: "length", ReadFunction: lbytes.CreateUint8ReadFunction(reader)},
		{Key: "decimal_places", ReadFunction: lbytes.CreateUint8ReadFunction(reader)},
		{Key: "reserved_2", ReadFunction: lbytes.CreateNBytesReadFunction(reader, 14)},
	}

	raw, err := lbytes.ExecuteInstructions[rawField](fieldInstructions)
	if err != nil {
		return nil, errors.Wrap(err, "decodeDescriptor error")
	}
	return &Field{
		Name:          raw.Name,
		Type:          raw.Type,
		Length:        raw.Length,
		DecimalPlaces: raw.DecimalPlaces,
	}, nil
}

// DecodeDate applies the pivot convention of the last update stamp:
// stored values of 80 and above count from 1900, the rest from 2000.
func DecodeDate(yearByte, month, day byte) Date {
	year := 2000 + int(yearByte)
	if yearByte >= 80 {
		year = 1900 + int(yearByte)
	}
	return Date{Year: year, Month: int(month), Day: int(day)}
}

// Decode parses the base header and the field descriptor array out of
// a whole-file buffer. The buffer is only read, never retained.
func Decode(bs []byte) (*Header, []Field, error) {
	if len(bs) < BaseSize {
		return nil, nil, ErrMalformed{Reason: fmt.Sprintf("buffer holds %d bytes, need at least %d", len(bs), BaseSize)}
	}

	raw, err := decodeBase(bs)
	if err != nil {
		return nil, nil, errors.Wrap(err, "dheader.Decode error")
	}
	if raw.HeaderLength < BaseSize+1 {
		return nil, nil, ErrMalformed{Reason: fmt.Sprintf("header length %d leaves no room for the terminator", raw.HeaderLength)}
	}
	if raw.RecordLength == 0 {
		return nil, nil, ErrMalformed{Reason: "record length is zero"}
	}
	if len(bs) < int(raw.HeaderLength) {
		return nil, nil, ErrMalformed{Reason: fmt.Sprintf("buffer holds %d bytes, header claims %d", len(bs), raw.HeaderLength)}
	}

	header := Header{
		StatusByte:     raw.StatusByte,
		LastUpdate:     DecodeDate(raw.YearByte, raw.Month, raw.Day),
		RecordCount:    raw.RecordCount,
		HeaderLength:   raw.HeaderLength,
		RecordLength:   raw.RecordLength,
		LanguageDriver: raw.LanguageDriver,
	}

	fields := make([]Field, 0, (int(raw.HeaderLength)-BaseSize-1)/DescriptorSize)
	offset := BaseSize
	fieldOffset := 1
	terminated := false
	for offset < int(raw.HeaderLength) {
		if bs[offset] == Terminator {
			terminated = true
			break
		}
		if offset+DescriptorSize > int(raw.HeaderLength)-1 {
			break
		}
		field, err := decodeDescriptor(bs[offset : offset+DescriptorSize])
		if err != nil {
			return nil, nil, errors.Wrapf(err, "dheader.Decode error: descriptor %d", len(fields))
		}
		field.Offset = fieldOffset
		fieldOffset += int(field.Length)
		fields = append(fields, *field)
		offset += DescriptorSize
	}
	if !terminated {
		return nil, nil, ErrMalformed{Reason: "field descriptors are not terminated with 0x0D"}
	}

	widths := 1 + lo.Reduce(
		fields,
		func(sum int, field Field, _ int) int {
			return sum + int(field.Length)
		},
		0,
	)
	if widths != int(raw.RecordLength) {
		return nil, nil, ErrMalformed{
			Reason: fmt.Sprintf("field widths sum to %d, record length is %d", widths, raw.RecordLength),
		}
	}

	return &header, fields, nil
}
