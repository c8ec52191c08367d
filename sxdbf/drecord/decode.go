package drecord

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"sxtool/ds"
	"sxtool/sxdbf/dheader"
)

// decodeText converts one cell's raw bytes to a string through the
// table's code page decoder, trimming the trailing space and NUL
// padding. A nil decoder, or bytes the decoder chokes on, fall back to
// Latin-1 so the conversion never fails.
func decodeText(bs []byte, decoder *encoding.Decoder) string {
	if decoder == nil {
		decoder = charmap.ISO8859_1.NewDecoder()
	}
	decoded, err := decoder.Bytes(bs)
	if err != nil {
		decoded, _ = charmap.ISO8859_1.NewDecoder().Bytes(bs)
	}
	return strings.TrimRight(string(decoded), "\x00 ")
}

func decodeNumeric(raw string, field dheader.Field) (Value, *Issue) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return none(), nil
	}
	if field.DecimalPlaces > 0 {
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return none(), &Issue{FieldName: field.Name, Reason: `"` + trimmed + `" is not a decimal number`}
		}
		return Value{Type: DataTypeDecimal, Data: parsed}, nil
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return none(), &Issue{FieldName: field.Name, Reason: `"` + trimmed + `" is not an integer`}
	}
	return Value{Type: DataTypeInteger, Data: parsed}, nil
}

func decodeFloat(raw string, field dheader.Field) (Value, *Issue) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return none(), nil
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return none(), &Issue{FieldName: field.Name, Reason: `"` + trimmed + `" is not a floating point number`}
	}
	return Value{Type: DataTypeFloat, Data: parsed}, nil
}

func decodeLogical(bs []byte, field dheader.Field) (Value, *Issue) {
	if len(bs) == 0 {
		return none(), nil
	}
	switch bs[0] {
	case 'T', 't', 'Y', 'y':
		return Value{Type: DataTypeLogical, Data: true}, nil
	case 'F', 'f', 'N', 'n':
		return Value{Type: DataTypeLogical, Data: false}, nil
	case '?', ' ', 0:
		return none(), nil
	}
	return none(), &Issue{FieldName: field.Name, Reason: `"` + string(bs[0]) + `" is not a logical marker`}
}

func decodeDate(raw string, field dheader.Field) (Value, *Issue) {
	trimmed := strings.TrimSpace(strings.TrimRight(raw, "\x00"))
	if trimmed == "" {
		return none(), nil
	}
	if len(trimmed) != 8 {
		return none(), &Issue{FieldName: field.Name, Reason: `"` + trimmed + `" is not an 8 digit date`}
	}
	for _, c := range trimmed {
		if c < '0' || c > '9' {
			return none(), &Issue{FieldName: field.Name, Reason: `"` + trimmed + `" is not an 8 digit date`}
		}
	}
	year, _ := strconv.Atoi(trimmed[0:4])
	month, _ := strconv.Atoi(trimmed[4:6])
	day, _ := strconv.Atoi(trimmed[6:8])
	return Value{
		Type: DataTypeDate,
		Data: dheader.Date{Year: year, Month: month, Day: day},
	}, nil
}

func decodeCell(bs []byte, field dheader.Field, decoder *encoding.Decoder) (Value, *Issue) {
	switch field.Type {
	case 'N':
		return decodeNumeric(string(bs), field)
	case 'F':
		return decodeFloat(string(bs), field)
	case 'L':
		return decodeLogical(bs, field)
	case 'D':
		return decodeDate(string(bs), field)
	case 'M':
		return Value{Type: DataTypeMemo, Data: strings.TrimSpace(decodeText(bs, decoder))}, nil
	case 'C':
		return text(decodeText(bs, decoder)), nil
	}
	// unknown type bytes are carried as character data
	return text(decodeText(bs, decoder)), nil
}

func decodeOne(raw []byte, fields []dheader.Field, decoder *encoding.Decoder) Record {
	record := Record{
		Raw: append([]byte{}, raw...),
	}
	if len(raw) > 0 && raw[0] == MarkerDeleted {
		record.Deleted = true
		return record
	}
	record.Values = make([]FieldValue, 0, len(fields))
	lo.ForEach(
		fields,
		func(field dheader.Field, _ int) {
			cell := raw[field.Offset : field.Offset+int(field.Length)]
			value, issue := decodeCell(cell, field, decoder)
			record.Values = append(record.Values, FieldValue{Name: field.Name, Value: value})
			if issue != nil {
				record.Issues = append(record.Issues, *issue)
			}
		},
	)
	return record
}

// DecodeRecord decodes the record at index out of a plain payload.
// Cells of type N, F, D, and L that fail to parse come back as none
// values with an annotation in Issues; only an index outside
// [0, RecordCount) or a truncated payload is an error.
func DecodeRecord(
	payload []byte,
	header dheader.Header,
	fields []dheader.Field,
	index int,
	decoder *encoding.Decoder,
) (*Record, error) {
	if index < 0 || index >= int(header.RecordCount) {
		return nil, ErrIndexOutOfRange{Index: index, RecordCount: int(header.RecordCount)}
	}
	start := index * int(header.RecordLength)
	end := start + int(header.RecordLength)
	if len(payload) < end {
		return nil, errors.Errorf(
			"DecodeRecord error: payload holds %d bytes, record %d ends at %d",
			len(payload), index, end,
		)
	}
	record := decodeOne(payload[start:end], fields, decoder)
	return &record, nil
}

// DecodeAll walks the payload record by record and decodes every row.
func DecodeAll(
	payload []byte,
	header dheader.Header,
	fields []dheader.Field,
	decoder *encoding.Decoder,
) ([]Record, error) {
	need := int(header.RecordCount) * int(header.RecordLength)
	if len(payload) < need {
		return nil, errors.Errorf(
			"DecodeAll error: payload holds %d bytes, %d records of %d bytes need %d",
			len(payload), header.RecordCount, header.RecordLength, need,
		)
	}
	chunks := ds.MakeChunks(payload[:need], int(header.RecordLength))
	records := lo.Map(
		chunks,
		func(chunk []byte, _ int) Record {
			return decodeOne(chunk, fields, decoder)
		},
	)
	return records, nil
}
