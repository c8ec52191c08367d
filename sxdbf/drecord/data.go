package drecord

import (
	"github.com/iancoleman/orderedmap"
	"github.com/samber/lo"
)

type (
	DataType string
	// Value is one decoded cell. Data holds the Go value that matches
	// the type tag: string for text and memo pointers, int64 for
	// integers, float64 for decimals and floats, bool for logicals,
	// dheader.Date for dates, and nil for none.
	Value struct {
		Type DataType `json:"type"`
		Data any      `json:"data"`
	}
	FieldValue struct {
		Name  string `json:"name"`
		Value Value  `json:"value"`
	}
	// Issue annotates a cell whose bytes did not parse as the declared
	// field type. The cell itself comes back as none; an issue is never
	// an error.
	Issue struct {
		FieldName string `json:"field_name"`
		Reason    string `json:"reason"`
	}
	// Record is one decoded row. Deleted rows keep their raw bytes but
	// carry no values, which keeps them apart from a live row whose
	// fields are all blank.
	Record struct {
		Deleted bool         `json:"deleted"`
		Raw     []byte       `json:"raw"`
		Values  []FieldValue `json:"values"`
		Issues  []Issue      `json:"issues"`
	}
)

const (
	DataTypeText    = DataType("text")
	DataTypeInteger = DataType("integer")
	DataTypeDecimal = DataType("decimal")
	DataTypeFloat   = DataType("float")
	DataTypeLogical = DataType("logical")
	DataTypeDate    = DataType("date")
	DataTypeMemo    = DataType("memo")
	DataTypeNone    = DataType("none")
)

const (
	MarkerLive    = byte(0x20)
	MarkerDeleted = byte(0x2A)
)

// ToLinkedHashMap flattens a record into an ordered field name to
// plain value map, keeping the column order of the table. Deleted rows
// come back as a map with the single "_deleted" entry.
func (record Record) ToLinkedHashMap() *orderedmap.OrderedMap {
	lhm := orderedmap.New()
	if record.Deleted {
		lhm.Set("_deleted", true)
		return lhm
	}
	lo.ForEach(
		record.Values,
		func(fieldValue FieldValue, _ int) {
			lhm.Set(fieldValue.Name, fieldValue.Value.Data)
		},
	)
	return lhm
}

func none() Value {
	return Value{Type: DataTypeNone, Data: nil}
}

func text(s string) Value {
	return Value{Type: DataTypeText, Data: s}
}
