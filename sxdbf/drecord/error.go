package drecord

import (
	"fmt"
)

type (
	ErrIndexOutOfRange struct {
		Index       int
		RecordCount int
	}
)

func (r ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("record index %d out of range: table holds %d records", r.Index, r.RecordCount)
}
