package sxdbf

import (
	"sxtool/sxdbf/dheader"
	"sxtool/sxdbf/drecord"
)

type (
	Mode string
	// Result bundles everything one Transform call produced. Bytes is
	// a fresh buffer; the caller's input is never aliased or mutated.
	// Records is only populated on the decrypt path when record
	// decoding was asked for.
	Result struct {
		Bytes   []byte           `json:"-"`
		Header  *dheader.Header  `json:"header"`
		Fields  []dheader.Field  `json:"fields"`
		Records []drecord.Record `json:"records,omitempty"`
		Status  string           `json:"status"`
	}
)

const (
	ModeDecrypt = Mode("decrypt")
	ModeEncrypt = Mode("encrypt")
)
