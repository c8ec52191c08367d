package lbytes

import (
	"bytes"
)

type (
	Reader struct {
		bytes.Reader
	}
	ReadFunction func() (any, error)
	Instruction  struct {
		Key          string
		ReadFunction ReadFunction
	}
)
