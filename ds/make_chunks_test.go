package ds

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeChunks(t *testing.T) {
	r := require.New(t)
	r.Equal(
		[][]int{{1, 2}, {3, 4}, {5}},
		MakeChunks([]int{1, 2, 3, 4, 5}, 2),
	)
	r.Equal(
		[][]byte{{0x01, 0x02, 0x03}, {0x04, 0x05, 0x06}},
		MakeChunks([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, 3),
	)
	r.Empty(MakeChunks([]byte{}, 4))
}
