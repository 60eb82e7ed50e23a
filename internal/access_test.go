package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		Offset uint32
		Width  int
		Value  uint32
	}){
		{Offset: 0, Width: 1, Value: 0x44},
		{Offset: 1, Width: 1, Value: 0x33},
		{Offset: 2, Width: 1, Value: 0x22},
		{Offset: 3, Width: 1, Value: 0x11},
		{Offset: 0, Width: 2, Value: 0x3344},
		{Offset: 2, Width: 2, Value: 0x1122},
		{Offset: 0, Width: 4, Value: 0x11223344},
		{Offset: 0, Width: 3, Value: 0},
	}

	for _, tc := range table {
		assert.Equal(tc.Value, Extract(0x11223344, tc.Offset, tc.Width), "%+v", tc)
	}
}

func TestInsert(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint32(0x112233aa), Insert(0x11223344, 0, 0xaa, 1))
	assert.Equal(uint32(0xaa223344), Insert(0x11223344, 3, 0xaa, 1))
	assert.Equal(uint32(0xbeef3344), Insert(0x11223344, 2, 0xbeef, 2))
	assert.Equal(uint32(0x1122beef), Insert(0x11223344, 0, 0x1beef, 2))
	assert.Equal(uint32(0xcafef00d), Insert(0x11223344, 0, 0xcafef00d, 4))
	assert.Equal(uint32(0x11223344), Insert(0x11223344, 0, 0xcafef00d, 3))
}

func TestValidWidth(t *testing.T) {
	assert := assert.New(t)

	assert.True(ValidWidth(1))
	assert.True(ValidWidth(2))
	assert.True(ValidWidth(4))
	assert.False(ValidWidth(0))
	assert.False(ValidWidth(3))
	assert.False(ValidWidth(8))
}

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]string{"A": "1"}
	b := map[string]string{"B": "2", "C": "3"}

	got := map[string]string{}
	for k, v := range IterSeq2Concat(maps.All(a), maps.All(b)) {
		got[k] = v
	}
	assert.Equal(map[string]string{"A": "1", "B": "2", "C": "3"}, got)

	// Stops when the consumer does.
	count := 0
	for range IterSeq2Concat(maps.All(a), maps.All(b)) {
		count++
		break
	}
	assert.Equal(1, count)
}
