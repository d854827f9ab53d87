package ot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildKernFormat0(pairs [][3]int16) []byte {
	n := len(pairs)
	b := make([]byte, 18+6*n)
	putU16 := func(off int, v uint16) { b[off] = byte(v >> 8); b[off+1] = byte(v) }
	putU16(0, 0) // version
	putU16(2, 1) // nTables
	// subtable header
	putU16(4, 0)                      // subtable version
	putU16(6, uint16(6+6*n+8))         // length (subtable header 6 + format0 header 8 + pairs)
	putU16(8, 0<<8)                   // coverage: format 0 in high byte
	putU16(10, uint16(n))
	pos := 18
	for _, p := range pairs {
		putU16(pos, uint16(p[0]))
		putU16(pos+2, uint16(p[1]))
		putU16(pos+4, uint16(p[2]))
		pos += 6
	}
	return b
}

func TestParseKernFormat0(t *testing.T) {
	b := buildKernFormat0([][3]int16{{5, 6, -50}, {7, 8, 30}})
	kt, err := parseKern(b)
	assert.NoError(t, err)
	assert.Equal(t, int16(-50), kt.Lookup(5, 6))
	assert.Equal(t, int16(30), kt.Lookup(7, 8))
	assert.Equal(t, int16(0), kt.Lookup(1, 2))
}
