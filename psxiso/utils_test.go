package psxiso

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectors(t *testing.T) {
	assert.Equal(t, uint32(0), Sectors(0, SectorSizeForm1))
	assert.Equal(t, uint32(1), Sectors(1, SectorSizeForm1))
	assert.Equal(t, uint32(1), Sectors(2048, SectorSizeForm1))
	assert.Equal(t, uint32(2), Sectors(2049, SectorSizeForm1))
	assert.Equal(t, uint32(2), Sectors(3000, SectorSizeForm1))
}

func TestPair32RoundTrip(t *testing.T) {
	b := pair32(0x01020304)
	require.Len(t, b, 8)
	le := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	be := uint32(b[7]) | uint32(b[6])<<8 | uint32(b[5])<<16 | uint32(b[4])<<24
	assert.Equal(t, uint32(0x01020304), le)
	assert.Equal(t, uint32(0x01020304), be)
}

func TestPair16RoundTrip(t *testing.T) {
	b := pair16(0xABCD)
	le := uint16(b[0]) | uint16(b[1])<<8
	be := uint16(b[3]) | uint16(b[2])<<8
	assert.Equal(t, uint16(0xABCD), le)
	assert.Equal(t, uint16(0xABCD), be)
}

func TestCleanIdentifier(t *testing.T) {
	assert.Equal(t, "HELLO.BIN", CleanIdentifier("HELLO.BIN;1"))
	assert.Equal(t, "SUBDIR", CleanIdentifier("SUBDIR"))
	assert.Equal(t, "", CleanIdentifier(""))
}

func TestSectorsToTimecode(t *testing.T) {
	// LBA 0 sits 150 frames (2 seconds) into the disc.
	assert.Equal(t, "00:02:00", SectorsToTimecode(0))
	assert.Equal(t, "00:02:01", SectorsToTimecode(1))
}

func TestPadString(t *testing.T) {
	b := padString("HI", 5)
	assert.Equal(t, []byte("HI   "), b)

	b = padString("TOOLONGNAME", 4)
	assert.Equal(t, []byte("TOOL"), b)
}

func TestUppercasePad(t *testing.T) {
	assert.Equal(t, []byte("ABC  "), uppercasePad("abc", 5))
}
