package psxiso

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Sectors rounds size up to the number of whole sectorSize-byte sectors
// needed to hold it.
func Sectors(size, sectorSize uint32) uint32 {
	if sectorSize == 0 {
		sectorSize = SectorSizeForm1
	}
	if size == 0 {
		return 0
	}
	return (size + sectorSize - 1) / sectorSize
}

func roundUpEven(v uint32) uint32 {
	if v%2 != 0 {
		return v + 1
	}
	return v
}

// pair32 returns the ISO9660 "both-endian" representation of v: four
// little-endian bytes followed by four big-endian bytes.
func pair32(v uint32) [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint32(b[0:4], v)
	binary.BigEndian.PutUint32(b[4:8], v)
	return b
}

// pair16 is pair32's 16-bit counterpart.
func pair16(v uint16) [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint16(b[0:2], v)
	binary.BigEndian.PutUint16(b[2:4], v)
	return b
}

// padString space-pads (or truncates) s to exactly length bytes.
func padString(s string, length int) []byte {
	b := make([]byte, length)
	for i := range b {
		b[i] = ' '
	}
	n := len(s)
	if n > length {
		n = length
	}
	copy(b, s[:n])
	return b
}

func uppercasePad(s string, length int) []byte {
	return padString(strings.ToUpper(s), length)
}

// CleanIdentifier strips the ";N" version suffix ISO9660 file identifiers
// carry, for sorting and display.
func CleanIdentifier(id string) string {
	if i := strings.IndexByte(id, ';'); i >= 0 {
		return id[:i]
	}
	return id
}

// SectorsToTimecode renders an LBA as PlayStation MM:SS:FF, with the
// standard 150-frame (2-second) lead-in pregap folded in.
func SectorsToTimecode(lba uint32) string {
	total := lba + 150
	frames := total % 75
	totalSeconds := total / 75
	seconds := totalSeconds % 60
	minutes := totalSeconds / 60
	return fmt.Sprintf("%02d:%02d:%02d", minutes, seconds, frames)
}
