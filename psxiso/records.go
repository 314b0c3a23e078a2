package psxiso

import (
	"encoding/binary"
	"fmt"
	"os"
)

func dirRecordFlags(kind Kind, hidden bool) byte {
	var f byte
	if kind == KindDirectory {
		f |= 0x02
	}
	if hidden {
		f |= 0x01
	}
	return f
}

// entryExtentLength is the directory-record "data length" field for an
// entry: its file size rounded up to whatever sector geometry its kind
// uses, re-expressed in 2048-byte units (ISO9660 always reports extent
// lengths this way, even for entries whose real per-sector payload is
// smaller, like XA streams).
func entryExtentLength(store *EntryStore, idx int, cfg *Config) uint32 {
	e := store.Entry(idx)
	switch e.Kind {
	case KindXA:
		return SectorSizeForm1 * Sectors(e.Length, SectorSizeForm2)
	case KindXADataOnly:
		return SectorSizeForm1 * Sectors(e.Length, SectorSizeForm1)
	case KindCDDATrack:
		return SectorSizeForm1 * Sectors(e.Length, CDSectorSize)
	case KindDirectory:
		return dirEntryLen(store, idx, cfg)
	default:
		return e.Length
	}
}

// xaAttributeWord is the 16-bit XA attribute value baked into each
// entry's extended attribute block.
func xaAttributeWord(e *Entry) uint16 {
	switch e.Kind {
	case KindCDDATrack:
		return e.XAPerm | 0x4000
	case KindDirectory:
		return e.XAPerm | 0x8800
	case KindXA:
		if e.XAAttrib != 0xFF {
			return e.XAPerm | (uint16(e.XAAttrib) << 8)
		}
		return e.XAPerm | 0x3800
	default: // KindFile, KindXADataOnly, KindDummy
		return e.XAPerm | 0x0800
	}
}

// xaFilenum reads the first byte of an XA source to use as its XA file
// number, per mkpsxiso convention; anything unreadable or zero falls back
// to 1.
func xaFilenum(e *Entry) byte {
	if e.Kind != KindXA || e.SrcPath == "" {
		return 1
	}
	f, err := os.Open(e.SrcPath)
	if err != nil {
		return 1
	}
	defer f.Close()
	var b [1]byte
	if _, err := f.Read(b[:]); err != nil {
		return 1
	}
	if b[0] < 1 {
		return 1
	}
	return b[0]
}

// marshalDirRecord renders one directory-record byte slice, XA extended
// attribute block included when cfg.XAEnabled.
func marshalDirRecord(cfg *Config, lba, length uint32, date DateStamp, kind Kind, hidden bool, xaSource *Entry, idBytes []byte) []byte {
	base := roundUpEven(uint32(dirRecordFixedSize) + uint32(len(idBytes)))
	total := base
	if cfg.XAEnabled() {
		total += xaAttribSize
	}

	buf := make([]byte, total)
	buf[0] = byte(total)
	buf[1] = 0

	off := pair32(lba)
	copy(buf[2:10], off[:])
	sz := pair32(length)
	copy(buf[10:18], sz[:])

	d := date.marshal()
	copy(buf[18:25], d[:])

	buf[25] = dirRecordFlags(kind, hidden)
	buf[26] = 0
	buf[27] = 0

	vsn := pair16(1)
	copy(buf[28:32], vsn[:])

	buf[32] = byte(len(idBytes))
	copy(buf[33:], idBytes)

	if cfg.XAEnabled() {
		xa := buf[base : base+xaAttribSize]
		binary.BigEndian.PutUint16(xa[0:2], xaSource.GID)
		binary.BigEndian.PutUint16(xa[2:4], xaSource.UID)
		binary.BigEndian.PutUint16(xa[4:6], xaAttributeWord(xaSource))
		xa[6] = 'X'
		xa[7] = 'A'
		xa[8] = xaFilenum(xaSource)
	}
	return buf
}

// buildDirectoryListing renders a complete directory's record extent:
// the self ("\x00") and parent ("\x01") records first, then one record
// per named child, honoring the rule that no record may straddle a
// 2048-byte sector boundary — when one would, the write position advances
// to the next sector first, leaving a zero-padded gap.
func buildDirectoryListing(cfg *Config, store *EntryStore, dirIdx int) ([]byte, error) {
	dir := store.Entry(dirIdx)
	parentIdx := dir.Parent
	if parentIdx < 0 {
		parentIdx = dirIdx
	}
	parent := store.Entry(parentIdx)

	extentSize := dirEntryLen(store, dirIdx, cfg)
	buf := make([]byte, extentSize)
	pos := uint32(0)

	write := func(record []byte) error {
		entryLen := uint32(len(record))
		if entryLen > SectorSizeForm1 {
			return ErrSectorOverflow
		}
		if (pos%SectorSizeForm1)+entryLen > SectorSizeForm1 {
			pos = Sectors(pos, SectorSizeForm1) * SectorSizeForm1
		}
		if pos+entryLen > extentSize {
			return ErrSectorOverflow
		}
		copy(buf[pos:pos+entryLen], record)
		pos += entryLen
		return nil
	}

	selfLen := entryExtentLength(store, dirIdx, cfg)
	if err := write(marshalDirRecord(cfg, dir.LBA, selfLen, dir.Date, KindDirectory, false, dir, []byte{0x00})); err != nil {
		return nil, fmt.Errorf("psxiso: directory %q self record: %w", dir.ID, err)
	}

	parentLen := entryExtentLength(store, parentIdx, cfg)
	if err := write(marshalDirRecord(cfg, parent.LBA, parentLen, parent.Date, KindDirectory, false, parent, []byte{0x01})); err != nil {
		return nil, fmt.Errorf("psxiso: directory %q parent record: %w", dir.ID, err)
	}

	for _, ci := range dir.Children {
		ce := store.Entry(ci)
		if ce.ID == "" {
			continue
		}
		if ce.Kind == KindCDDATrack && ce.LBA == DAPlaceholder {
			cfg.logger().Warnf("entry %q: %v", ce.ID, ErrDAPlaceholderLeak)
		}
		length := entryExtentLength(store, ci, cfg)
		record := marshalDirRecord(cfg, ce.LBA, length, ce.Date, ce.Kind, ce.Hidden, ce, []byte(ce.ID))
		if err := write(record); err != nil {
			return nil, fmt.Errorf("psxiso: directory %q child %q: %w", dir.ID, ce.ID, err)
		}
	}

	return buf, nil
}
