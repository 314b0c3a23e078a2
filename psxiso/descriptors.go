package psxiso

import "encoding/binary"

// Identifiers holds the volume's descriptive strings: the caller-supplied
// fields of the Primary Volume Descriptor that have no algorithmic
// derivation. SystemID and Application are uppercased on write, matching
// ECMA-119 convention; the rest are space-padded as given.
type Identifiers struct {
	SystemID         string
	VolumeID         string
	VolumeSetID      string
	Publisher        string
	DataPreparer     string
	Application      string
	Copyright        string
	CreationDate     string // 16 ASCII digits, e.g. "2026073012000000"
	ModificationDate string
}

func formatVolumeDate(s string) [17]byte {
	var out [17]byte
	for i := range out[:16] {
		out[i] = '0'
	}
	n := len(s)
	if n > 16 {
		n = 16
	}
	copy(out[:16], s[:n])
	out[16] = 0
	return out
}

func unspecifiedVolumeDate() [17]byte {
	var out [17]byte
	for i := range out[:16] {
		out[i] = '0'
	}
	return out
}

// marshalRootDirRecordForPVD builds the fixed 34-byte root directory
// record embedded directly in the Primary Volume Descriptor. This copy
// never carries an XA extended attribute block, unlike the root's real
// record in its own directory listing.
func marshalRootDirRecordForPVD(rootLBA, rootLen uint32, date DateStamp, hidden bool) [34]byte {
	var out [34]byte
	out[0] = 34
	out[1] = 0
	lba := pair32(rootLBA)
	copy(out[2:10], lba[:])
	sz := pair32(rootLen)
	copy(out[10:18], sz[:])
	d := date.marshal()
	copy(out[18:25], d[:])
	out[25] = dirRecordFlags(KindDirectory, hidden)
	out[26] = 0
	out[27] = 0
	vsn := pair16(1)
	copy(out[28:32], vsn[:])
	out[32] = 1
	out[33] = 0x00
	return out
}

// buildPVD renders the 2048-byte Primary Volume Descriptor.
func buildPVD(cfg *Config, ids Identifiers, store *EntryStore, rootIdx int, layout *layoutResult) []byte {
	sector := make([]byte, SectorSizeForm1)
	sector[0] = 1
	copy(sector[1:6], []byte("CD001"))
	sector[6] = 1

	buf := sector[7:]
	pos := 0
	writeByte := func(b byte) { buf[pos] = b; pos++ }
	writeBytes := func(b []byte) { copy(buf[pos:], b); pos += len(b) }

	writeByte(0) // unused field
	writeBytes(uppercasePad(ids.SystemID, 32))
	writeBytes(padString(ids.VolumeID, 32))
	pos += 8 // unused field

	vss := pair32(layout.imageLength)
	writeBytes(vss[:])
	pos += 32 // unused field

	vs := pair16(1)
	writeBytes(vs[:]) // volume set size
	writeBytes(vs[:]) // volume sequence number

	lbs := pair16(SectorSizeForm1)
	writeBytes(lbs[:])

	ptSize := pair32(layout.pathTableLen)
	writeBytes(ptSize[:])

	binary.LittleEndian.PutUint32(buf[pos:], layout.lbaL1)
	pos += 4
	binary.LittleEndian.PutUint32(buf[pos:], layout.lbaL2)
	pos += 4
	binary.BigEndian.PutUint32(buf[pos:], layout.lbaM1)
	pos += 4
	binary.BigEndian.PutUint32(buf[pos:], layout.lbaM2)
	pos += 4

	root := store.Entry(rootIdx)
	rootRec := marshalRootDirRecordForPVD(layout.rootLBA, entryExtentLength(store, rootIdx, cfg), root.Date, root.Hidden)
	writeBytes(rootRec[:])

	writeBytes(padString(ids.VolumeSetID, 128))
	writeBytes(padString(ids.Publisher, 128))
	writeBytes(padString(ids.DataPreparer, 128))
	writeBytes(uppercasePad(ids.Application, 128))
	writeBytes(padString(ids.Copyright, 37))
	writeBytes(padString("", 37)) // abstract file identifier, unused
	writeBytes(padString("", 37)) // bibliographic file identifier, unused

	cd := formatVolumeDate(ids.CreationDate)
	writeBytes(cd[:])
	md := formatVolumeDate(ids.ModificationDate)
	writeBytes(md[:])
	ed := unspecifiedVolumeDate()
	writeBytes(ed[:]) // expiration: unspecified
	ev := unspecifiedVolumeDate()
	writeBytes(ev[:]) // effective: unspecified

	writeByte(1) // file structure version

	if cfg.XAEnabled() {
		// Application Use begins at absolute sector offset 883; the
		// "CD-XA001" marker lives 141 bytes into it.
		copy(sector[1024:1032], []byte("CD-XA001"))
	}

	return sector
}

// buildTerminator renders the Volume Descriptor Set Terminator.
func buildTerminator() []byte {
	sector := make([]byte, SectorSizeForm1)
	sector[0] = 255
	copy(sector[1:6], []byte("CD001"))
	sector[6] = 1
	return sector
}
