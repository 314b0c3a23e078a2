package psxiso

import (
	"bytes"
	"encoding/binary"
)

// pathTableEntry is one row of a path table: a directory's identifier,
// its own 1-based table index, its parent's 1-based table index, and its
// assigned LBA.
type pathTableEntry struct {
	id        string
	selfIdx   uint16
	parentIdx uint16
	lba       uint32
}

// buildPathTableEntries breadth-first traverses the directory tree
// starting at the root (table index 1, its own parent) and assigns each
// subdirectory discovered the next sequential table index, recording the
// table index of the directory it was found under.
func buildPathTableEntries(store *EntryStore, rootIdx int) []pathTableEntry {
	root := store.Entry(rootIdx)
	entries := []pathTableEntry{{id: root.ID, selfIdx: 1, parentIdx: 1, lba: root.LBA}}

	type queued struct {
		dirIdx int
		tblIdx uint16
	}
	queue := []queued{{rootIdx, 1}}
	next := uint16(2)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		dir := store.Entry(cur.dirIdx)
		for _, ci := range dir.Children {
			ce := store.Entry(ci)
			if ce.Kind != KindDirectory {
				continue
			}
			idx := next
			next++
			entries = append(entries, pathTableEntry{id: ce.ID, selfIdx: idx, parentIdx: cur.tblIdx, lba: ce.LBA})
			queue = append(queue, queued{ci, idx})
		}
	}
	return entries
}

func marshalPathTableEntry(e pathTableEntry, bigEndian bool) []byte {
	idBytes := []byte(e.id)
	if len(idBytes) == 0 {
		idBytes = []byte{0x00}
	}

	recLen := pathTableRecFixedLen + len(idBytes)
	if len(idBytes)%2 != 0 {
		recLen++
	}

	buf := make([]byte, recLen)
	buf[0] = byte(len(idBytes))
	buf[1] = 0
	if bigEndian {
		binary.BigEndian.PutUint32(buf[2:6], e.lba)
		binary.BigEndian.PutUint16(buf[6:8], e.parentIdx)
	} else {
		binary.LittleEndian.PutUint32(buf[2:6], e.lba)
		binary.LittleEndian.PutUint16(buf[6:8], e.parentIdx)
	}
	copy(buf[8:], idBytes)
	return buf
}

// buildPathTable renders the L-type (little-endian) or M-type
// (big-endian) path table bytes for the whole tree rooted at rootIdx.
func buildPathTable(store *EntryStore, rootIdx int, bigEndian bool) []byte {
	var buf bytes.Buffer
	for _, e := range buildPathTableEntries(store, rootIdx) {
		buf.Write(marshalPathTableEntry(e, bigEndian))
	}
	return buf.Bytes()
}

// pathTableLength reports the byte length of either path table (both have
// the same length; only the field endianness differs).
func pathTableLength(store *EntryStore, rootIdx int) uint32 {
	var total uint32
	for _, e := range buildPathTableEntries(store, rootIdx) {
		idLen := len(e.id)
		if idLen == 0 {
			idLen = 1
		}
		recLen := pathTableRecFixedLen + idLen
		if idLen%2 != 0 {
			recLen++
		}
		total += uint32(recLen)
	}
	return total
}
