package psxiso

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// DirTree is a handle onto one directory entry in an EntryStore's arena.
// It has no state of its own beyond the arena pointer and the entry's
// index, so copying a DirTree value is always safe.
type DirTree struct {
	store *EntryStore
	index int
	cfg   *Config
}

// CreateRoot creates the root directory entry of a fresh arena and applies
// the legacy mastering-tool quirk: when the "new mastering type" flag is
// unset, the stored year wraps modulo 100, mimicking the single-byte
// overflow older authoring tools exhibited past the year 2000.
func CreateRoot(store *EntryStore, cfg *Config, volumeDate DateStamp, hidden bool) *DirTree {
	e := Entry{
		Kind:     KindDirectory,
		Date:     volumeDate,
		Hidden:   hidden,
		XAAttrib: 0xFF,
		Parent:   -1,
	}
	if !cfg.NewType {
		e.Date.Year = e.Date.Year % 100
	}
	idx := store.add(e)
	store.Entry(idx).Parent = idx
	return &DirTree{store: store, index: idx, cfg: cfg}
}

// Index returns this directory's arena index.
func (t *DirTree) Index() int { return t.index }

// Store returns the arena this directory lives in.
func (t *DirTree) Store() *EntryStore { return t.store }

// Entry returns this directory's own arena entry.
func (t *DirTree) Entry() *Entry { return t.store.Entry(t.index) }

// ChildTree returns a DirTree handle for a child directory's arena index.
func (t *DirTree) ChildTree(idx int) *DirTree {
	return &DirTree{store: t.store, index: idx, cfg: t.cfg}
}

// AddFile declares a new non-directory entry under this directory. kind
// must not be KindDirectory (use AddSubDir). For KindXA, a source whose
// size is not a multiple of 2336 bytes is transparently reclassified as
// KindXADataOnly when its size is a multiple of 2048 instead; a source
// beginning with a RIFF header is rejected outright, since XA streams are
// never WAV-wrapped. For KindCDDATrack, trackID is required and Probe
// supplies the PCM frame count Length is derived from.
func (t *DirTree) AddFile(id string, kind Kind, srcPath string, attrs Attrs, trackID string) error {
	fi, err := os.Stat(srcPath)
	if err != nil {
		return fmt.Errorf("psxiso: entry %q: %w", id, ErrSourceMissing)
	}

	if kind == KindXA {
		reclassified, rerr := classifyXASource(srcPath, fi.Size())
		if rerr != nil {
			return fmt.Errorf("psxiso: entry %q: %w", id, rerr)
		}
		kind = reclassified
	}

	finalID := strings.ToUpper(id) + ";1"
	for _, ci := range t.Entry().Children {
		ce := t.store.Entry(ci)
		if ce.Kind == KindFile && strings.EqualFold(ce.ID, finalID) {
			return fmt.Errorf("psxiso: entry %q: %w", id, ErrDuplicateEntry)
		}
	}

	e := Entry{
		ID:       finalID,
		Kind:     kind,
		Hidden:   attrs.Hidden,
		XAAttrib: attrs.XAAttrib,
		XAPerm:   attrs.XAPerm,
		GID:      attrs.GID,
		UID:      attrs.UID,
		Order:    attrs.Order,
		FixedLBA: attrs.FixedLBA,
		SrcPath:  srcPath,
		Parent:   t.index,
	}

	if kind == KindCDDATrack {
		if trackID == "" {
			return fmt.Errorf("psxiso: entry %q: %w", id, ErrMissingTrackID)
		}
		pcmFrames, perr := t.cfg.Probe.Probe(srcPath)
		if perr != nil {
			return fmt.Errorf("psxiso: entry %q: probing audio: %w", id, perr)
		}
		if pcmFrames == 0 {
			return fmt.Errorf("psxiso: entry %q: %w", id, ErrAudioProbeFailed)
		}
		e.Length = Sectors(uint32(pcmFrames*4), CDSectorSize) * CDSectorSize
		e.TrackID = trackID
	} else {
		e.Length = uint32(fi.Size())
	}

	e.Date = NewDateStamp(fi.ModTime().UTC(), attrs.GMTOffset)

	idx := t.store.add(e)
	t.Entry().Children = append(t.Entry().Children, idx)
	return nil
}

// classifyXASource inspects an XA source's leading bytes and size to pick
// its real kind: rejected outright if it looks like a WAV file, demoted to
// KindXADataOnly if its size only fits a Form 1 sector count, otherwise
// left as KindXA.
func classifyXASource(srcPath string, size int64) (Kind, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return KindXA, ErrSourceMissing
	}
	defer f.Close()

	var header [4]byte
	if _, err := io.ReadFull(f, header[:]); err == nil {
		if string(header[:]) == "RIFF" {
			return KindXA, ErrWavRejected
		}
	}

	switch {
	case size%SectorSizeForm2 == 0:
		return KindXA, nil
	case size%SectorSizeForm1 == 0:
		return KindXADataOnly, nil
	default:
		return KindXA, ErrBadXaSize
	}
}

// AddSubDir declares or re-enters a subdirectory by identifier. If a
// directory child with the same (uppercased) id already exists, its
// DirTree is returned with alreadyExisted=true and no new entry is made —
// this lets repeated declarations of the same path merge instead of
// erroring. srcDir supplies the subdirectory's timestamp; when it cannot
// be stat-ed, the build time is used instead and, for a non-empty id, a
// warning is logged.
func (t *DirTree) AddSubDir(id string, srcDir string, attrs Attrs) (sub *DirTree, alreadyExisted bool) {
	upperID := strings.ToUpper(id)
	for _, ci := range t.Entry().Children {
		ce := t.store.Entry(ci)
		if ce.Kind == KindDirectory && ce.ID == upperID {
			return t.ChildTree(ci), true
		}
	}

	var dirTime time.Time
	if srcDir != "" {
		if fi, err := os.Stat(srcDir); err == nil {
			dirTime = fi.ModTime()
		}
	}
	if dirTime.IsZero() {
		dirTime = t.cfg.BuildTime
		if id != "" {
			t.cfg.logger().Warnf("subdirectory %q: source attribute invalid or empty, using build time", id)
		}
	}

	e := Entry{
		ID:       upperID,
		Kind:     KindDirectory,
		Hidden:   attrs.Hidden,
		XAAttrib: attrs.XAAttrib,
		XAPerm:   attrs.XAPerm,
		GID:      attrs.GID,
		UID:      attrs.UID,
		Order:    attrs.Order,
		FixedLBA: attrs.FixedLBA,
		Date:     NewDateStamp(dirTime.UTC(), attrs.GMTOffset),
		Parent:   t.index,
	}
	idx := t.store.add(e)
	t.Entry().Children = append(t.Entry().Children, idx)
	return t.ChildTree(idx), false
}

// AddDummy declares a gap of unallocated sectors, used to reserve space
// (e.g. for a later audio track, or a fixed-layout padding region).
func (t *DirTree) AddDummy(sectorCount uint32, submode byte, fixedLBA uint32, eccAddress bool) {
	e := Entry{
		Kind:            KindDummy,
		Length:          sectorCount * SectorSizeForm1,
		FixedLBA:        fixedLBA,
		DummySubmode:    submode,
		DummyECCAddress: eccAddress,
		Parent:          t.index,
	}
	idx := t.store.add(e)
	t.Entry().Children = append(t.Entry().Children, idx)
}

// Sort orders every directory's children depth-first: subdirectories sort
// their own children first, then this directory's children are stably
// sorted by the requested policy. At most one of byOrder/byLBA should be
// true; when both are false, children sort by their cleaned identifier
// (version suffix stripped), byte-wise.
func (t *DirTree) Sort(byOrder, byLBA bool) {
	for _, ci := range t.Entry().Children {
		ce := t.store.Entry(ci)
		if ce.Kind == KindDirectory {
			t.ChildTree(ci).Sort(byOrder, byLBA)
		}
	}

	children := t.Entry().Children
	store := t.store
	sort.SliceStable(children, func(i, j int) bool {
		a := store.Entry(children[i])
		b := store.Entry(children[j])
		switch {
		case byOrder:
			return a.Order < b.Order
		case byLBA:
			return a.LBA < b.LBA
		default:
			return CleanIdentifier(a.ID) < CleanIdentifier(b.ID)
		}
	})
}

// FileCount returns the number of named non-directory entries in this
// directory's subtree, including nested subdirectories. Dummy gaps carry
// no identifier and are not counted.
func (t *DirTree) FileCount() int {
	n := 0
	for _, ci := range t.Entry().Children {
		ce := t.store.Entry(ci)
		if ce.Kind == KindDirectory {
			n += t.ChildTree(ci).FileCount()
		} else if ce.ID != "" {
			n++
		}
	}
	return n
}

// DirCount returns the number of subdirectories in this directory's
// subtree, including nested subdirectories, not counting itself.
func (t *DirTree) DirCount() int {
	n := 0
	for _, ci := range t.Entry().Children {
		ce := t.store.Entry(ci)
		if ce.Kind == KindDirectory {
			n++
			n += t.ChildTree(ci).DirCount()
		}
	}
	return n
}

// dirEntryLen computes the byte size of a directory's own record listing:
// a fixed 68-byte baseline for the "." and ".." records (plus 28 bytes if
// XA attributes are enabled), then each named child's record size, never
// letting a record straddle a 2048-byte sector boundary.
func dirEntryLen(store *EntryStore, dirIndex int, cfg *Config) uint32 {
	total := uint32(68)
	if cfg.XAEnabled() {
		total += 28
	}

	dir := store.Entry(dirIndex)
	for _, ci := range dir.Children {
		ce := store.Entry(ci)
		if ce.ID == "" {
			continue
		}
		dataLen := roundUpEven(uint32(dirRecordFixedSize) + uint32(len(ce.ID)))
		if cfg.XAEnabled() {
			dataLen += xaAttribSize
		}
		if (total%SectorSizeForm1)+dataLen > SectorSizeForm1 {
			total = Sectors(total, SectorSizeForm1) * SectorSizeForm1
		}
		total += dataLen
	}
	return Sectors(total, SectorSizeForm1) * SectorSizeForm1
}
