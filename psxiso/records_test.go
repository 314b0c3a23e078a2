package psxiso

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirRecordFlags(t *testing.T) {
	require.Equal(t, byte(0x02), dirRecordFlags(KindDirectory, false))
	require.Equal(t, byte(0x03), dirRecordFlags(KindDirectory, true))
	require.Equal(t, byte(0x00), dirRecordFlags(KindFile, false))
	require.Equal(t, byte(0x01), dirRecordFlags(KindFile, true))
}

func TestXAAttributeWordByKind(t *testing.T) {
	base := Entry{XAPerm: 0x0123}

	file := base
	file.Kind = KindFile
	require.Equal(t, uint16(0x0123|0x0800), xaAttributeWord(&file))

	dir := base
	dir.Kind = KindDirectory
	require.Equal(t, uint16(0x0123|0x8800), xaAttributeWord(&dir))

	cdda := base
	cdda.Kind = KindCDDATrack
	require.Equal(t, uint16(0x0123|0x4000), xaAttributeWord(&cdda))

	xaDefault := base
	xaDefault.Kind = KindXA
	xaDefault.XAAttrib = 0xFF
	require.Equal(t, uint16(0x0123|0x3800), xaAttributeWord(&xaDefault))

	xaExplicit := base
	xaExplicit.Kind = KindXA
	xaExplicit.XAAttrib = 0x55
	require.Equal(t, uint16(0x0123|0x5500), xaAttributeWord(&xaExplicit))
}

func TestMarshalDirRecordLength(t *testing.T) {
	cfg := &Config{NoXA: true}
	e := &Entry{GID: 1, UID: 2, XAPerm: 0x0180}
	rec := marshalDirRecord(cfg, 22, 2048, DateStamp{}, KindDirectory, false, e, []byte{0x00})

	// No XA: base record is 33 fixed bytes + 1 id byte, rounded up to even = 34.
	require.Len(t, rec, 34)
	require.Equal(t, byte(34), rec[0])

	cfg.NoXA = false
	recXA := marshalDirRecord(cfg, 22, 2048, DateStamp{}, KindDirectory, false, e, []byte{0x00})
	require.Len(t, recXA, 34+14)
	require.Equal(t, byte('X'), recXA[34+6])
	require.Equal(t, byte('A'), recXA[34+7])
}

func TestBuildDirectoryListingSelfAndParentOrder(t *testing.T) {
	cfg := testConfig(t)
	store := NewEntryStore()
	root := CreateRoot(store, cfg, NewDateStamp(cfg.BuildTime, 0), false)
	store.Entry(root.index).LBA = 22

	buf, err := buildDirectoryListing(cfg, store, root.index)
	require.NoError(t, err)
	require.NotEmpty(t, buf)

	// The self record's name field is the single 0x00 byte (ECMA-119 "."),
	// immediately followed at offset 33 by the parent's 0x01 byte.
	selfLen := buf[0]
	require.Equal(t, byte(0x00), buf[33])
	require.Equal(t, byte(0x01), buf[int(selfLen)+33])
}

func TestBuildDirectoryListingSectorBoundaryRule(t *testing.T) {
	cfg := testConfig(t)
	store := NewEntryStore()
	root := CreateRoot(store, cfg, NewDateStamp(cfg.BuildTime, 0), false)
	store.Entry(root.index).LBA = 22

	dir := t.TempDir()
	// Enough children that at least one record would straddle a 2048-byte
	// boundary if packed without the rule; buildDirectoryListing must not
	// error and must agree with dirEntryLen's own precomputed size.
	for i := 0; i < 80; i++ {
		name := "F" + string(rune('A'+i%26)) + string(rune('0'+i/26)) + ".DAT"
		path := writeTempFile(t, dir, name, []byte{byte(i)})
		require.NoError(t, root.AddFile(name, KindFile, path, DefaultAttrs(), ""))
	}

	want := dirEntryLen(store, root.index, cfg)
	buf, err := buildDirectoryListing(cfg, store, root.index)
	require.NoError(t, err)
	require.Len(t, buf, int(want))
}

func TestBuildDirectoryListingWarnsOnCDDAPlaceholderLeak(t *testing.T) {
	cfg := testConfig(t)
	cfg.Probe = fakeProbe{frames: 44100}
	store := NewEntryStore()
	root := CreateRoot(store, cfg, NewDateStamp(cfg.BuildTime, 0), false)
	store.Entry(root.index).LBA = 22

	path := writeTempFile(t, t.TempDir(), "track.cda", []byte("x"))
	require.NoError(t, root.AddFile("track.cda", KindCDDATrack, path, DefaultAttrs(), "TRACK01"))
	// Give the track the DAPlaceholder value the planner assigns, mimicking
	// an image emitted without an audio-track writer patching it in first.
	store.Entry(root.Entry().Children[0]).LBA = DAPlaceholder

	var logBuf bytes.Buffer
	cfg.Logger.SetOutput(&logBuf)

	_, err := buildDirectoryListing(cfg, store, root.index)
	require.NoError(t, err)
	require.Contains(t, logBuf.String(), "placeholder")
}
