package psxiso

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestImageEmitEndToEnd(t *testing.T) {
	cfg := &Config{
		BuildTime: time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC),
		Probe:     NoOpRedbookProbe{},
	}
	img := NewImage(cfg, NewDateStamp(cfg.BuildTime, 0), false)

	dir := t.TempDir()
	path := writeTempFile(t, dir, "hello.bin", []byte("hello, playstation"))
	require.NoError(t, img.Root.AddFile("hello.bin", KindFile, path, DefaultAttrs(), ""))

	sub, _ := img.Root.AddSubDir("DATA", "", DefaultAttrs())
	nestedPath := writeTempFile(t, dir, "nested.dat", []byte("nested payload"))
	require.NoError(t, sub.AddFile("nested.dat", KindFile, nestedPath, DefaultAttrs(), ""))

	img.Sort(false, false)
	length := img.PlanLayout()
	require.Greater(t, length, uint32(0))

	w := NewMemorySectorWriter()
	license := make([]byte, LicenseSectors*SectorSizeForm2)
	ids := Identifiers{
		SystemID:         "PLAYSTATION",
		VolumeID:         "TESTDISC",
		CreationDate:     "20260730000000" + "00",
		ModificationDate: "20260730000000" + "00",
	}

	require.NoError(t, img.Emit(w, license, false, ids))

	// The PVD lives right after the system area.
	pvdSector := w.Sector(SystemAreaSectors)
	require.NotNil(t, pvdSector)
	require.Equal(t, []byte("CD001"), pvdSector[1:6])

	// Sorting by cleaned identifier puts DATA ahead of HELLO.BIN.
	file := img.Store.Entry(img.Root.Entry().Children[1])
	payload := w.Sector(file.LBA)
	require.NotNil(t, payload)
	require.Equal(t, "hello, playstation", string(payload[:len("hello, playstation")]))
}

func TestImageEmitIsDeterministic(t *testing.T) {
	build := func() *MemorySectorWriter {
		cfg := &Config{
			BuildTime: time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC),
			Probe:     NoOpRedbookProbe{},
		}
		img := NewImage(cfg, NewDateStamp(cfg.BuildTime, 0), false)
		dir := t.TempDir()
		path := writeTempFile(t, dir, "a.dat", []byte("deterministic"))
		require.NoError(t, img.Root.AddFile("a.dat", KindFile, path, DefaultAttrs(), ""))
		img.Sort(false, false)
		img.PlanLayout()

		w := NewMemorySectorWriter()
		license := make([]byte, LicenseSectors*SectorSizeForm2)
		require.NoError(t, img.Emit(w, license, false, Identifiers{VolumeID: "DET"}))
		return w
	}

	a := build()
	b := build()

	file := uint32(SystemAreaSectors) // not used directly; just confirm both runs agree on PVD bytes
	_ = file
	require.Equal(t, a.Sector(SystemAreaSectors), b.Sector(SystemAreaSectors))
}
