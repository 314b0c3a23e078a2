package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kestrelcd/psxiso/psxiso"
)

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.yaml")
	yamlContent := `
volume_id: TESTDISC
system_id: PLAYSTATION
new_type: false
entries:
  - id: HELLO.BIN
    kind: file
    source: hello.bin
  - id: DATA
    kind: dir
    children:
      - id: NESTED.DAT
        kind: file
        source: nested.dat
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	desc, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "TESTDISC", desc.VolumeID)
	require.Equal(t, "PLAYSTATION", desc.SystemID)
	require.Len(t, desc.Entries, 2)
	require.Equal(t, "dir", desc.Entries[1].Kind)
	require.Len(t, desc.Entries[1].Children, 1)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestApplyBuildsTree(t *testing.T) {
	cfg := &psxiso.Config{
		BuildTime: time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC),
		Probe:     psxiso.NoOpRedbookProbe{},
	}
	img := psxiso.NewImage(cfg, psxiso.NewDateStamp(cfg.BuildTime, 0), false)

	dir := t.TempDir()
	helloPath := filepath.Join(dir, "hello.bin")
	require.NoError(t, os.WriteFile(helloPath, []byte("hi"), 0o644))
	nestedPath := filepath.Join(dir, "nested.dat")
	require.NoError(t, os.WriteFile(nestedPath, []byte("nested"), 0o644))

	entries := []DeclaredEntry{
		{ID: "HELLO.BIN", Kind: "file", Source: helloPath},
		{ID: "DATA", Kind: "dir", Children: []DeclaredEntry{
			{ID: "NESTED.DAT", Kind: "file", Source: nestedPath},
		}},
	}

	require.NoError(t, Apply(img.Root, entries))
	require.Equal(t, 2, img.Root.FileCount())
	require.Equal(t, 1, img.Root.DirCount())
}

func TestApplyUnknownKindErrors(t *testing.T) {
	cfg := &psxiso.Config{
		BuildTime: time.Now().UTC(),
		Probe:     psxiso.NoOpRedbookProbe{},
	}
	img := psxiso.NewImage(cfg, psxiso.NewDateStamp(cfg.BuildTime, 0), false)

	err := Apply(img.Root, []DeclaredEntry{{ID: "X", Kind: "bogus"}})
	require.Error(t, err)
}

func TestEntryAttrsToAttrsRespectsXAAttribOverride(t *testing.T) {
	v := 0x42
	a := EntryAttrs{XAAttrib: &v, FixedLBA: 99}
	attrs := a.toAttrs()
	require.Equal(t, byte(0x42), attrs.XAAttrib)
	require.Equal(t, uint32(99), attrs.FixedLBA)
}

func TestEntryAttrsToAttrsDefaultsXAAttribSentinel(t *testing.T) {
	a := EntryAttrs{}
	attrs := a.toAttrs()
	require.Equal(t, byte(0xFF), attrs.XAAttrib)
}
