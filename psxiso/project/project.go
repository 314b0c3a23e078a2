// Package project is a convenience YAML loader for this module's own CLI
// and tests. The real mkpsxiso-style XML project format is an explicitly
// out-of-scope external collaborator; this package is not a substitute for
// it, just a concrete shape a caller can decode a project description into
// before driving psxiso.DirTree with it.
package project

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kestrelcd/psxiso/psxiso"
)

// EntryAttrs mirrors psxiso.Attrs in a YAML-friendly shape.
type EntryAttrs struct {
	Hidden    bool   `yaml:"hidden"`
	XAAttrib  *int   `yaml:"xa_attrib,omitempty"`
	XAPerm    int    `yaml:"xa_perm,omitempty"`
	GID       int    `yaml:"gid,omitempty"`
	UID       int    `yaml:"uid,omitempty"`
	Order     int    `yaml:"order,omitempty"`
	GMTOffset int    `yaml:"gmt_offset,omitempty"`
	FixedLBA  uint32 `yaml:"fixed_lba,omitempty"`
}

func (a EntryAttrs) toAttrs() psxiso.Attrs {
	attrs := psxiso.DefaultAttrs()
	attrs.Hidden = a.Hidden
	if a.XAAttrib != nil {
		attrs.XAAttrib = byte(*a.XAAttrib)
	}
	attrs.XAPerm = uint16(a.XAPerm)
	attrs.GID = uint16(a.GID)
	attrs.UID = uint16(a.UID)
	attrs.Order = a.Order
	attrs.GMTOffset = int8(a.GMTOffset)
	attrs.FixedLBA = a.FixedLBA
	return attrs
}

// DeclaredEntry is one entry declared by the project file: a file, an XA
// stream, a CDDA track reference, a dummy gap, or a subdirectory with its
// own nested entries.
type DeclaredEntry struct {
	ID       string          `yaml:"id"`
	Kind     string          `yaml:"kind"` // file, xa, xa_do, cdda, dir, dummy
	Source   string          `yaml:"source,omitempty"`
	TrackID  string          `yaml:"track_id,omitempty"`
	Sectors  uint32          `yaml:"sectors,omitempty"` // dummy gap length
	Submode  int             `yaml:"submode,omitempty"`
	Attrs    EntryAttrs      `yaml:"attrs,omitempty"`
	Children []DeclaredEntry `yaml:"children,omitempty"`
}

// Description is the top-level YAML project file shape: volume
// identifiers, the emission flags of psxiso.Config, and the declared
// entry tree.
type Description struct {
	VolumeID     string `yaml:"volume_id"`
	SystemID     string `yaml:"system_id"`
	VolumeSetID  string `yaml:"volume_set_id"`
	Publisher    string `yaml:"publisher"`
	DataPreparer string `yaml:"data_preparer"`
	Application  string `yaml:"application"`
	Copyright    string `yaml:"copyright"`
	LicenseFile  string `yaml:"license_file"`
	PS2          bool   `yaml:"ps2"`
	NoXA         bool   `yaml:"no_xa"`
	NewType      bool   `yaml:"new_type"`

	Entries []DeclaredEntry `yaml:"entries"`
}

// Load decodes a YAML project description from path.
func Load(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: reading %s: %w", path, err)
	}
	var desc Description
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("project: parsing %s: %w", path, err)
	}
	return &desc, nil
}

// Apply walks entries and declares each one under root, recursing into
// directories.
func Apply(root *psxiso.DirTree, entries []DeclaredEntry) error {
	for _, de := range entries {
		attrs := de.Attrs.toAttrs()

		switch de.Kind {
		case "dir":
			sub, _ := root.AddSubDir(de.ID, de.Source, attrs)
			if err := Apply(sub, de.Children); err != nil {
				return err
			}
		case "file":
			if err := root.AddFile(de.ID, psxiso.KindFile, de.Source, attrs, ""); err != nil {
				return err
			}
		case "xa":
			if err := root.AddFile(de.ID, psxiso.KindXA, de.Source, attrs, ""); err != nil {
				return err
			}
		case "xa_do":
			if err := root.AddFile(de.ID, psxiso.KindXADataOnly, de.Source, attrs, ""); err != nil {
				return err
			}
		case "cdda":
			if err := root.AddFile(de.ID, psxiso.KindCDDATrack, de.Source, attrs, de.TrackID); err != nil {
				return err
			}
		case "dummy":
			root.AddDummy(de.Sectors, byte(de.Submode), attrs.FixedLBA, false)
		default:
			return fmt.Errorf("project: entry %q: unknown kind %q", de.ID, de.Kind)
		}
	}
	return nil
}
