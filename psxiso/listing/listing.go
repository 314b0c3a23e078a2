// Package listing renders the optional, human/build-system-facing text
// outputs mkpsxiso produces alongside an image: a C header of LBA
// constants, and a full LBA table. Neither feeds back into the image
// itself — both are read-only views over an already laid-out DirTree.
package listing

import (
	"fmt"
	"io"
	"strings"

	"github.com/kestrelcd/psxiso/psxiso"
)

// WriteHeader writes a C header defining one LBA_<NAME> constant per
// non-directory entry in the tree, grouped by directory with a comment
// naming the directory above each group.
func WriteHeader(w io.Writer, root *psxiso.DirTree) error {
	fmt.Fprintln(w, "#ifndef _ISO_FILES")
	fmt.Fprintln(w, "#define _ISO_FILES")
	fmt.Fprintln(w)
	if err := writeHeaderLevel(w, root); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "#endif")
	return nil
}

func writeHeaderLevel(w io.Writer, dir *psxiso.DirTree) error {
	store := dir.Store()
	self := store.Entry(dir.Index())
	fmt.Fprintf(w, "/* %s */\n", displayName(self.ID))

	for _, ci := range self.Children {
		ce := store.Entry(ci)
		if ce.ID == "" || ce.Kind == psxiso.KindDirectory {
			continue
		}
		fmt.Fprintf(w, "#define %-24s %d\n", headerName(ce.ID), ce.LBA)
	}

	for _, ci := range self.Children {
		ce := store.Entry(ci)
		if ce.Kind == psxiso.KindDirectory {
			fmt.Fprintln(w)
			if err := writeHeaderLevel(w, dir.ChildTree(ci)); err != nil {
				return err
			}
		}
	}
	return nil
}

// headerName turns an identifier into an LBA_<NAME> macro name: uppercase,
// with '.', ' ', and '-' mapped to '_', truncated at the first ';'.
func headerName(id string) string {
	var sb strings.Builder
	sb.WriteString("LBA_")
	upper := strings.ToUpper(id)
	for i := 0; i < len(upper); i++ {
		switch c := upper[i]; c {
		case ';':
			return sb.String()
		case '.', ' ', '-':
			sb.WriteByte('_')
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func displayName(id string) string {
	if id == "" {
		return "/"
	}
	return id
}

// WriteLBATable writes a plain-text table of every entry's type, name,
// sector count, LBA, timecode, and size, indented one level per nesting
// depth.
func WriteLBATable(w io.Writer, root *psxiso.DirTree) error {
	fmt.Fprintf(w, "%-6s|%-20s|%-8s|%-8s|%-10s|%-10s|\n", "Type", "Name", "Sectors", "LBA", "Timecode", "Size")
	return writeLBALevel(w, root, 0)
}

func writeLBALevel(w io.Writer, dir *psxiso.DirTree, level int) error {
	store := dir.Store()
	self := store.Entry(dir.Index())
	indent := strings.Repeat("  ", level)

	for _, ci := range self.Children {
		ce := store.Entry(ci)
		if ce.Kind == psxiso.KindDirectory || ce.ID == "" {
			continue
		}
		printRow(w, indent, entryTypeName(ce.Kind), psxiso.CleanIdentifier(ce.ID), entrySectors(ce), ce.LBA, fmt.Sprint(ce.Length))
	}

	for _, ci := range self.Children {
		ce := store.Entry(ci)
		if ce.Kind != psxiso.KindDirectory {
			continue
		}
		printRow(w, indent, "Dir", psxiso.CleanIdentifier(ce.ID), entrySectors(ce), ce.LBA, "")
		if err := writeLBALevel(w, dir.ChildTree(ci), level+1); err != nil {
			return err
		}
	}
	return nil
}

func printRow(w io.Writer, indent, typ, name string, sectors, lba uint32, size string) {
	fmt.Fprintf(w, "%s%-6s|%-20s|%-8d|%-8d|%-10s|%-10s|\n",
		indent, typ, name, sectors, lba, psxiso.SectorsToTimecode(lba), size)
}

func entryTypeName(k psxiso.Kind) string {
	switch k {
	case psxiso.KindFile:
		return "File"
	case psxiso.KindXA:
		return "XA"
	case psxiso.KindXADataOnly:
		return "XA-DO"
	case psxiso.KindCDDATrack:
		return "CDDA"
	case psxiso.KindDummy:
		return "Dummy"
	default:
		return "?"
	}
}

func entrySectors(e *psxiso.Entry) uint32 {
	switch e.Kind {
	case psxiso.KindXA:
		return psxiso.Sectors(e.Length, psxiso.SectorSizeForm2)
	case psxiso.KindCDDATrack:
		return psxiso.Sectors(e.Length, psxiso.CDSectorSize)
	default:
		return psxiso.Sectors(e.Length, psxiso.SectorSizeForm1)
	}
}
