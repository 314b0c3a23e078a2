package psxiso

import (
	"fmt"
	"os"
)

// Image owns the arena and root directory for one disc image build. It
// carries the last layoutResult computed by PlanLayout so Emit doesn't
// need it passed back in.
type Image struct {
	Store *EntryStore
	Root  *DirTree
	Cfg   *Config

	layout       layoutResult
	layoutPlaced bool
}

// NewImage creates a fresh image with an empty root directory dated
// volumeDate.
func NewImage(cfg *Config, volumeDate DateStamp, hidden bool) *Image {
	store := NewEntryStore()
	root := CreateRoot(store, cfg, volumeDate, hidden)
	return &Image{Store: store, Root: root, Cfg: cfg}
}

// Sort applies the directory sort policy across the whole tree.
func (img *Image) Sort(byOrder, byLBA bool) {
	img.Root.Sort(byOrder, byLBA)
}

// PlanLayout runs the two-pass LBA layout planner and returns the total
// image length in sectors.
func (img *Image) PlanLayout() uint32 {
	img.layout = planLayout(img.Store, img.Root.index, img.Cfg)
	img.layoutPlaced = true
	return img.layout.imageLength
}

// ImageLength reports the last planned total image length in sectors.
// PlanLayout must have run first.
func (img *Image) ImageLength() uint32 {
	return img.layout.imageLength
}

// Emit writes every fixed-layout region of the image to w, in order: the
// license area, volume descriptors, the four path table copies, every
// directory's record listing (depth-first), then every file's payload.
// PlanLayout runs automatically if it hasn't already.
func (img *Image) Emit(w SectorWriter, licenseData []byte, ps2 bool, ids Identifiers) error {
	if !img.layoutPlaced {
		img.PlanLayout()
	}

	if err := writeLicenseArea(w, licenseData, ps2); err != nil {
		return fmt.Errorf("psxiso: license area: %w", err)
	}
	if err := img.writeDescriptors(w, ids); err != nil {
		return fmt.Errorf("psxiso: descriptors: %w", err)
	}
	if err := img.writePathTables(w); err != nil {
		return fmt.Errorf("psxiso: path tables: %w", err)
	}
	if err := img.writeDirectoryRecords(w, img.Root.index); err != nil {
		return fmt.Errorf("psxiso: directory records: %w", err)
	}
	if err := img.writeFilePayloads(w, img.Root.index); err != nil {
		return fmt.Errorf("psxiso: file payloads: %w", err)
	}
	return nil
}

// writeLicenseArea writes the fixed 12-sector PS1 boot license area,
// followed by its gap: Form 2 padding on PS1, Form 1 with submode 0x08 on
// PS2.
func writeLicenseArea(w SectorWriter, licenseData []byte, ps2 bool) error {
	view, err := w.ViewM2F2(0, LicenseSectors, Form1)
	if err != nil {
		return err
	}
	data := make([]byte, LicenseSectors*SectorSizeForm2)
	copy(data, licenseData)
	if err := view.WriteMemory(data); err != nil {
		return err
	}

	if !ps2 {
		gap, err := w.ViewM2F1(LicenseSectors, LicenseGapSectors, Form2)
		if err != nil {
			return err
		}
		return gap.WriteBlankSectors(LicenseGapSectors, 0, false)
	}

	gap, err := w.ViewM2F1(LicenseSectors, LicenseGapSectors, Form1)
	if err != nil {
		return err
	}
	return gap.WriteBlankSectors(LicenseGapSectors, 0x08, false)
}

func (img *Image) writeDescriptors(w SectorWriter, ids Identifiers) error {
	view, err := w.ViewM2F1(SystemAreaSectors, img.layout.descriptorSectors, Form1)
	if err != nil {
		return err
	}
	if img.Cfg.NewType {
		view.SetSubheader(SubheaderData)
	} else {
		view.SetSubheader(SubheaderEOL)
	}

	pvd := buildPVD(img.Cfg, ids, img.Store, img.Root.index, &img.layout)
	if err := view.WriteMemory(pvd); err != nil {
		return err
	}
	return view.WriteMemory(buildTerminator())
}

func (img *Image) writePathTables(w SectorWriter) error {
	lData := buildPathTable(img.Store, img.Root.index, false)
	mData := buildPathTable(img.Store, img.Root.index, true)
	ptSectors := Sectors(img.layout.pathTableLen, SectorSizeForm1)

	for _, lba := range []uint32{img.layout.lbaL1, img.layout.lbaL2} {
		v, err := w.ViewM2F1(lba, ptSectors, Form1)
		if err != nil {
			return err
		}
		if err := v.WriteMemory(lData); err != nil {
			return err
		}
	}
	for _, lba := range []uint32{img.layout.lbaM1, img.layout.lbaM2} {
		v, err := w.ViewM2F1(lba, ptSectors, Form1)
		if err != nil {
			return err
		}
		if err := v.WriteMemory(mData); err != nil {
			return err
		}
	}
	return nil
}

func (img *Image) writeDirectoryRecords(w SectorWriter, dirIdx int) error {
	listing, err := buildDirectoryListing(img.Cfg, img.Store, dirIdx)
	if err != nil {
		return err
	}
	dir := img.Store.Entry(dirIdx)
	n := Sectors(uint32(len(listing)), SectorSizeForm1)
	view, err := w.ViewM2F1(dir.LBA, n, Form1)
	if err != nil {
		return err
	}
	if err := view.WriteMemory(listing); err != nil {
		return err
	}

	for _, ci := range dir.Children {
		if img.Store.Entry(ci).Kind == KindDirectory {
			if err := img.writeDirectoryRecords(w, ci); err != nil {
				return err
			}
		}
	}
	return nil
}

func (img *Image) writeFilePayloads(w SectorWriter, dirIdx int) error {
	dir := img.Store.Entry(dirIdx)
	for _, ci := range dir.Children {
		ce := img.Store.Entry(ci)
		switch ce.Kind {
		case KindDirectory:
			if err := img.writeFilePayloads(w, ci); err != nil {
				return err
			}
		case KindFile:
			if err := writeRegularFile(w, ce); err != nil {
				return fmt.Errorf("writing %q: %w", ce.ID, err)
			}
		case KindXA:
			if err := writeXAStream(w, ce); err != nil {
				return fmt.Errorf("writing %q: %w", ce.ID, err)
			}
		case KindXADataOnly:
			if err := writeXADataOnlyStream(w, ce); err != nil {
				return fmt.Errorf("writing %q: %w", ce.ID, err)
			}
		case KindDummy:
			if err := writeDummyGap(w, ce); err != nil {
				return fmt.Errorf("writing dummy gap: %w", err)
			}
		case KindCDDATrack:
			// Red Book tracks are laid onto the disc by an external
			// audio-track writer, not this module.
		}
	}
	return nil
}

func writeRegularFile(w SectorWriter, e *Entry) error {
	f, err := os.Open(e.SrcPath)
	if err != nil {
		return ErrSourceMissing
	}
	defer f.Close()

	view, err := w.ViewM2F1(e.LBA, Sectors(e.Length, SectorSizeForm1), Form1)
	if err != nil {
		return err
	}
	return view.WriteFile(f)
}

func writeXAStream(w SectorWriter, e *Entry) error {
	f, err := os.Open(e.SrcPath)
	if err != nil {
		return ErrSourceMissing
	}
	defer f.Close()

	view, err := w.ViewM2F2(e.LBA, Sectors(e.Length, SectorSizeForm2), Autodetect)
	if err != nil {
		return err
	}
	return view.WriteFile(f)
}

func writeXADataOnlyStream(w SectorWriter, e *Entry) error {
	f, err := os.Open(e.SrcPath)
	if err != nil {
		return ErrSourceMissing
	}
	defer f.Close()

	view, err := w.ViewM2F1(e.LBA, Sectors(e.Length, SectorSizeForm1), Form1)
	if err != nil {
		return err
	}
	view.SetSubheader(SubheaderSTR)
	return view.WriteFile(f)
}

func writeDummyGap(w SectorWriter, e *Entry) error {
	n := Sectors(e.Length, SectorSizeForm1)
	form := Form1
	if e.DummySubmode&0x20 != 0 {
		form = Form2
	}
	view, err := w.ViewM2F1(e.LBA, n, form)
	if err != nil {
		return err
	}
	return view.WriteBlankSectors(n, e.DummySubmode, e.DummyECCAddress)
}
