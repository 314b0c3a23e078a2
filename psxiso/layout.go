package psxiso

// layoutResult captures the fixed addresses the volume writer needs once
// the two-pass planner has run: path table placement and length, the
// root's LBA, and the final image length in sectors.
type layoutResult struct {
	pathTableLen      uint32
	descriptorSectors uint32
	lbaL1, lbaL2      uint32
	lbaM1, lbaM2      uint32
	rootLBA           uint32
	imageLength       uint32
}

// planLayout lays out the fixed header region (system area, volume
// descriptors, four path table copies), then walks the directory tree
// assigning LBAs depth-first starting right after the root directory's own
// record extent.
func planLayout(store *EntryStore, rootIdx int, cfg *Config) layoutResult {
	ptLen := pathTableLength(store, rootIdx)
	ptSectors := Sectors(ptLen, SectorSizeForm1)

	descriptorSectors := uint32(2)
	if cfg.NewType {
		descriptorSectors = 3
	}

	lbaL1 := uint32(SystemAreaSectors) + descriptorSectors
	lbaL2 := lbaL1 + ptSectors
	lbaM1 := lbaL2 + ptSectors
	lbaM2 := lbaM1 + ptSectors
	rootLBA := lbaL1 + 4*ptSectors

	store.Entry(rootIdx).LBA = rootLBA
	startCursor := rootLBA + Sectors(dirEntryLen(store, rootIdx, cfg), SectorSizeForm1)
	imageLength := assignLBA(store, rootIdx, startCursor, cfg)

	return layoutResult{
		pathTableLen:      ptLen,
		descriptorSectors: descriptorSectors,
		lbaL1:             lbaL1,
		lbaL2:             lbaL2,
		lbaM1:             lbaM1,
		lbaM2:             lbaM2,
		rootLBA:           rootLBA,
		imageLength:       imageLength,
	}
}

// assignLBA is the two-pass layout planner's recursive step. For each
// child of dirIndex: a fixed_lba override pins the child's LBA without
// advancing cursor (its size is instead tracked against max_fixed, which
// wins at the end if it ever extends past the sequentially-assigned
// tail); otherwise the child gets the current cursor and cursor advances
// by its size. Directories are the one exception: the planner always
// recurses into a subdirectory's own children and advances cursor by its
// body size, even when the directory itself carried a fixed_lba — this
// mirrors the original mkpsxiso layout pass, fixed_lba directories included.
func assignLBA(store *EntryStore, dirIndex int, cursor uint32, cfg *Config) uint32 {
	dir := store.Entry(dirIndex)
	var maxFixed, maxFixedSectors uint32

	for _, ci := range dir.Children {
		ce := store.Entry(ci)
		fixed := ce.FixedLBA != 0
		if fixed {
			ce.LBA = ce.FixedLBA
		} else {
			ce.LBA = cursor
		}

		switch ce.Kind {
		case KindDirectory:
			dSectors := Sectors(dirEntryLen(store, ci, cfg), SectorSizeForm1)
			if fixed && ce.FixedLBA > maxFixed {
				maxFixed = ce.FixedLBA
				maxFixedSectors = dSectors
			}
			cursor = assignLBA(store, ci, cursor+dSectors, cfg)

		case KindFile, KindXADataOnly, KindDummy:
			n := Sectors(ce.Length, SectorSizeForm1)
			if fixed {
				if ce.FixedLBA > maxFixed {
					maxFixed = ce.FixedLBA
					maxFixedSectors = n
				}
			} else {
				cursor += n
			}

		case KindXA:
			n := Sectors(ce.Length, SectorSizeForm2)
			if fixed {
				if ce.FixedLBA > maxFixed {
					maxFixed = ce.FixedLBA
					maxFixedSectors = n
				}
			} else {
				cursor += n
			}

		case KindCDDATrack:
			ce.LBA = DAPlaceholder
		}
	}

	if maxFixed > 0 && maxFixed+maxFixedSectors > cursor {
		return maxFixed + maxFixedSectors
	}
	return cursor
}
