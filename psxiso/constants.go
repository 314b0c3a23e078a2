package psxiso

// Sector geometries. The core only ever reasons about user-data byte
// counts and LBAs; sync/header/EDC/ECC bytes are the SectorWriter
// collaborator's concern (see sector_writer.go).
const (
	SectorSizeForm1 = 2048 // Mode 2 Form 1 user data
	SectorSizeForm2 = 2336 // Mode 2 Form 2 user data, or raw XA bytes
	CDSectorSize    = 2352 // full CD-DA / Red Book frame

	SystemAreaSectors = 16
	LicenseSectors    = 12
	LicenseGapSectors = 4

	dirRecordFixedSize   = 33 // ISO_DIR_ENTRY size before the identifier
	xaAttribSize         = 14
	pathTableRecFixedLen = 8
)

// DAPlaceholder is the sentinel LBA given to CDDA track entries until an
// external audio-track writer patches in the real value once the Red Book
// tracks have been laid out on disc.
const DAPlaceholder = ^uint32(0)
