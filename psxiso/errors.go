package psxiso

import "errors"

// Sentinel errors returned by the tree-building and emission operations.
// Callers match them with errors.Is; the package wraps them with
// fmt.Errorf("...: %w", ...) to add the offending entry's id. Errors that
// come from a RedbookProbe or a SectorWriter are wrapped or passed through
// as they are, not replaced by one of these.
var (
	ErrSourceMissing     = errors.New("psxiso: source file missing or unreadable")
	ErrWavRejected       = errors.New("psxiso: xa source begins with a RIFF header, looks like a WAV file")
	ErrBadXaSize         = errors.New("psxiso: xa source size is not a multiple of 2336 or 2048 bytes")
	ErrDuplicateEntry    = errors.New("psxiso: duplicate entry identifier in directory")
	ErrMissingTrackID    = errors.New("psxiso: cdda entry requires a track id")
	ErrAudioProbeFailed  = errors.New("psxiso: redbook probe returned zero pcm frames")
	ErrDAPlaceholderLeak = errors.New("psxiso: cdda entry still carries its placeholder lba at emission time")
	ErrSectorOverflow    = errors.New("psxiso: directory record does not fit in its extent")
)
