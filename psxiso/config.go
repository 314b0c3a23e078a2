package psxiso

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Config is the process-wide set of immutable emission flags. A single
// value is built once by the caller and threaded explicitly through every
// operation that needs it; nothing in this package keeps mutable global
// state.
type Config struct {
	NoXA      bool // disable CD-XA extended attributes and the "CD-XA001" marker
	NewType   bool // use the "new mastering type" behavior (skips the legacy root year quirk)
	QuietMode bool
	BuildTime time.Time

	// Probe resolves PCM frame counts for KindCDDATrack sources. Required
	// whenever a project declares a CDDA entry.
	Probe RedbookProbe

	// Logger receives build diagnostics. Defaults to logrus's standard
	// logger when nil.
	Logger *logrus.Logger
}

// XAEnabled reports whether CD-XA extended attributes should be emitted.
func (c *Config) XAEnabled() bool {
	return !c.NoXA
}

func (c *Config) logger() *logrus.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logrus.StandardLogger()
}

// NoOpRedbookProbe is a placeholder RedbookProbe that always fails. It
// exists so callers that never declare CDDA entries don't need to wire a
// real audio-duration collaborator; anyone who does needs a genuine
// RedbookProbe implementation.
type NoOpRedbookProbe struct{}

// Probe always reports failure; see NoOpRedbookProbe.
func (NoOpRedbookProbe) Probe(path string) (uint64, error) {
	return 0, &probeError{path: path}
}

type probeError struct{ path string }

func (e *probeError) Error() string {
	return "psxiso: no RedbookProbe configured, cannot probe " + e.path
}
