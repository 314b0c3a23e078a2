package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kestrelcd/psxiso/psxiso"
	"github.com/kestrelcd/psxiso/psxiso/project"
)

var outputPath string

var buildCmd = &cobra.Command{
	Use:   "build <project.yaml>",
	Short: "Build a disc image from a YAML project description",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&outputPath, "output", "o", "output.bin", "output image path")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(c *cobra.Command, args []string) error {
	desc, err := project.Load(args[0])
	if err != nil {
		return err
	}

	buildTime := time.Now().UTC()
	cfg := &psxiso.Config{
		NoXA:      desc.NoXA,
		NewType:   desc.NewType,
		QuietMode: false,
		BuildTime: buildTime,
		Probe:     psxiso.NoOpRedbookProbe{},
		Logger:    log,
	}

	img := psxiso.NewImage(cfg, psxiso.NewDateStamp(buildTime, 0), false)
	if err := project.Apply(img.Root, desc.Entries); err != nil {
		return fmt.Errorf("applying project entries: %w", err)
	}
	img.Sort(false, false)
	length := img.PlanLayout()
	log.Infof("packed %d files in %d directories, image length %d sectors",
		img.Root.FileCount(), img.Root.DirCount(), length)

	license := make([]byte, psxiso.LicenseSectors*psxiso.SectorSizeForm2)
	if desc.LicenseFile != "" {
		data, err := os.ReadFile(desc.LicenseFile)
		if err != nil {
			return fmt.Errorf("reading license file: %w", err)
		}
		copy(license, data)
	}

	stamp := buildTime.Format("20060102150405") + "00"
	ids := psxiso.Identifiers{
		SystemID:         strings.TrimSpace(desc.SystemID),
		VolumeID:         desc.VolumeID,
		VolumeSetID:      desc.VolumeSetID,
		Publisher:        desc.Publisher,
		DataPreparer:     desc.DataPreparer,
		Application:      desc.Application,
		Copyright:        desc.Copyright,
		CreationDate:     stamp,
		ModificationDate: stamp,
	}

	w := psxiso.NewMemorySectorWriter()
	if err := img.Emit(w, license, desc.PS2, ids); err != nil {
		return fmt.Errorf("emitting image: %w", err)
	}

	// MemorySectorWriter is a reference, non-production encoder (see
	// psxiso/sector_writer_memory.go): this dump is a flat 2048-byte-per-
	// sector logical view, useful for inspecting layout, not a real
	// EDC/ECC-scrambled disc image. Production mastering needs a real
	// SectorWriter implementation wired in here instead.
	return dumpImage(w, length, outputPath)
}

func dumpImage(w *psxiso.MemorySectorWriter, totalSectors uint32, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	blank := make([]byte, psxiso.SectorSizeForm1)
	for lba := uint32(0); lba < totalSectors; lba++ {
		data := w.Sector(lba)
		if data == nil {
			data = blank
		}
		n := len(data)
		if n > psxiso.SectorSizeForm1 {
			n = psxiso.SectorSizeForm1
		}
		if _, err := f.Write(data[:n]); err != nil {
			return err
		}
		if n < psxiso.SectorSizeForm1 {
			if _, err := f.Write(blank[n:]); err != nil {
				return err
			}
		}
	}
	return nil
}
