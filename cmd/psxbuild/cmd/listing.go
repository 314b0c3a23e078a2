package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kestrelcd/psxiso/psxiso"
	"github.com/kestrelcd/psxiso/psxiso/listing"
	"github.com/kestrelcd/psxiso/psxiso/project"
)

var (
	headerPath   string
	lbaTablePath string
)

var listingCmd = &cobra.Command{
	Use:   "listing <project.yaml>",
	Short: "Emit the header and/or LBA-table listings for a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runListing,
}

func init() {
	listingCmd.Flags().StringVar(&headerPath, "header", "", "write a C header of LBA_<NAME> constants here")
	listingCmd.Flags().StringVar(&lbaTablePath, "lba-table", "", "write a plain-text LBA table here")
	rootCmd.AddCommand(listingCmd)
}

func runListing(c *cobra.Command, args []string) error {
	desc, err := project.Load(args[0])
	if err != nil {
		return err
	}

	buildTime := time.Now().UTC()
	cfg := &psxiso.Config{
		NoXA:      desc.NoXA,
		NewType:   desc.NewType,
		BuildTime: buildTime,
		Probe:     psxiso.NoOpRedbookProbe{},
		Logger:    log,
	}

	img := psxiso.NewImage(cfg, psxiso.NewDateStamp(buildTime, 0), false)
	if err := project.Apply(img.Root, desc.Entries); err != nil {
		return fmt.Errorf("applying project entries: %w", err)
	}
	img.Sort(false, false)
	img.PlanLayout()

	if headerPath != "" {
		f, err := os.Create(headerPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := listing.WriteHeader(f, img.Root); err != nil {
			return fmt.Errorf("writing header listing: %w", err)
		}
	}

	if lbaTablePath != "" {
		f, err := os.Create(lbaTablePath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := listing.WriteLBATable(f, img.Root); err != nil {
			return fmt.Errorf("writing lba table listing: %w", err)
		}
	}

	return nil
}
