// Package cmd provides command-line interface functionality for psxbuild.
// psxbuild is a thin wrapper around the psxiso core: it loads a YAML
// project description, builds the entry tree it declares, and drives the
// layout planner and volume writer. No image-authoring logic lives here.
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.StandardLogger()

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "psxbuild",
	Short: "Pack a project description into a PS1 disc image",
	Long: `psxbuild packs a directory tree described in a YAML project file into
an ISO9660/CD-XA disc image laid out the way PlayStation mastering tools
expect: a fixed 12-sector boot license area, CD-XA extended attributes,
and a two-pass LBA layout that honors any fixed_lba overrides.

Examples:
  psxbuild build project.yaml -o output.bin
  psxbuild listing project.yaml --header files.h --lba-table lba.txt

Use 'psxbuild [command] --help' for more information about a command.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
