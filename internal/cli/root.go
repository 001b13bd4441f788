// Package cli implements the standalone command-line entrypoint that
// runs the pipeline directly, without the optional HTTP surface.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "brandforge",
	Short: "Turn a brand brief into logo directions and a production asset kit",
	Long: `brandforge runs the brand identity pipeline from the command line:
research the brand, generate four strategically distinct directions with
logos, optionally refine them against feedback, then build the full
asset kit for whichever direction a designer picks.`,
}

func init() {
	rootCmd.AddCommand(logosCmd)
	rootCmd.AddCommand(refineCmd)
	rootCmd.AddCommand(assetsCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
