package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brandforge/pipeline/pkg/logger"
)

var (
	stylescapeRunDir       string
	stylescapeOptionNumber int
)

var stylescapeCmd = &cobra.Command{
	Use:   "stylescape",
	Short: "Generate a single presentation image for a direction's logo, palette, and typography",
	RunE:  runStylescape,
}

func init() {
	stylescapeCmd.Flags().StringVar(&stylescapeRunDir, "run-dir", "", "the run directory produced by the logos command (required)")
	stylescapeCmd.Flags().IntVar(&stylescapeOptionNumber, "option", 0, "option_number of the direction (required)")
	stylescapeCmd.MarkFlagRequired("run-dir")
	stylescapeCmd.MarkFlagRequired("option")
	rootCmd.AddCommand(stylescapeCmd)
}

func runStylescape(cmd *cobra.Command, args []string) error {
	zapLogger, err := logger.NewLogger("development")
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()
	stack, err := buildStack(ctx, zapLogger)
	if err != nil {
		return err
	}

	logos, err := readLogosResult(stylescapeRunDir)
	if err != nil {
		return err
	}
	chosen, ok := logos.Directions.ByOptionNumber(stylescapeOptionNumber)
	if !ok {
		return fmt.Errorf("unknown option_number %d", stylescapeOptionNumber)
	}
	assets := logos.AssetsByOption[stylescapeOptionNumber]

	path, err := stack.Stylescape.Generate(ctx, stylescapeRunDir, chosen, assets)
	if err != nil {
		return err
	}

	fmt.Printf("stylescape written to %s\n", path)
	return nil
}
