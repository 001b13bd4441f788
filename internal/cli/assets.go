package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brandforge/pipeline/internal/mockup"
	"github.com/brandforge/pipeline/pkg/logger"
)

var (
	assetsRunDir             string
	assetsOptionNumber       int
	assetsMockupMetadataPath string
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Run Phase 2: build the full asset kit for a chosen direction",
	RunE:  runAssets,
}

func init() {
	assetsCmd.Flags().StringVar(&assetsRunDir, "run-dir", "", "the run directory produced by the logos command (required)")
	assetsCmd.Flags().IntVar(&assetsOptionNumber, "option", 0, "option_number of the chosen direction (required)")
	assetsCmd.Flags().StringVar(&assetsMockupMetadataPath, "mockup-metadata", "", "path to mockup metadata JSON (optional)")
	assetsCmd.MarkFlagRequired("run-dir")
	assetsCmd.MarkFlagRequired("option")
}

func runAssets(cmd *cobra.Command, args []string) error {
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

	logos, err := readLogosResult(assetsRunDir)
	if err != nil {
		return err
	}
	if !logos.Success {
		return fmt.Errorf("run at %s has no successful logos phase", assetsRunDir)
	}
	chosen, ok := logos.Directions.ByOptionNumber(assetsOptionNumber)
	if !ok {
		return fmt.Errorf("unknown option_number %d", assetsOptionNumber)
	}
	assets, ok := logos.AssetsByOption[assetsOptionNumber]
	if !ok || assets.Logo == "" {
		return fmt.Errorf("option_number %d has no logo to build from", assetsOptionNumber)
	}

	brief, err := readBrief(assetsRunDir)
	if err != nil {
		return err
	}

	var mockupMetadata []mockup.Metadata
	if assetsMockupMetadataPath != "" {
		mockupMetadata, err = mockup.LoadMetadata(assetsMockupMetadataPath)
		if err != nil {
			return fmt.Errorf("load mockup metadata: %w", err)
		}
	}

	result := stack.Runner.RunAssetsPhase(ctx, chosen, brief, assetsRunDir, assets.Logo, mockupMetadata, logProgress(zapLogger))
	if !result.Success {
		return fmt.Errorf("assets phase failed: %s", result.Error)
	}

	fmt.Printf("assets phase complete for option %d, output written to %s\n", assetsOptionNumber, assetsRunDir)
	fmt.Printf("  mockups: %d, social posts: %d\n", len(result.Mockups), len(result.SocialPosts))
	return nil
}
