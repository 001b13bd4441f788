package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/brandforge/pipeline/pkg/logger"
)

var (
	logosBriefPath string
	logosOutputDir string
)

var logosCmd = &cobra.Command{
	Use:   "logos",
	Short: "Run Phase 1: research the brand and generate four logo directions",
	RunE:  runLogos,
}

func init() {
	logosCmd.Flags().StringVar(&logosBriefPath, "brief", "", "path to a brief JSON file (required)")
	logosCmd.Flags().StringVar(&logosOutputDir, "out", "./output", "root directory to write run output under")
	logosCmd.MarkFlagRequired("brief")
}

func runLogos(cmd *cobra.Command, args []string) error {
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

	brief, err := loadBrief(logosBriefPath)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	runDir := filepath.Join(logosOutputDir, runID)

	if err := writeBrief(runDir, brief); err != nil {
		return err
	}

	result := stack.Runner.RunLogosPhase(ctx, brief, runDir, logProgress(zapLogger))
	if err := writeLogosResult(runDir, result); err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("logos phase failed: %s", result.Error)
	}

	fmt.Printf("run %s complete, output written to %s\n", runID, runDir)
	for _, d := range result.Directions.Directions {
		status := result.PerDirection[d.OptionNumber]
		fmt.Printf("  option %d: %s (%s)\n", d.OptionNumber, d.DirectionName, status.Status)
	}
	return nil
}
