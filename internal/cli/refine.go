package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brandforge/pipeline/pkg/logger"
)

var (
	refineRunDir   string
	refineFeedback string
	refineTargets  string
)

var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Re-run Phase 1 against feedback, regenerating all or a targeted subset of directions",
	RunE:  runRefine,
}

func init() {
	refineCmd.Flags().StringVar(&refineRunDir, "run-dir", "", "the run directory produced by the logos command (required)")
	refineCmd.Flags().StringVar(&refineFeedback, "feedback", "", "refinement feedback (required)")
	refineCmd.Flags().StringVar(&refineTargets, "targets", "", "comma-separated option_numbers to target (default: all four)")
	refineCmd.MarkFlagRequired("run-dir")
	refineCmd.MarkFlagRequired("feedback")
}

func runRefine(cmd *cobra.Command, args []string) error {
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

	previous, err := readLogosResult(refineRunDir)
	if err != nil {
		return err
	}
	if !previous.Success {
		return fmt.Errorf("run at %s has no successful logos phase to refine", refineRunDir)
	}

	targets, err := parseTargets(refineTargets)
	if err != nil {
		return err
	}

	brief, err := readBrief(refineRunDir)
	if err != nil {
		return err
	}

	result := stack.Runner.RunRefinePhase(ctx, brief, previous, refineFeedback, targets, refineRunDir, logProgress(zapLogger))
	if err := writeLogosResult(refineRunDir, result); err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("refine phase failed: %s", result.Error)
	}

	fmt.Printf("refined run at %s\n", refineRunDir)
	for _, d := range result.Directions.Directions {
		status := result.PerDirection[d.OptionNumber]
		fmt.Printf("  option %d: %s (%s)\n", d.OptionNumber, d.DirectionName, status.Status)
	}
	return nil
}

func parseTargets(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	targets := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid target option_number %q: %w", p, err)
		}
		targets = append(targets, n)
	}
	return targets, nil
}
