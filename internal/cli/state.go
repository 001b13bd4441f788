package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/config"
	"github.com/brandforge/pipeline/internal/domain"
	"github.com/brandforge/pipeline/internal/wiring"
)

const (
	resultFileName = "logos_result.json"
	briefFileName  = "brief.json"
)

func buildStack(ctx context.Context, logger *zap.Logger) (*wiring.Stack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return wiring.Build(ctx, cfg, logger)
}

func loadBrief(path string) (*domain.Brief, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read brief file: %w", err)
	}
	var brief domain.Brief
	if err := json.Unmarshal(data, &brief); err != nil {
		return nil, fmt.Errorf("parse brief file: %w", err)
	}
	if err := brief.Validate(); err != nil {
		return nil, fmt.Errorf("invalid brief: %w", err)
	}
	return &brief, nil
}

func writeLogosResult(runDir string, result domain.LogosPhaseResult) error {
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("create run directory: %w", err)
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal logos result: %w", err)
	}
	return os.WriteFile(filepath.Join(runDir, resultFileName), data, 0o644)
}

func writeBrief(runDir string, brief *domain.Brief) error {
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("create run directory: %w", err)
	}
	data, err := json.MarshalIndent(brief, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal brief: %w", err)
	}
	return os.WriteFile(filepath.Join(runDir, briefFileName), data, 0o644)
}

func readBrief(runDir string) (*domain.Brief, error) {
	return loadBrief(filepath.Join(runDir, briefFileName))
}

func readLogosResult(runDir string) (domain.LogosPhaseResult, error) {
	var result domain.LogosPhaseResult
	data, err := os.ReadFile(filepath.Join(runDir, resultFileName))
	if err != nil {
		return result, fmt.Errorf("read logos result: %w", err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("parse logos result: %w", err)
	}
	return result, nil
}

func logProgress(logger *zap.Logger) domain.ProgressFunc {
	return func(ev domain.ProgressEvent) {
		logger.Info("progress",
			zap.String("stage", ev.Stage),
			zap.String("status", ev.Status),
			zap.Duration("elapsed", ev.Elapsed),
		)
	}
}
