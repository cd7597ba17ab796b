package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alexanderramin/queuecast/internal/config"
	"github.com/alexanderramin/queuecast/internal/domain"
	"github.com/alexanderramin/queuecast/internal/features"
	"github.com/alexanderramin/queuecast/internal/model"
	"github.com/alexanderramin/queuecast/internal/predict"
)

// Bundle directories under the artifacts dir.
const (
	CompletionBundleDir = "completion"
	StaffingBundleDir   = "staffing"
)

// EngineOptions maps configuration onto predict.Options.
func EngineOptions(cfg config.Config) predict.Options {
	opts := predict.DefaultOptions()
	opts.UnknownPolicy = domain.UnknownPolicy(cfg.Predictor.UnknownPolicy)
	opts.LastResortMinutes = cfg.Predictor.LastResortMinutes
	opts.StaffingFallback = cfg.Predictor.StaffingFallback
	opts.StaffingDefaults = features.StaffingDefaults{
		EmployeesOnDuty: cfg.Features.DefaultEmployeesOnDuty,
		StaffLoadRatio:  cfg.Features.DefaultStaffLoadRatio,
	}
	opts.Rules.DefaultMinutes = cfg.Predictor.DefaultFallbackMinutes
	opts.Rules.JitterPct = cfg.Predictor.JitterPct
	opts.Rules.Seed = cfg.Predictor.Seed
	return opts
}

// LoadArtifacts loads the completion and staffing bundles from dir. A bundle
// directory without a manifest is treated as absent and leaves that kind on
// rules; a manifest that fails to load is an error.
func LoadArtifacts(dir string, logger *slog.Logger) (predict.Artifacts, error) {
	var art predict.Artifacts
	var err error
	if art.Completion, err = loadOptionalBundle(filepath.Join(dir, CompletionBundleDir), logger); err != nil {
		return art, err
	}
	if art.Staffing, err = loadOptionalBundle(filepath.Join(dir, StaffingBundleDir), logger); err != nil {
		return art, err
	}
	return art, nil
}

func loadOptionalBundle(dir string, logger *slog.Logger) (*model.Bundle, error) {
	if _, err := os.Stat(filepath.Join(dir, model.ManifestFile)); errors.Is(err, fs.ErrNotExist) {
		logger.Warn("artifact bundle not found, using rules", "dir", dir)
		return nil, nil
	}
	b, err := model.LoadBundle(dir)
	if err != nil {
		return nil, fmt.Errorf("loading artifacts from %s: %w", dir, err)
	}
	logger.Info("artifact bundle loaded", "name", b.Name, "features", len(b.Features), "dir", dir)
	return b, nil
}

// BuildEngine assembles an Engine from reference data and the configured
// artifacts.
func BuildEngine(ctx context.Context, cfg config.Config, refs ReferenceService, logger *slog.Logger) (*predict.Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ref, err := refs.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading reference data: %w", err)
	}
	art, err := LoadArtifacts(cfg.Data.ArtifactsDir, logger)
	if err != nil {
		return nil, err
	}
	engine, err := predict.NewEngine(ref, art, EngineOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("building engine: %w", err)
	}
	logger.Info("engine ready",
		"mode", engine.Mode(),
		"staffing_mode", engine.StaffingMode(),
		"tasks", len(ref.Tasks),
		"staffing_rows", len(ref.Staffing),
	)
	return engine, nil
}
