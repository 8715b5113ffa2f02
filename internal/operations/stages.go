package operations

import (
	"context"
	"log/slog"

	"ridership/internal/dataprocessing"
	apperrors "ridership/internal/errors"
	"ridership/internal/exporter"
	"ridership/internal/scraper"
)

// BootstrapStep creates the raw and processed data directories
type BootstrapStep struct{}

// NewBootstrapStep creates the directory bootstrap step
func NewBootstrapStep() *BootstrapStep { return &BootstrapStep{} }

func (s *BootstrapStep) ID() string   { return StepIDBootstrap }
func (s *BootstrapStep) Name() string { return "Directory Bootstrap" }

// Execute ensures state.Paths' directories exist
func (s *BootstrapStep) Execute(ctx context.Context, state *OperationState) error {
	if state.Paths == nil {
		return apperrors.NewConfigError("paths are not configured", nil)
	}
	return state.Paths.EnsureDirectories()
}

// Fetcher downloads a raw ridership file; *scraper.Scraper implements it
type Fetcher interface {
	Run(ctx context.Context, outPath string) (scraper.Result, error)
}

// ScrapeStep refreshes the raw input file before it is loaded
type ScrapeStep struct {
	fetcher Fetcher
}

// NewScrapeStep creates the scrape step
func NewScrapeStep(fetcher Fetcher) *ScrapeStep {
	return &ScrapeStep{fetcher: fetcher}
}

func (s *ScrapeStep) ID() string   { return StepIDScrape }
func (s *ScrapeStep) Name() string { return "Scrape Raw Data" }

// Execute writes a fresh raw table to state.InputPath
func (s *ScrapeStep) Execute(ctx context.Context, state *OperationState) error {
	result, err := s.fetcher.Run(ctx, state.InputPath)
	if err != nil {
		return err
	}
	state.RecordRows(s.ID(), result.Rows)
	return nil
}

// LoadStep reads the raw input table
type LoadStep struct {
	loader *dataprocessing.Loader
}

// NewLoadStep creates the load step
func NewLoadStep(logger *slog.Logger) *LoadStep {
	return &LoadStep{loader: dataprocessing.NewLoader(logger)}
}

func (s *LoadStep) ID() string   { return StepIDLoad }
func (s *LoadStep) Name() string { return "Load Raw Data" }

// Execute loads state.InputPath into state.Raw
func (s *LoadStep) Execute(ctx context.Context, state *OperationState) error {
	df, err := s.loader.Load(state.InputPath)
	if err != nil {
		return err
	}
	state.Raw = df
	state.RecordRows(s.ID(), df.Nrow())
	return nil
}

// TransformStep derives the cleaned table from the raw one
type TransformStep struct {
	transformer *dataprocessing.Transformer
}

// NewTransformStep creates the transform step rounding ridership_per_day to precision places
func NewTransformStep(precision int32, logger *slog.Logger) *TransformStep {
	return &TransformStep{transformer: dataprocessing.NewTransformer(precision, logger)}
}

func (s *TransformStep) ID() string   { return StepIDTransform }
func (s *TransformStep) Name() string { return "Transform" }

// Execute transforms state.Raw into state.Result
func (s *TransformStep) Execute(ctx context.Context, state *OperationState) error {
	df, err := s.transformer.Transform(state.Raw)
	if err != nil {
		return err
	}
	state.Result = df
	state.RecordRows(s.ID(), df.Nrow())
	return nil
}

// SaveStep writes the cleaned table
type SaveStep struct {
	saver *exporter.Saver
}

// NewSaveStep creates the save step
func NewSaveStep(logger *slog.Logger) *SaveStep {
	return &SaveStep{saver: exporter.NewSaver(logger)}
}

func (s *SaveStep) ID() string   { return StepIDSave }
func (s *SaveStep) Name() string { return "Save Cleaned Data" }

// Execute saves state.Result to state.OutputPath
func (s *SaveStep) Execute(ctx context.Context, state *OperationState) error {
	if err := s.saver.Save(state.Result, state.OutputPath); err != nil {
		return err
	}
	state.RecordRows(s.ID(), state.Result.Nrow())
	return nil
}
