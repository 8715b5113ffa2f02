package config

import (
	"log/slog"
	"os"
	"path/filepath"

	apperrors "ridership/internal/errors"
)

// Paths contains the resolved directories and files used by a run.
// This is the single source of truth for file locations; components receive it instead of
// reading package-level constants.
type Paths struct {
	BaseDir      string
	RawDir       string
	ProcessedDir string
	LogsDir      string

	// Well-known data files
	RawFile       string
	ProcessedFile string
}

// NewPaths resolves cfg into absolute paths. Relative entries are joined to cfg.BaseDir,
// which defaults to the current working directory.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, apperrors.NewFilesystemError("resolve working directory", err)
		}
		base = wd
	}

	base, err := filepath.Abs(base)
	if err != nil {
		return nil, apperrors.NewFilesystemError("resolve base directory", err)
	}

	rawDir := resolve(base, cfg.RawDir)
	processedDir := resolve(base, cfg.ProcessedDir)

	return &Paths{
		BaseDir:       base,
		RawDir:        rawDir,
		ProcessedDir:  processedDir,
		LogsDir:       resolve(base, cfg.LogsDir),
		RawFile:       resolve(rawDir, cfg.RawFile),
		ProcessedFile: resolve(processedDir, cfg.ProcessedFile),
	}, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// EnsureDirectories creates the raw-input and processed-output directories.
// Existing directories are left untouched, so calling it repeatedly is safe.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.RawDir,
		p.ProcessedDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewFilesystemError("create directory "+dir, err).WithContext("path", dir)
		}
	}

	return nil
}

// Resolve returns path joined to BaseDir, or cleaned when already absolute. The log
// file and metrics textfile go through it so every configured location shares one root.
func (p *Paths) Resolve(path string) string {
	if path == "" {
		return ""
	}
	return resolve(p.BaseDir, path)
}

// ResolveInput returns path itself when set, otherwise the configured raw file
func (p *Paths) ResolveInput(path string) string {
	if path == "" {
		return p.RawFile
	}
	return path
}

// ResolveOutput returns path itself when set, otherwise the configured processed file
func (p *Paths) ResolveOutput(path string) string {
	if path == "" {
		return p.ProcessedFile
	}
	return path
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Path resolution",
		slog.String("base_dir", p.BaseDir),
		slog.String("raw_dir", p.RawDir),
		slog.String("processed_dir", p.ProcessedDir),
		slog.String("logs_dir", p.LogsDir),
		slog.String("raw_file", p.RawFile),
		slog.String("processed_file", p.ProcessedFile))
}
