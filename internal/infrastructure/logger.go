package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"ridership/internal/config"
)

// Process-wide logger installed by InitializeLogger, and the log file it may hold open.
var (
	defaultLogger *slog.Logger
	installOnce   sync.Once

	logFileMu sync.Mutex
	logFile   *os.File
)

type traceIDKey struct{}

// InitializeLogger builds the run logger from cfg and installs it as slog's default.
// Console output goes to console. Later calls return the first logger unchanged.
func InitializeLogger(cfg config.LoggingConfig, console io.Writer) (*slog.Logger, error) {
	var err error
	installOnce.Do(func() {
		defaultLogger, err = NewLogger(cfg, console)
		if defaultLogger != nil {
			slog.SetDefault(defaultLogger)
		}
	})
	return defaultLogger, err
}

// NewLogger builds a JSON or text logger that stamps records with the run's trace_id.
// cfg.Output selects console, file or both; a file is opened for append and stays
// open until CloseLogFile.
func NewLogger(cfg config.LoggingConfig, console io.Writer) (*slog.Logger, error) {
	w, err := logWriter(cfg, console)
	if err != nil {
		return nil, err
	}

	level := levelFor(cfg.Level)
	opts := &slog.HandlerOptions{
		AddSource: level == slog.LevelDebug,
		Level:     level,
	}

	var handler slog.Handler = slog.NewJSONHandler(w, opts)
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(traceIDHandler{handler}), nil
}

func logWriter(cfg config.LoggingConfig, console io.Writer) (io.Writer, error) {
	output := strings.ToLower(cfg.Output)
	if output != "file" && output != "both" {
		return console, nil
	}

	file, err := appendLogFile(cfg.FilePath)
	if err != nil {
		return nil, err
	}
	keepLogFile(file)

	if output == "file" {
		return file, nil
	}
	return io.MultiWriter(console, file), nil
}

// traceIDHandler adds trace_id to every record logged with a run context
type traceIDHandler struct {
	slog.Handler
}

func (h traceIDHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := GetTraceID(ctx); id != "" {
		r.AddAttrs(slog.String("trace_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h traceIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return traceIDHandler{h.Handler.WithAttrs(attrs)}
}

func (h traceIDHandler) WithGroup(name string) slog.Handler {
	return traceIDHandler{h.Handler.WithGroup(name)}
}

// levelFor maps a configured level name to a slog level; unknown names mean info
func levelFor(name string) slog.Level {
	if strings.EqualFold(name, "warning") {
		return slog.LevelWarn
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// WithTraceID returns ctx carrying the run's trace ID
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// GetTraceID returns the trace ID on ctx, or "" when there is none
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// CloseLogFile closes the log file opened by NewLogger, if any
func CloseLogFile() error {
	logFileMu.Lock()
	defer logFileMu.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// ResetLoggerForTesting closes the log file and lets InitializeLogger run again
func ResetLoggerForTesting() {
	_ = CloseLogFile()
	defaultLogger = nil
	installOnce = sync.Once{}
}

func keepLogFile(file *os.File) {
	logFileMu.Lock()
	defer logFileMu.Unlock()

	if logFile != nil {
		logFile.Close()
	}
	logFile = file
}

func appendLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}
