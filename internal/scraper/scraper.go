package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"

	"ridership/internal/config"
	apperrors "ridership/internal/errors"
	"ridership/internal/exporter"
	"ridership/internal/infrastructure"
)

// Result summarizes a scrape
type Result struct {
	Path  string
	Pages int
	// Rows counts data rows written, header excluded.
	Rows int
}

// Scraper downloads the monthly ridership tables into a raw CSV file
type Scraper struct {
	cfg     config.ScraperConfig
	writer  *exporter.CSVWriter
	metrics *infrastructure.PipelineMetrics
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a scraper. metrics may be nil.
func New(cfg config.ScraperConfig, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{
		cfg:     cfg,
		writer:  exporter.NewCSVWriter(logger),
		metrics: metrics,
		limiter: newLimiter(cfg.PageDelay),
		logger:  logger,
	}
}

// newLimiter allows one page request per delay; zero means unlimited
func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// Run opens a browser, walks every year and month on the ridership page and writes
// the combined table to outPath with the header once. Browser failures are
// NETWORK errors; file failures are FILESYSTEM errors.
func (s *Scraper) Run(ctx context.Context, outPath string) (Result, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOptions(s.cfg)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	s.logger.InfoContext(ctx, "Starting browser",
		slog.String("url", s.cfg.URL),
		slog.Bool("headless", s.cfg.Headless))

	return s.scrape(browserCtx, &chromePage{cfg: s.cfg}, outPath)
}

func (s *Scraper) scrape(ctx context.Context, p page, outPath string) (Result, error) {
	result := Result{Path: outPath}

	if err := p.Open(ctx); err != nil {
		return result, apperrors.NewNetworkError("open "+s.cfg.URL, err)
	}

	routes, err := s.options(ctx, p, s.cfg.RouteSelector)
	if err != nil {
		return result, err
	}
	months, err := s.options(ctx, p, s.cfg.MonthSelector)
	if err != nil {
		return result, err
	}
	years, err := s.options(ctx, p, s.cfg.YearSelector)
	if err != nil {
		return result, err
	}

	s.logger.InfoContext(ctx, "Options available",
		slog.Any("routes", routes),
		slog.Any("months", months),
		slog.Any("years", years))

	stream, err := s.writer.CreateStreamWriter(outPath, nil)
	if err != nil {
		return result, err
	}
	defer stream.Close()

	total := len(years) * len(months)
	includeHeader := true

	for _, year := range years {
		if err := p.Select(ctx, s.cfg.YearSelector, year); err != nil {
			return result, apperrors.NewNetworkError("select year "+year, err)
		}

		for _, month := range months {
			if err := s.limiter.Wait(ctx); err != nil {
				return result, apperrors.NewNetworkError("wait for next page", err)
			}

			rows, err := s.fetchPage(ctx, p, year, month, includeHeader)
			if err != nil {
				return result, err
			}

			for _, row := range rows {
				if err := stream.WriteRecord(row); err != nil {
					return result, apperrors.NewFilesystemError("write "+outPath, err)
				}
			}
			if err := stream.Flush(); err != nil {
				return result, apperrors.NewFilesystemError("flush "+outPath, err)
			}

			dataRows := len(rows)
			if includeHeader && len(rows) > 0 {
				includeHeader = false
				dataRows--
			}
			result.Rows += dataRows
			result.Pages++
			s.recordPage(ctx, dataRows)

			s.logger.InfoContext(ctx, "Scrape progress",
				slog.String("year", year),
				slog.String("month", month),
				slog.Int("done", result.Pages),
				slog.Int("total", total),
				slog.Float64("percentage", float64(result.Pages)/float64(total)*100))
		}
	}

	if err := stream.Close(); err != nil {
		return result, apperrors.NewFilesystemError("close "+outPath, err)
	}

	s.logger.InfoContext(ctx, "Scrape completed",
		slog.String("file", outPath),
		slog.Int("pages", result.Pages),
		slog.Int("rows", result.Rows))

	return result, nil
}

func (s *Scraper) options(ctx context.Context, p page, selector string) ([]string, error) {
	values, err := p.Options(ctx, selector)
	if err != nil {
		return nil, apperrors.NewNetworkError("read options of "+selector, err)
	}
	return FilterOptions(values), nil
}

func (s *Scraper) fetchPage(ctx context.Context, p page, year, month string, includeHeader bool) ([][]string, error) {
	if err := p.Select(ctx, s.cfg.MonthSelector, month); err != nil {
		return nil, apperrors.NewNetworkError("select month "+month, err)
	}
	if err := p.Submit(ctx); err != nil {
		return nil, apperrors.NewNetworkError("submit "+year+"-"+month, err)
	}

	table, err := p.Table(ctx)
	if err != nil {
		return nil, apperrors.NewNetworkError("read table for "+year+"-"+month, err).
			WithContext("year", year).
			WithContext("month", month)
	}
	return TableRows(table, includeHeader), nil
}

func (s *Scraper) recordPage(ctx context.Context, rows int) {
	if s.metrics == nil {
		return
	}
	s.metrics.PagesTotal.Add(ctx, 1)
	if rows > 0 {
		s.metrics.RowsTotal.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("step", "scrape")))
	}
}
