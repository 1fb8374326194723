// Package extract adapts the tabula PDF engine to the statement parser's
// table model. It renders each page's positioned text fragments and runs
// tabula's geometric table detector under one of two strategies.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/tables"
	"github.com/tsawler/tabula/text"

	"github.com/ledgerlens/statement-parser/internal/domain/statement/parser"
)

// Strategy selects how the detector finds table boundaries.
type Strategy string

const (
	// StrategyBordered relies on drawn lines and rectangles, for
	// statements whose tables have visible gridlines.
	StrategyBordered Strategy = "bordered"

	// StrategyWhitespace relies on whitespace alignment patterns, for
	// statements laid out as aligned text columns.
	StrategyWhitespace Strategy = "whitespace"
)

// Engine extracts statement tables from PDF bytes.
type Engine struct {
	logger        *slog.Logger
	minConfidence float64
}

// NewEngine creates an extraction engine. minConfidence is the detector's
// confidence threshold in [0,1].
func NewEngine(logger *slog.Logger, minConfidence float64) *Engine {
	return &Engine{
		logger:        logger,
		minConfidence: minConfidence,
	}
}

// Extract runs table detection across all pages with the given strategy.
// Each detected table's first row is promoted to headers, matching how
// dataframe-style extractors present tables.
func (e *Engine) Extract(ctx context.Context, pdf []byte, strategy Strategy) ([]parser.Table, error) {
	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(pdf); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	r, err := reader.Open(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer r.Close()

	pageCount, err := r.PageCount()
	if err != nil {
		return nil, fmt.Errorf("failed to read page count: %w", err)
	}

	detector := tables.NewGeometricDetector()
	if err := detector.Configure(configFor(strategy, e.minConfidence)); err != nil {
		return nil, fmt.Errorf("failed to configure detector: %w", err)
	}

	var out []parser.Table
	for i := 0; i < pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pdfPage, err := r.GetPage(i)
		if err != nil {
			e.logger.Warn("skipping unreadable page", slog.Int("page", i+1), slog.Any("error", err))
			continue
		}

		fragments, err := r.ExtractTextFragments(pdfPage)
		if err != nil {
			e.logger.Warn("skipping page without text", slog.Int("page", i+1), slog.Any("error", err))
			continue
		}
		if len(fragments) == 0 {
			continue
		}

		width, _ := pdfPage.Width()
		height, _ := pdfPage.Height()

		page := model.NewPage(width, height)
		page.Number = i + 1
		page.RawText = toModelFragments(fragments)

		detected, err := detector.Detect(page)
		if err != nil {
			e.logger.Warn("table detection failed", slog.Int("page", i+1), slog.Any("error", err))
			continue
		}

		for _, mt := range detected {
			if t, ok := toTable(mt); ok {
				out = append(out, t)
			}
		}
	}

	e.logger.Debug("extraction finished",
		slog.String("strategy", string(strategy)),
		slog.Int("pages", pageCount),
		slog.Int("tables", len(out)),
	)
	return out, nil
}

// ExtractAuto tries the bordered strategy first and falls back to the
// whitespace strategy when bordered detection yields no tables, or only
// tables with fewer than 2 data rows. The fallback result is returned even
// when it is no better; the caller decides what an empty result means.
func (e *Engine) ExtractAuto(ctx context.Context, pdf []byte) ([]parser.Table, Strategy, error) {
	out, err := e.Extract(ctx, pdf, StrategyBordered)
	if err != nil {
		return nil, StrategyBordered, err
	}
	if usable(out) {
		return out, StrategyBordered, nil
	}

	out, err = e.Extract(ctx, pdf, StrategyWhitespace)
	if err != nil {
		return nil, StrategyWhitespace, err
	}
	return out, StrategyWhitespace, nil
}

// usable reports whether at least one table has enough data rows to be a
// plausible transaction ledger.
func usable(tbls []parser.Table) bool {
	for _, t := range tbls {
		if t.RowCount() >= 2 {
			return true
		}
	}
	return false
}

func configFor(strategy Strategy, minConfidence float64) tables.Config {
	cfg := tables.DefaultConfig()
	cfg.MinConfidence = minConfidence
	switch strategy {
	case StrategyWhitespace:
		cfg.UseLines = false
		cfg.UseWhitespace = true
	default:
		cfg.UseLines = true
		cfg.UseWhitespace = false
	}
	return cfg
}

func toModelFragments(fragments []text.TextFragment) []model.TextFragment {
	out := make([]model.TextFragment, 0, len(fragments))
	for _, f := range fragments {
		out = append(out, model.TextFragment{
			Text:     f.Text,
			BBox:     model.BBox{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height},
			FontSize: f.FontSize,
			FontName: f.FontName,
		})
	}
	return out
}

// toTable converts a detected table, promoting its first row to headers.
// Tables without at least a header row are dropped.
func toTable(mt *model.Table) (parser.Table, bool) {
	if mt == nil || len(mt.Rows) == 0 {
		return parser.Table{}, false
	}

	grid := make([][]string, 0, len(mt.Rows))
	for _, row := range mt.Rows {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell.Text)
		}
		grid = append(grid, cells)
	}

	return parser.Table{Headers: grid[0], Rows: grid[1:]}, true
}
