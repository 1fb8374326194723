// Package service orchestrates extraction, table selection and
// reconstruction, and keeps the single-slot cache of the most recently
// uploaded document so a corrected mapping can be re-applied without
// re-uploading.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlens/statement-parser/internal/domain/statement/extract"
	"github.com/ledgerlens/statement-parser/internal/domain/statement/parser"
	"github.com/ledgerlens/statement-parser/pkg/metrics"
)

// ErrDocumentNotFound indicates the requested document is no longer cached.
// The slot holds only the most recent upload and expires after a TTL.
var ErrDocumentNotFound = errors.New("document not found or expired")

const noTablesMessage = "no tables found in the document; it may be a scanned image"

// Extractor abstracts the PDF table extraction engine.
type Extractor interface {
	ExtractAuto(ctx context.Context, pdf []byte) ([]parser.Table, extract.Strategy, error)
}

// ParseResponse is the transport-facing parse result. DocumentID references
// the cached upload for re-parse and export calls.
type ParseResponse struct {
	DocumentID uuid.UUID `json:"document_id"`
	FileName   string    `json:"file_name,omitempty"`
	parser.Result
}

// cachedDocument is the single last-write-wins upload slot.
type cachedDocument struct {
	id         uuid.UUID
	name       string
	data       []byte
	uploadedAt time.Time
}

// Service runs the statement parsing pipeline.
type Service struct {
	extractor Extractor
	logger    *slog.Logger
	metrics   *metrics.Metrics // optional, may be nil
	ttl       time.Duration

	mu  sync.RWMutex
	doc *cachedDocument
}

// New creates a Service. ttl bounds how long the last upload stays
// available for re-parse; metrics may be nil.
func New(extractor Extractor, logger *slog.Logger, m *metrics.Metrics, ttl time.Duration) *Service {
	return &Service{
		extractor: extractor,
		logger:    logger,
		metrics:   m,
		ttl:       ttl,
	}
}

// Parse runs the full pipeline on a freshly uploaded document and caches
// its bytes for later re-parse. The result is always recomputed wholesale;
// no state carries over between calls.
func (s *Service) Parse(ctx context.Context, fileName string, pdf []byte) (*ParseResponse, error) {
	id := uuid.New()

	s.mu.Lock()
	s.doc = &cachedDocument{id: id, name: fileName, data: pdf, uploadedAt: time.Now()}
	s.mu.Unlock()

	result, err := s.run(ctx, pdf, nil)
	if err != nil {
		return nil, err
	}

	return &ParseResponse{DocumentID: id, FileName: fileName, Result: *result}, nil
}

// Reparse re-runs the pipeline on the cached document with a caller-edited
// column mapping (the override path).
func (s *Service) Reparse(ctx context.Context, docID uuid.UUID, mapping parser.ColumnMapping) (*ParseResponse, error) {
	doc, err := s.lookup(docID)
	if err != nil {
		return nil, err
	}

	result, err := s.run(ctx, doc.data, mapping)
	if err != nil {
		return nil, err
	}

	return &ParseResponse{DocumentID: doc.id, FileName: doc.name, Result: *result}, nil
}

// Ledgers recomputes the parse for the cached document, for export. Parsing
// is deterministic, so the ledgers match what the upload returned.
func (s *Service) Ledgers(ctx context.Context, docID uuid.UUID) (*parser.Result, error) {
	doc, err := s.lookup(docID)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, doc.data, nil)
}

// ExpireStale clears the upload slot once it outlives the TTL. Called
// periodically by the scheduler.
func (s *Service) ExpireStale(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc != nil && now.Sub(s.doc.uploadedAt) > s.ttl {
		s.logger.Info("expiring cached document",
			slog.String("document_id", s.doc.id.String()),
			slog.Time("uploaded_at", s.doc.uploadedAt),
		)
		s.doc = nil
	}
}

func (s *Service) lookup(docID uuid.UUID) (*cachedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc == nil || s.doc.id != docID {
		return nil, ErrDocumentNotFound
	}
	return s.doc, nil
}

// run executes extract → select → reconstruct. A nil mapping means
// automatic column resolution; otherwise the override path is used.
func (s *Service) run(ctx context.Context, pdf []byte, mapping parser.ColumnMapping) (*parser.Result, error) {
	start := time.Now()

	tables, strategy, err := s.extractor.ExtractAuto(ctx, pdf)
	if err != nil {
		s.observe("error", start, 0)
		return nil, err
	}
	if strategy == extract.StrategyWhitespace && s.metrics != nil {
		s.metrics.ExtractionRetries.Inc()
	}

	working, ok := parser.SelectWorking(tables)
	if !ok {
		s.logger.Warn("no tables extracted from document")
		s.observe("no_tables", start, 0)
		return &parser.Result{
			Withdrawals:   []parser.Entry{},
			Deposits:      []parser.Entry{},
			Headers:       []string{},
			ColumnMapping: parser.ColumnMapping{},
			Error:         noTablesMessage,
		}, nil
	}

	var result parser.Result
	if mapping == nil {
		result = parser.Reconstruct(working)
	} else {
		result = parser.ReconstructWithMapping(working, mapping)
	}

	s.logger.Info("parsed statement",
		slog.String("strategy", string(strategy)),
		slog.Int("total_rows", result.TotalRows),
		slog.Int("withdrawals", len(result.Withdrawals)),
		slog.Int("deposits", len(result.Deposits)),
	)
	s.observe("ok", start, result.TotalRows)

	return &result, nil
}

func (s *Service) observe(outcome string, start time.Time, rows int) {
	if s.metrics == nil {
		return
	}
	s.metrics.ParsesTotal.WithLabelValues(outcome).Inc()
	s.metrics.ParseDuration.Observe(time.Since(start).Seconds())
	if rows > 0 {
		s.metrics.RowsReconstructed.Add(float64(rows))
	}
}
