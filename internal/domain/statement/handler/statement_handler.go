// Package handler exposes the statement parsing pipeline over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/google/uuid"

	"github.com/ledgerlens/statement-parser/internal/api/middleware"
	"github.com/ledgerlens/statement-parser/internal/domain/statement/parser"
	"github.com/ledgerlens/statement-parser/internal/domain/statement/service"
)

// StatementHandler handles statement upload, re-parse and export endpoints.
type StatementHandler struct {
	svc            *service.Service
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewStatementHandler creates a new statement handler. maxUploadBytes bounds
// the accepted PDF size.
func NewStatementHandler(svc *service.Service, logger *slog.Logger, maxUploadBytes int64) *StatementHandler {
	return &StatementHandler{
		svc:            svc,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes attaches the statement endpoints to the mux.
func (h *StatementHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/statements/parse", h.Parse)
	mux.HandleFunc("POST /api/statements/reparse", h.Reparse)
	mux.HandleFunc("GET /api/statements/{id}/export", h.Export)
	mux.HandleFunc("GET /healthz", h.Health)
}

// Parse handles POST /api/statements/parse. The document arrives either as a
// multipart form with a "file" field or as the raw request body.
func (h *StatementHandler) Parse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	fileName, pdf, err := h.readUpload(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(pdf) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "empty document")
		return
	}

	resp, err := h.svc.Parse(r.Context(), fileName, pdf)
	if err != nil {
		h.logger.Error("failed to parse statement",
			slog.String("file_name", fileName),
			slog.Any("error", err),
		)
		middleware.WriteError(w, http.StatusUnprocessableEntity, "failed to parse document")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// reparseRequest carries a caller-edited column mapping. An index of -1 (or
// an omitted role) means the statement has no such column.
type reparseRequest struct {
	DocumentID    uuid.UUID           `json:"document_id"`
	ColumnMapping map[parser.Role]int `json:"column_mapping"`
}

// Reparse handles POST /api/statements/reparse: re-runs reconstruction on the
// cached document with the supplied mapping.
func (h *StatementHandler) Reparse(w http.ResponseWriter, r *http.Request) {
	var req reparseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DocumentID == uuid.Nil {
		middleware.WriteError(w, http.StatusBadRequest, "document_id is required")
		return
	}
	if req.ColumnMapping == nil {
		middleware.WriteError(w, http.StatusBadRequest, "column_mapping is required")
		return
	}

	resp, err := h.svc.Reparse(r.Context(), req.DocumentID, parser.ColumnMapping(req.ColumnMapping))
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "document not found or expired; upload it again")
			return
		}
		h.logger.Error("failed to reparse statement",
			slog.String("document_id", req.DocumentID.String()),
			slog.Any("error", err),
		)
		middleware.WriteError(w, http.StatusUnprocessableEntity, "failed to parse document")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Export handles GET /api/statements/{id}/export?format=csv|tsv|xlsx&side=withdrawals|deposits.
func (h *StatementHandler) Export(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	format := service.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = service.FormatCSV
	}
	side := service.Side(r.URL.Query().Get("side"))
	if side == "" {
		side = service.SideWithdrawals
	}

	data, contentType, err := h.svc.Export(r.Context(), docID, format, side)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDocumentNotFound):
			middleware.WriteError(w, http.StatusNotFound, "document not found or expired; upload it again")
		case errors.Is(err, service.ErrUnsupportedFormat), errors.Is(err, service.ErrUnsupportedSide):
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to export ledgers",
				slog.String("document_id", docID.String()),
				slog.Any("error", err),
			)
			middleware.WriteError(w, http.StatusInternalServerError, "failed to export ledgers")
		}
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName(format, side)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Health handles GET /healthz.
func (h *StatementHandler) Health(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readUpload pulls the PDF bytes out of the request, accepting both multipart
// form uploads and raw bodies.
func (h *StatementHandler) readUpload(r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, fmt.Errorf("missing \"file\" form field")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read upload")
		}
		return header.Filename, data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read upload")
	}

	fileName := r.URL.Query().Get("filename")
	if fileName == "" {
		fileName = "statement.pdf"
	}
	return fileName, data, nil
}

func exportFileName(format service.ExportFormat, side service.Side) string {
	if format == service.FormatXLSX {
		return "ledgers.xlsx"
	}
	return fmt.Sprintf("%s.%s", side, format)
}
