package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/ledgerlens/statement-parser/internal/domain/statement/parser"
)

// ExportFormat selects the serialization for ledger export.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatTSV  ExportFormat = "tsv" // tab-separated, pasteable into spreadsheets
	FormatXLSX ExportFormat = "xlsx"
)

// Side selects which ledger a CSV/TSV export serializes.
type Side string

const (
	SideWithdrawals Side = "withdrawals"
	SideDeposits    Side = "deposits"
)

// ErrUnsupportedFormat indicates an unknown export format was requested.
var ErrUnsupportedFormat = fmt.Errorf("unsupported export format")

// ErrUnsupportedSide indicates an unknown ledger side was requested.
var ErrUnsupportedSide = fmt.Errorf("unsupported export side")

// exportRow is the flat shape gocsv serializes.
type exportRow struct {
	Date        string  `csv:"date"`
	Description string  `csv:"description"`
	Amount      float64 `csv:"amount"`
}

// Export recomputes the cached document's ledgers and serializes them.
// CSV and TSV carry a single side; XLSX carries both as separate sheets.
// Returns the payload and its content type.
func (s *Service) Export(ctx context.Context, docID uuid.UUID, format ExportFormat, side Side) ([]byte, string, error) {
	if side != SideWithdrawals && side != SideDeposits {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedSide, side)
	}

	result, err := s.Ledgers(ctx, docID)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case FormatCSV:
		data, err := marshalDelimited(pick(result, side), ',')
		return data, "text/csv", err
	case FormatTSV:
		data, err := marshalDelimited(pick(result, side), '\t')
		return data, "text/tab-separated-values", err
	case FormatXLSX:
		data, err := marshalWorkbook(result)
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func pick(result *parser.Result, side Side) []parser.Entry {
	if side == SideDeposits {
		return result.Deposits
	}
	return result.Withdrawals
}

func marshalDelimited(entries []parser.Entry, delimiter rune) ([]byte, error) {
	rows := make([]exportRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, exportRow{Date: e.Date, Description: e.Description, Amount: e.Amount})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delimiter

	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(w)); err != nil {
		return nil, fmt.Errorf("failed to marshal ledger: %w", err)
	}
	return buf.Bytes(), nil
}

func marshalWorkbook(result *parser.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const first = "Withdrawals"
	if err := f.SetSheetName("Sheet1", first); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet("Deposits"); err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	if err := writeSheet(f, first, result.Withdrawals); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "Deposits", result.Deposits); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, entries []parser.Entry) error {
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Date", "Description", "Amount"}); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{e.Date, e.Description, e.Amount}); err != nil {
			return fmt.Errorf("failed to write ledger row: %w", err)
		}
	}
	return nil
}
