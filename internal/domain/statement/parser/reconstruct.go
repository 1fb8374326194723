package parser

import (
	"strings"
)

// Reconstruct interprets a selected table into withdrawal and deposit
// ledgers, resolving the column mapping automatically. Resolution is an
// ordered pipeline, each step running only if the previous one bound fewer
// than two roles:
//
//  1. classify the declared headers;
//  2. classify the first data row — extraction engines sometimes emit the
//     true header row as data — and on success promote it to headers;
//  3. fall back to a positional layout keyed by column count.
func Reconstruct(t Table) Result {
	headers, rows := t.Headers, t.Rows

	mapping := ClassifyColumns(headers)
	if len(mapping) < 2 && len(rows) > 0 {
		if m := ClassifyColumns(rows[0]); len(m) >= 2 {
			headers = rows[0]
			rows = rows[1:]
			mapping = m
		}
	}
	if len(mapping) < 2 {
		mapping = positionalMapping(len(headers), mapping)
	}

	return reconstruct(headers, rows, mapping)
}

// ReconstructWithMapping interprets the table using a caller-supplied
// mapping, for the edit-and-reparse workflow. The mapping is taken as-is
// (negative indices dropped), but the first-row header promotion check still
// runs so header/data alignment stays correct after a user edit.
func ReconstructWithMapping(t Table, mapping ColumnMapping) Result {
	headers, rows := t.Headers, t.Rows

	if len(rows) > 0 {
		if m := ClassifyColumns(rows[0]); len(m) >= 2 {
			headers = rows[0]
			rows = rows[1:]
		}
	}

	return reconstruct(headers, rows, mapping.Normalized())
}

// positionalMapping is the last-resort layout heuristic. Tables with fewer
// than 3 columns keep whatever partial mapping classification produced.
func positionalMapping(columns int, bound ColumnMapping) ColumnMapping {
	switch {
	case columns >= 5:
		return ColumnMapping{RoleDate: 0, RoleDescription: 1, RoleWithdrawal: 2, RoleDeposit: 3, RoleBalance: 4}
	case columns == 4:
		return ColumnMapping{RoleDate: 0, RoleDescription: 1, RoleWithdrawal: 2, RoleDeposit: 3}
	case columns == 3:
		return ColumnMapping{RoleDate: 0, RoleDescription: 1, RoleWithdrawal: 2}
	default:
		return bound
	}
}

func reconstruct(headers []string, rows [][]string, mapping ColumnMapping) Result {
	res := Result{
		Withdrawals:   []Entry{},
		Deposits:      []Entry{},
		Headers:       headers,
		ColumnMapping: mapping,
		TotalRows:     len(rows),
	}

	lastDate := ""
	for _, raw := range rows {
		row := padRow(raw, len(headers))

		dateText := cellAt(row, mapping, RoleDate)
		desc := cellAt(row, mapping, RoleDescription)
		wdText := cellAt(row, mapping, RoleWithdrawal)
		dpText := cellAt(row, mapping, RoleDeposit)

		if desc == "" && wdText == "" && dpText == "" {
			continue
		}
		if looksLikeHeaderRow(row) {
			continue
		}
		if isNoiseDescription(desc) {
			continue
		}

		// Statements commonly print the date only on the first line of a
		// multi-line transaction; carry the last seen date forward.
		current := lastDate
		if IsDateToken(dateText) {
			current = dateText
			lastDate = dateText
		}

		wd, wdOK := NormalizeAmount(wdText)
		dp, dpOK := NormalizeAmount(dpText)

		if !wdOK && !dpOK {
			// No amount on either side: a wrapped continuation of the
			// previous transaction's description.
			if desc != "" {
				appendContinuation(&res, desc)
			}
			continue
		}

		if wdOK && wd.IsPositive() {
			res.Withdrawals = append(res.Withdrawals, Entry{Date: current, Description: desc, Amount: roundAmount(wd)})
		}
		if dpOK && dp.IsPositive() {
			res.Deposits = append(res.Deposits, Entry{Date: current, Description: desc, Amount: roundAmount(dp)})
		}
	}

	if len(res.Withdrawals) == 0 && len(res.Deposits) == 0 {
		reconstructSingleAmount(&res, headers, rows, mapping, lastDate)
	}

	return res
}

// appendContinuation attaches wrapped description text to the most recently
// created entry. When both sides have entries, the side with at least as
// many entries as the other wins (withdrawals on ties). With no entries on
// either side the text has no anchor and is discarded.
func appendContinuation(res *Result, desc string) {
	var target []Entry
	switch {
	case len(res.Withdrawals) > 0 && len(res.Deposits) > 0:
		if len(res.Withdrawals) >= len(res.Deposits) {
			target = res.Withdrawals
		} else {
			target = res.Deposits
		}
	case len(res.Withdrawals) > 0:
		target = res.Withdrawals
	case len(res.Deposits) > 0:
		target = res.Deposits
	default:
		return
	}
	target[len(target)-1].Description += " " + desc
}

// reconstructSingleAmount is the fallback for ledgers that carry one signed
// amount column instead of separate withdrawal/deposit columns. It scans
// every non-date, non-description column per row and routes the first
// nonzero amount by the sign of its raw text: a leading "-" or "(" means
// withdrawal, anything else deposit.
func reconstructSingleAmount(res *Result, headers []string, rows [][]string, mapping ColumnMapping, lastDate string) {
	dateIdx := indexOr(mapping, RoleDate, 0)
	descIdx := indexOr(mapping, RoleDescription, 1)
	mappedDate := indexOr(mapping, RoleDate, -1)
	mappedDesc := indexOr(mapping, RoleDescription, -1)

	for _, raw := range rows {
		row := padRow(raw, len(headers))

		desc := cellText(row, descIdx)
		if desc == "" {
			continue
		}

		current := lastDate
		if dateText := cellText(row, dateIdx); IsDateToken(dateText) {
			current = dateText
			lastDate = dateText
		}

		for ci := range row {
			if ci == mappedDate || ci == mappedDesc {
				continue
			}
			amt, ok := NormalizeAmount(row[ci])
			if !ok || amt.IsZero() {
				continue
			}
			entry := Entry{Date: current, Description: desc, Amount: roundAmount(amt.Abs())}
			rawText := strings.TrimSpace(row[ci])
			if strings.HasPrefix(rawText, "-") || strings.HasPrefix(rawText, "(") {
				res.Withdrawals = append(res.Withdrawals, entry)
			} else {
				res.Deposits = append(res.Deposits, entry)
			}
			break
		}
	}
}

// padRow extends a short row with empty cells up to the header width so
// indexed access never runs out of bounds.
func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

// cellAt resolves a role through the mapping. An unmapped role, or an index
// outside the row, yields empty text rather than an error.
func cellAt(row []string, mapping ColumnMapping, role Role) string {
	idx, ok := mapping[role]
	if !ok {
		return ""
	}
	return cellText(row, idx)
}

func cellText(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func indexOr(mapping ColumnMapping, role Role, fallback int) int {
	if idx, ok := mapping[role]; ok {
		return idx
	}
	return fallback
}
