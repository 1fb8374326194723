// Package parser turns extracted statement tables into normalized withdrawal
// and deposit ledgers. It is a pure transformation: no I/O, no shared state,
// and identical inputs always yield identical results.
package parser

// Role is the semantic meaning of a statement column.
type Role string

const (
	RoleDate        Role = "date"
	RoleDescription Role = "description"
	RoleWithdrawal  Role = "withdrawal"
	RoleDeposit     Role = "deposit"
	RoleBalance     Role = "balance"
)

// roleOrder is the canonical evaluation order for classification. A header
// token matching several roles binds the first unbound one in this order.
var roleOrder = []Role{RoleDate, RoleDescription, RoleWithdrawal, RoleDeposit, RoleBalance}

// ColumnMapping associates roles with zero-based column indices. A role
// absent from the map means the table has no such column.
type ColumnMapping map[Role]int

// Normalized returns a copy with unknown roles and negative indices removed.
// Caller-supplied mappings use -1 (or omission) to mean "not present".
func (m ColumnMapping) Normalized() ColumnMapping {
	out := make(ColumnMapping, len(m))
	for _, role := range roleOrder {
		if idx, ok := m[role]; ok && idx >= 0 {
			out[role] = idx
		}
	}
	return out
}

// Table is a rectangular grid of text cells produced by the extraction
// engine. Headers is the declared header row; Rows hold the data cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ColumnCount returns the number of declared header columns.
func (t Table) ColumnCount() int { return len(t.Headers) }

// RowCount returns the number of data rows.
func (t Table) RowCount() int { return len(t.Rows) }

// Entry is a single reconstructed transaction. Date is kept as the opaque
// display string from the source document; Amount is non-negative and
// rounded to 2 decimal places.
type Entry struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Result is the sole output of the reconstruction engine. It is recomputed
// wholesale on every parse; entries carry no identity across calls.
type Result struct {
	Withdrawals   []Entry       `json:"withdrawals"`
	Deposits      []Entry       `json:"deposits"`
	Headers       []string      `json:"headers"`
	ColumnMapping ColumnMapping `json:"column_mapping"`
	TotalRows     int           `json:"total_rows"`
	Error         string        `json:"error,omitempty"`
}
