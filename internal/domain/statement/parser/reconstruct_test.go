package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerTable(rows ...[]string) Table {
	return Table{
		Headers: []string{"Date", "Description", "Withdrawal", "Deposit", "Balance"},
		Rows:    rows,
	}
}

func TestReconstruct(t *testing.T) {
	t.Run("end to end", func(t *testing.T) {
		res := Reconstruct(ledgerTable(
			[]string{"Jan 2", "Coffee Shop", "4.50", "", "995.50"},
			[]string{"Jan 3", "Payroll", "", "1500.00", "2495.50"},
		))

		require.Len(t, res.Withdrawals, 1)
		assert.Equal(t, Entry{Date: "Jan 2", Description: "Coffee Shop", Amount: 4.50}, res.Withdrawals[0])
		require.Len(t, res.Deposits, 1)
		assert.Equal(t, Entry{Date: "Jan 3", Description: "Payroll", Amount: 1500.00}, res.Deposits[0])
		assert.Equal(t, 2, res.TotalRows)
		assert.Empty(t, res.Error)
	})

	t.Run("date carry-forward", func(t *testing.T) {
		res := Reconstruct(ledgerTable(
			[]string{"Jan 2", "Coffee", "4.50", "", ""},
			[]string{"", "Lunch", "12.00", "", ""},
		))

		require.Len(t, res.Withdrawals, 2)
		assert.Equal(t, "Jan 2", res.Withdrawals[0].Date)
		assert.Equal(t, "Jan 2", res.Withdrawals[1].Date)
	})

	t.Run("continuation line merges into previous description", func(t *testing.T) {
		res := Reconstruct(ledgerTable(
			[]string{"Jan 2", "Wire transfer", "500.00", "", ""},
			[]string{"", "ref #4471", "", "", ""},
		))

		require.Len(t, res.Withdrawals, 1)
		assert.Equal(t, "Wire transfer ref #4471", res.Withdrawals[0].Description)
		assert.Equal(t, 500.00, res.Withdrawals[0].Amount)
		assert.Empty(t, res.Deposits)
	})

	t.Run("continuation tie-break prefers side with more entries", func(t *testing.T) {
		res := Reconstruct(ledgerTable(
			[]string{"Jan 2", "Groceries", "80.00", "", ""},
			[]string{"Jan 3", "Refund", "", "15.00", ""},
			[]string{"Jan 4", "Gas", "40.00", "", ""},
			[]string{"", "station 12", "", "", ""},
		))

		require.Len(t, res.Withdrawals, 2)
		assert.Equal(t, "Gas station 12", res.Withdrawals[1].Description)
		require.Len(t, res.Deposits, 1)
		assert.Equal(t, "Refund", res.Deposits[0].Description)
	})

	t.Run("continuation with equal counts goes to withdrawals", func(t *testing.T) {
		res := Reconstruct(ledgerTable(
			[]string{"Jan 2", "Groceries", "80.00", "", ""},
			[]string{"Jan 3", "Refund", "", "15.00", ""},
			[]string{"", "order 9", "", "", ""},
		))

		assert.Equal(t, "Groceries order 9", res.Withdrawals[0].Description)
		assert.Equal(t, "Refund", res.Deposits[0].Description)
	})

	t.Run("continuation with no anchor is discarded", func(t *testing.T) {
		res := Reconstruct(ledgerTable(
			[]string{"", "orphan text", "", "", ""},
			[]string{"Jan 2", "Coffee", "4.50", "", ""},
		))

		require.Len(t, res.Withdrawals, 1)
		assert.Equal(t, "Coffee", res.Withdrawals[0].Description)
	})

	t.Run("row with both sides produces two entries", func(t *testing.T) {
		res := Reconstruct(ledgerTable(
			[]string{"Jan 5", "Internal transfer", "200.00", "200.00", ""},
		))

		require.Len(t, res.Withdrawals, 1)
		require.Len(t, res.Deposits, 1)
		assert.Equal(t, res.Withdrawals[0].Date, res.Deposits[0].Date)
		assert.Equal(t, res.Withdrawals[0].Description, res.Deposits[0].Description)
	})

	t.Run("zero and negative amounts are suppressed", func(t *testing.T) {
		res := Reconstruct(ledgerTable(
			[]string{"Jan 2", "Zero fee", "0.00", "", ""},
			[]string{"Jan 3", "Reversal", "(25.00)", "", ""},
			[]string{"Jan 4", "Lunch", "12.00", "", ""},
		))

		require.Len(t, res.Withdrawals, 1)
		assert.Equal(t, "Lunch", res.Withdrawals[0].Description)
		assert.Empty(t, res.Deposits)
	})

	t.Run("blank rows are skipped without consuming the date", func(t *testing.T) {
		res := Reconstruct(ledgerTable(
			[]string{"Jan 2", "Coffee", "4.50", "", ""},
			[]string{"Jan 9", "", "", "", ""},
			[]string{"", "Lunch", "12.00", "", ""},
		))

		require.Len(t, res.Withdrawals, 2)
		// The blank Jan 9 row never became the carry-forward date.
		assert.Equal(t, "Jan 2", res.Withdrawals[1].Date)
	})

	t.Run("repeated header rows mid-table are skipped", func(t *testing.T) {
		res := Reconstruct(ledgerTable(
			[]string{"Jan 2", "Coffee", "4.50", "", ""},
			[]string{"Date", "Description", "Withdrawal", "Deposit", "Balance"},
			[]string{"Jan 3", "Lunch", "12.00", "", ""},
		))

		assert.Len(t, res.Withdrawals, 2)
	})

	t.Run("summary and footer rows are skipped", func(t *testing.T) {
		res := Reconstruct(ledgerTable(
			[]string{"Jan 1", "Opening Balance", "", "1000.00", ""},
			[]string{"Jan 2", "Coffee", "4.50", "", ""},
			[]string{"", "Page 2", "", "", ""},
			[]string{"Jan 31", "Closing Balance", "", "995.50", ""},
		))

		require.Len(t, res.Withdrawals, 1)
		assert.Empty(t, res.Deposits)
	})

	t.Run("short rows are padded to header width", func(t *testing.T) {
		res := Reconstruct(ledgerTable(
			[]string{"Jan 2", "Coffee", "4.50"},
		))

		require.Len(t, res.Withdrawals, 1)
	})

	t.Run("header promotion from first data row", func(t *testing.T) {
		res := Reconstruct(Table{
			Headers: []string{"0", "1", "2", "3", "4"},
			Rows: [][]string{
				{"Date", "Description", "Withdrawal", "Deposit", "Balance"},
				{"Jan 2", "Coffee", "4.50", "", ""},
			},
		})

		assert.Equal(t, []string{"Date", "Description", "Withdrawal", "Deposit", "Balance"}, res.Headers)
		assert.Equal(t, 1, res.TotalRows)
		require.Len(t, res.Withdrawals, 1)
		assert.Equal(t, "Coffee", res.Withdrawals[0].Description)
	})

	t.Run("positional fallback for unlabeled columns", func(t *testing.T) {
		res := Reconstruct(Table{
			Headers: []string{"a", "b", "c", "d", "e"},
			Rows: [][]string{
				{"Jan 2", "Coffee", "4.50", "", "995.50"},
				{"Jan 3", "Payroll", "", "1500.00", "2495.50"},
			},
		})

		assert.Equal(t, 0, res.ColumnMapping[RoleDate])
		assert.Equal(t, 4, res.ColumnMapping[RoleBalance])
		require.Len(t, res.Withdrawals, 1)
		require.Len(t, res.Deposits, 1)
	})

	t.Run("two columns keep the partial mapping", func(t *testing.T) {
		res := Reconstruct(Table{
			Headers: []string{"Date", "x"},
			Rows:    [][]string{{"Jan 2", "y"}},
		})

		assert.Equal(t, ColumnMapping{RoleDate: 0}, res.ColumnMapping)
		assert.Empty(t, res.Withdrawals)
		assert.Empty(t, res.Deposits)
	})

	t.Run("single signed amount column fallback", func(t *testing.T) {
		res := Reconstruct(Table{
			Headers: []string{"Date", "Description", "Amount"},
			Rows: [][]string{
				{"Jan 2", "Coffee", "-4.50"},
				{"Jan 3", "Payroll", "1500.00"},
				{"Jan 4", "Fee reversal", "(2.00)"},
			},
		})

		// "Amount" binds neither withdrawal nor deposit, so the primary
		// pass yields nothing and the signed-column fallback takes over.
		require.Len(t, res.Withdrawals, 2)
		assert.Equal(t, Entry{Date: "Jan 2", Description: "Coffee", Amount: 4.50}, res.Withdrawals[0])
		assert.Equal(t, Entry{Date: "Jan 4", Description: "Fee reversal", Amount: 2.00}, res.Withdrawals[1])
		require.Len(t, res.Deposits, 1)
		assert.Equal(t, Entry{Date: "Jan 3", Description: "Payroll", Amount: 1500.00}, res.Deposits[0])
	})

	t.Run("idempotent on generated tables", func(t *testing.T) {
		gen := NewStatementGenerator(42)
		for i := 0; i < 10; i++ {
			table := gen.Table(30)
			first := Reconstruct(table)
			second := Reconstruct(table)
			require.Equal(t, first, second)
		}
	})
}

func TestReconstructWithMapping(t *testing.T) {
	t.Run("caller mapping is used as-is", func(t *testing.T) {
		// Withdrawal and deposit columns swapped relative to the headers.
		res := ReconstructWithMapping(ledgerTable(
			[]string{"Jan 2", "Coffee", "4.50", "", ""},
		), ColumnMapping{
			RoleDate:        0,
			RoleDescription: 1,
			RoleWithdrawal:  3,
			RoleDeposit:     2,
		})

		assert.Empty(t, res.Withdrawals)
		require.Len(t, res.Deposits, 1)
		assert.Equal(t, 4.50, res.Deposits[0].Amount)
	})

	t.Run("negative indices mean not present", func(t *testing.T) {
		res := ReconstructWithMapping(ledgerTable(
			[]string{"Jan 2", "Coffee", "4.50", "", ""},
		), ColumnMapping{
			RoleDate:        0,
			RoleDescription: 1,
			RoleWithdrawal:  2,
			RoleDeposit:     -1,
		})

		require.Len(t, res.Withdrawals, 1)
		_, hasDeposit := res.ColumnMapping[RoleDeposit]
		assert.False(t, hasDeposit)
	})

	t.Run("out of range index reads as empty text", func(t *testing.T) {
		res := ReconstructWithMapping(ledgerTable(
			[]string{"Jan 2", "Coffee", "N/A", "", ""},
		), ColumnMapping{
			RoleDate:        0,
			RoleDescription: 1,
			RoleWithdrawal:  99,
		})

		assert.Empty(t, res.Withdrawals)
		assert.Empty(t, res.Deposits)
	})

	t.Run("header promotion still runs", func(t *testing.T) {
		res := ReconstructWithMapping(Table{
			Headers: []string{"0", "1", "2", "3", "4"},
			Rows: [][]string{
				{"Date", "Description", "Withdrawal", "Deposit", "Balance"},
				{"Jan 2", "Coffee", "4.50", "", ""},
			},
		}, ColumnMapping{RoleDate: 0, RoleDescription: 1, RoleWithdrawal: 2})

		assert.Equal(t, 1, res.TotalRows)
		require.Len(t, res.Withdrawals, 1)
	})
}
