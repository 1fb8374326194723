package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyColumns(t *testing.T) {
	t.Run("standard five column header", func(t *testing.T) {
		mapping := ClassifyColumns([]string{"Date", "Description", "Withdrawal", "Deposit", "Balance"})
		assert.Equal(t, ColumnMapping{
			RoleDate:        0,
			RoleDescription: 1,
			RoleWithdrawal:  2,
			RoleDeposit:     3,
			RoleBalance:     4,
		}, mapping)
	})

	t.Run("synonyms", func(t *testing.T) {
		mapping := ClassifyColumns([]string{"Posting Date", "Particulars", "Debit", "Credit", "Running Total"})
		assert.Equal(t, 0, mapping[RoleDate])
		assert.Equal(t, 1, mapping[RoleDescription])
		assert.Equal(t, 2, mapping[RoleWithdrawal])
		assert.Equal(t, 3, mapping[RoleDeposit])
		assert.Equal(t, 4, mapping[RoleBalance])
	})

	t.Run("first occurrence wins over duplicates", func(t *testing.T) {
		mapping := ClassifyColumns([]string{"Date", "Details", "Balance", "Balance"})
		assert.Equal(t, 2, mapping[RoleBalance])
	})

	t.Run("matching is case-insensitive substring", func(t *testing.T) {
		mapping := ClassifyColumns([]string{"TRANS DATE", "Transaction Details"})
		assert.Equal(t, 0, mapping[RoleDate])
		assert.Equal(t, 1, mapping[RoleDescription])
	})

	t.Run("one role per token", func(t *testing.T) {
		// "Withdrawal / Deposit" matches both amount roles but binds only
		// the first in role order.
		mapping := ClassifyColumns([]string{"Date", "Payee", "Withdrawal / Deposit"})
		assert.Equal(t, 2, mapping[RoleWithdrawal])
		_, hasDeposit := mapping[RoleDeposit]
		assert.False(t, hasDeposit)
	})

	t.Run("unrecognized headers yield empty mapping", func(t *testing.T) {
		mapping := ClassifyColumns([]string{"A", "B", "C"})
		assert.Empty(t, mapping)
	})

	t.Run("blank tokens are skipped", func(t *testing.T) {
		mapping := ClassifyColumns([]string{"", "Date", "  "})
		assert.Equal(t, ColumnMapping{RoleDate: 1}, mapping)
	})
}

func TestLooksLikeHeaderRow(t *testing.T) {
	assert.True(t, looksLikeHeaderRow([]string{"Date", "Description", "Withdrawal", "Deposit"}))
	assert.False(t, looksLikeHeaderRow([]string{"Jan 2", "Coffee Shop", "4.50", ""}))
	// Date keyword alone is not enough.
	assert.False(t, looksLikeHeaderRow([]string{"Date", "", "4.50", ""}))
}

func TestIsNoiseDescription(t *testing.T) {
	noise := []string{"Opening Balance", "CLOSING BALANCE", "Total", "Statement Period", "continued on next page", "Page 2"}
	for _, s := range noise {
		assert.True(t, isNoiseDescription(s), s)
	}
	assert.False(t, isNoiseDescription("Coffee Shop"))
	assert.False(t, isNoiseDescription("Paged Media Inc"))
}
