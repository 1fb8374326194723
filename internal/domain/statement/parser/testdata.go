package parser

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
)

// StatementGenerator produces realistic randomized statement tables for
// tests using gofakeit. A fixed seed makes generated tables reproducible.
type StatementGenerator struct {
	faker *gofakeit.Faker
}

// NewStatementGenerator creates a generator with the given seed.
func NewStatementGenerator(seed int64) *StatementGenerator {
	return &StatementGenerator{faker: gofakeit.New(seed)}
}

// Table generates a five-column statement table with the given number of
// data rows. Roughly half the rows are withdrawals, the rest deposits, and
// every few rows reuse the previous date cell left blank to exercise the
// carry-forward rule.
func (g *StatementGenerator) Table(rows int) Table {
	t := Table{
		Headers: []string{"Date", "Description", "Withdrawal", "Deposit", "Balance"},
	}

	balance := g.faker.Price(1000, 10000)
	for i := 0; i < rows; i++ {
		date := ""
		if i == 0 || g.faker.Bool() {
			date = fmt.Sprintf("%02d/%02d/2024", g.faker.Number(1, 28), g.faker.Number(1, 12))
		}

		desc := g.faker.Company()
		amount := g.faker.Price(1, 500)

		var wd, dp string
		if g.faker.Bool() {
			wd = fmt.Sprintf("%.2f", amount)
			balance -= amount
		} else {
			dp = fmt.Sprintf("%.2f", amount)
			balance += amount
		}

		t.Rows = append(t.Rows, []string{date, desc, wd, dp, fmt.Sprintf("%.2f", balance)})
	}

	return t
}
