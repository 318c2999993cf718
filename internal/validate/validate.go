// Package validate enforces the business rules a parsed transaction
// must satisfy and applies optional operator filters.
package validate

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/revlens-dev/revlens/internal/model"
)

// maxInvalidSamples caps how many rejected transaction IDs are kept
// for operator diagnostics.
const maxInvalidSamples = 5

// Criteria are the optional filters applied after validation. The
// zero value filters nothing.
type Criteria struct {
	Region    string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

func (c Criteria) hasAmountBound() bool {
	return c.MinAmount != nil || c.MaxAmount != nil
}

// Summary reports what each stage removed. FilteredByRegion and
// FilteredByAmount are stage deltas in application order: region
// first, then amount range.
type Summary struct {
	TotalInput       int
	InvalidCount     int
	FilteredByRegion int
	FilteredByAmount int
	FinalCount       int
	InvalidSamples   []string
}

// Valid reports whether a transaction satisfies every business rule:
// all fields present, positive quantity and unit price, and the
// required T/P/C id prefixes.
func Valid(t model.Transaction) bool {
	switch {
	case t.TransactionID == "", t.Date == "", t.ProductID == "",
		t.ProductName == "", t.CustomerID == "", t.Region == "":
		return false
	case t.Quantity <= 0:
		return false
	case t.UnitPrice.LessThanOrEqual(decimal.Zero):
		return false
	case !strings.HasPrefix(t.TransactionID, model.TransactionIDPrefix):
		return false
	case !strings.HasPrefix(t.ProductID, model.ProductIDPrefix):
		return false
	case !strings.HasPrefix(t.CustomerID, model.CustomerIDPrefix):
		return false
	}
	return true
}

// Apply validates every transaction, then filters the survivors by
// region and amount range. Rejects are counted, never errors.
func Apply(txns []model.Transaction, c Criteria) ([]model.Transaction, Summary) {
	sum := Summary{TotalInput: len(txns)}

	valid := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if !Valid(t) {
			sum.InvalidCount++
			if len(sum.InvalidSamples) < maxInvalidSamples {
				sum.InvalidSamples = append(sum.InvalidSamples, t.TransactionID)
			}
			continue
		}
		valid = append(valid, t)
	}

	afterRegion := valid
	if c.Region != "" {
		kept := make([]model.Transaction, 0, len(valid))
		for _, t := range valid {
			if t.Region == c.Region {
				kept = append(kept, t)
			}
		}
		sum.FilteredByRegion = len(valid) - len(kept)
		afterRegion = kept
	}

	final := afterRegion
	if c.hasAmountBound() {
		kept := make([]model.Transaction, 0, len(afterRegion))
		for _, t := range afterRegion {
			if inAmountRange(t.Amount(), c) {
				kept = append(kept, t)
			}
		}
		sum.FilteredByAmount = len(afterRegion) - len(kept)
		final = kept
	}

	sum.FinalCount = len(final)
	return final, sum
}

func inAmountRange(amount decimal.Decimal, c Criteria) bool {
	if c.MinAmount != nil && amount.LessThan(*c.MinAmount) {
		return false
	}
	if c.MaxAmount != nil && amount.GreaterThan(*c.MaxAmount) {
		return false
	}
	return true
}
