package model

import (
	"github.com/shopspring/decimal"
)

// ID prefixes carried by every valid feed record.
const (
	TransactionIDPrefix = "T"
	ProductIDPrefix     = "P"
	CustomerIDPrefix    = "C"
)

// Transaction is one sales record from the pipe-delimited feed.
// Dates are kept as opaque strings; they are only grouping and
// sorting keys, never parsed into calendar values.
type Transaction struct {
	TransactionID string
	Date          string
	ProductID     string
	ProductName   string
	Quantity      int
	UnitPrice     decimal.Decimal
	CustomerID    string
	Region        string
}

// Amount returns quantity * unit price. It is derived, never stored.
func (t Transaction) Amount() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// EnrichedTransaction is a Transaction joined against the product
// catalog. When Matched is false the API fields stay empty.
type EnrichedTransaction struct {
	Transaction
	APICategory string
	APIBrand    string
	APIRating   string
	Matched     bool
}
