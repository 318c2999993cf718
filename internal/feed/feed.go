package feed

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/revlens-dev/revlens/internal/model"
)

// The raw sales feed is pipe-delimited with no header row:
// TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region
const (
	numFields    = 8
	colTxnID     = 0
	colDate      = 1
	colProductID = 2
	colName      = 3
	colQuantity  = 4
	colUnitPrice = 5
	colCustomer  = 6
	colRegion    = 7
)

// maxSkippedSamples caps how many dropped raw lines are kept for
// operator diagnostics.
const maxSkippedSamples = 5

// Result is the outcome of parsing one feed. Malformed lines are
// never an error, only a count.
type Result struct {
	Transactions   []model.Transaction
	Skipped        int
	SkippedSamples []string
}

// Parser converts raw sales feed lines into transactions.
type Parser struct{}

// Parse reads the feed line by line. A line that does not split into
// exactly 8 fields, or whose numeric fields fail conversion, is
// dropped silently and counted. Only reader failures return an error.
func (p *Parser) Parse(r io.Reader) (Result, error) {
	var res Result

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		txn, ok := parseLine(line)
		if !ok {
			res.Skipped++
			if len(res.SkippedSamples) < maxSkippedSamples {
				res.SkippedSamples = append(res.SkippedSamples, line)
			}
			continue
		}
		res.Transactions = append(res.Transactions, txn)
	}
	if err := sc.Err(); err != nil {
		return Result{}, fmt.Errorf("reading sales feed: %w", err)
	}
	return res, nil
}

func parseLine(line string) (model.Transaction, bool) {
	parts := strings.Split(line, "|")
	if len(parts) != numFields {
		return model.Transaction{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	// Commas are stripped before conversion: product names were
	// comma-delimited upstream, and quantity/price may carry
	// thousands separators.
	qty, err := strconv.Atoi(stripCommas(parts[colQuantity]))
	if err != nil {
		return model.Transaction{}, false
	}
	price, err := decimal.NewFromString(stripCommas(parts[colUnitPrice]))
	if err != nil {
		return model.Transaction{}, false
	}

	return model.Transaction{
		TransactionID: parts[colTxnID],
		Date:          parts[colDate],
		ProductID:     parts[colProductID],
		ProductName:   stripCommas(parts[colName]),
		Quantity:      qty,
		UnitPrice:     price,
		CustomerID:    parts[colCustomer],
		Region:        parts[colRegion],
	}, true
}

func stripCommas(s string) string {
	return strings.ReplaceAll(s, ",", "")
}
