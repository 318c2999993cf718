package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/revlens-dev/revlens/internal/model"
)

// EnrichedHeader is the fixed 12-column header of the enriched feed.
// Field order and the pipe delimiter are a compatibility contract.
const EnrichedHeader = "TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region|API_Category|API_Brand|API_Rating|API_Match"

const (
	enrichedNumFields = 12
	colAPICategory    = 8
	colAPIBrand       = 9
	colAPIRating      = 10
	colAPIMatch       = 11
)

// MarshalEnriched converts an enriched transaction to a feed row.
// Missing enrichment values serialize as empty strings.
func MarshalEnriched(e model.EnrichedTransaction) []string {
	row := make([]string, enrichedNumFields)
	row[colTxnID] = e.TransactionID
	row[colDate] = e.Date
	row[colProductID] = e.ProductID
	row[colName] = e.ProductName
	row[colQuantity] = strconv.Itoa(e.Quantity)
	row[colUnitPrice] = e.UnitPrice.StringFixed(2)
	row[colCustomer] = e.CustomerID
	row[colRegion] = e.Region
	row[colAPICategory] = e.APICategory
	row[colAPIBrand] = e.APIBrand
	row[colAPIRating] = e.APIRating
	row[colAPIMatch] = strconv.FormatBool(e.Matched)
	return row
}

// WriteEnriched writes the enriched feed (including header).
func WriteEnriched(w io.Writer, rows []model.EnrichedTransaction) error {
	cw := csv.NewWriter(w)
	cw.Comma = '|'
	defer cw.Flush()

	if err := cw.Write(strings.Split(EnrichedHeader, "|")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(MarshalEnriched(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// WriteEnrichedFile writes the enriched feed to path via a temp file
// and rename, so a failed run never leaves a partial file behind.
func WriteEnrichedFile(path string, rows []model.EnrichedTransaction) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".enriched-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteEnriched(tmp, rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("finalizing %s: %w", path, err)
	}
	return nil
}
