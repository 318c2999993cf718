package catalog

import (
	"strconv"
	"strings"

	"github.com/revlens-dev/revlens/internal/model"
)

// DeriveNumericID extracts the catalog join key from a product id:
// strip the fixed "P" prefix and parse the remainder as an integer.
// "P101" -> 101. A missing prefix or non-numeric remainder is an
// explicit no-match, never an error.
func DeriveNumericID(productID string) (int, bool) {
	rest, ok := strings.CutPrefix(productID, model.ProductIDPrefix)
	if !ok || rest == "" {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Enrich joins every transaction against the lookup. Records whose
// id cannot be derived or has no catalog entry come back with
// Matched=false and empty API fields; a bad record never fails the
// batch.
func Enrich(txns []model.Transaction, lookup *Lookup) []model.EnrichedTransaction {
	out := make([]model.EnrichedTransaction, 0, len(txns))
	for _, t := range txns {
		e := model.EnrichedTransaction{Transaction: t}
		if id, ok := DeriveNumericID(t.ProductID); ok {
			if entry, found := lookup.Get(id); found {
				e.APICategory = entry.Category
				e.APIBrand = entry.Brand
				e.APIRating = entry.Rating
				e.Matched = true
			}
		}
		out = append(out, e)
	}
	return out
}

// MatchedCount returns how many enriched rows carry catalog data.
func MatchedCount(rows []model.EnrichedTransaction) int {
	n := 0
	for _, r := range rows {
		if r.Matched {
			n++
		}
	}
	return n
}
