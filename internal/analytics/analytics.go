// Package analytics computes descriptive rollups over a validated
// transaction set. All functions are pure; monetary results round to
// 2 decimal places at finalization only, never mid-sum.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/revlens-dev/revlens/internal/model"
)

// Defaults for the product rankings.
const (
	DefaultTopN         = 5
	DefaultLowThreshold = 10
)

var hundred = decimal.NewFromInt(100)

// TotalRevenue sums amount over all transactions.
func TotalRevenue(txns []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount())
	}
	return total.Round(2)
}

// RegionSales groups by region, sorted by total sales descending.
// Ties break on region name ascending so output is reproducible.
func RegionSales(txns []model.Transaction) []model.RegionSummary {
	grandTotal := decimal.Zero
	byRegion := make(map[string]*model.RegionSummary)
	for _, t := range txns {
		amt := t.Amount()
		grandTotal = grandTotal.Add(amt)
		s, ok := byRegion[t.Region]
		if !ok {
			s = &model.RegionSummary{Region: t.Region}
			byRegion[t.Region] = s
		}
		s.TotalSales = s.TotalSales.Add(amt)
		s.TransactionCount++
	}

	out := make([]model.RegionSummary, 0, len(byRegion))
	for _, s := range byRegion {
		if grandTotal.IsPositive() {
			s.PctOfTotal = s.TotalSales.Div(grandTotal).Mul(hundred).Round(2)
		}
		s.TotalSales = s.TotalSales.Round(2)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalSales.Equal(out[j].TotalSales) {
			return out[i].TotalSales.GreaterThan(out[j].TotalSales)
		}
		return out[i].Region < out[j].Region
	})
	return out
}

func groupProducts(txns []model.Transaction) []model.ProductSummary {
	byName := make(map[string]*model.ProductSummary)
	for _, t := range txns {
		s, ok := byName[t.ProductName]
		if !ok {
			s = &model.ProductSummary{ProductName: t.ProductName}
			byName[t.ProductName] = s
		}
		s.TotalQuantity += t.Quantity
		s.TotalRevenue = s.TotalRevenue.Add(t.Amount())
	}

	out := make([]model.ProductSummary, 0, len(byName))
	for _, s := range byName {
		s.TotalRevenue = s.TotalRevenue.Round(2)
		out = append(out, *s)
	}
	return out
}

// TopProducts ranks products by units sold descending and returns at
// most n. Ties break on product name ascending.
func TopProducts(txns []model.Transaction, n int) []model.ProductSummary {
	out := groupProducts(txns)
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalQuantity != out[j].TotalQuantity {
			return out[i].TotalQuantity > out[j].TotalQuantity
		}
		return out[i].ProductName < out[j].ProductName
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// LowPerformers returns products whose total quantity is under
// threshold, sorted by quantity ascending (name ascending on ties).
func LowPerformers(txns []model.Transaction, threshold int) []model.ProductSummary {
	grouped := groupProducts(txns)
	out := grouped[:0]
	for _, s := range grouped {
		if s.TotalQuantity < threshold {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalQuantity != out[j].TotalQuantity {
			return out[i].TotalQuantity < out[j].TotalQuantity
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out
}

// Customers groups by customer, sorted by total spent descending
// (customer ID ascending on ties). Average order value rounds at
// finalization.
func Customers(txns []model.Transaction) []model.CustomerSummary {
	type acc struct {
		summary  model.CustomerSummary
		products map[string]struct{}
	}
	byID := make(map[string]*acc)
	for _, t := range txns {
		a, ok := byID[t.CustomerID]
		if !ok {
			a = &acc{
				summary:  model.CustomerSummary{CustomerID: t.CustomerID},
				products: make(map[string]struct{}),
			}
			byID[t.CustomerID] = a
		}
		a.summary.TotalSpent = a.summary.TotalSpent.Add(t.Amount())
		a.summary.OrderCount++
		a.products[t.ProductName] = struct{}{}
	}

	out := make([]model.CustomerSummary, 0, len(byID))
	for _, a := range byID {
		s := a.summary
		s.DistinctProducts = len(a.products)
		s.AvgOrderValue = s.TotalSpent.Div(decimal.NewFromInt(int64(s.OrderCount))).Round(2)
		s.TotalSpent = s.TotalSpent.Round(2)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalSpent.Equal(out[j].TotalSpent) {
			return out[i].TotalSpent.GreaterThan(out[j].TotalSpent)
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	return out
}

// DailyTrend groups by date string, sorted lexicographically. That
// is chronological only for fixed-width ISO-like dates; the feed is
// not validated for it.
func DailyTrend(txns []model.Transaction) []model.DailySummary {
	type acc struct {
		summary   model.DailySummary
		customers map[string]struct{}
	}
	byDate := make(map[string]*acc)
	for _, t := range txns {
		a, ok := byDate[t.Date]
		if !ok {
			a = &acc{
				summary:   model.DailySummary{Date: t.Date},
				customers: make(map[string]struct{}),
			}
			byDate[t.Date] = a
		}
		a.summary.Revenue = a.summary.Revenue.Add(t.Amount())
		a.summary.TransactionCount++
		a.customers[t.CustomerID] = struct{}{}
	}

	out := make([]model.DailySummary, 0, len(byDate))
	for _, a := range byDate {
		s := a.summary
		s.DistinctCustomers = len(a.customers)
		s.Revenue = s.Revenue.Round(2)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// PeakDay returns the date with the highest revenue. Revenue ties go
// to the lexicographically smallest date. ok is false on an empty set.
func PeakDay(txns []model.Transaction) (model.DailySummary, bool) {
	trend := DailyTrend(txns)
	if len(trend) == 0 {
		return model.DailySummary{}, false
	}
	peak := trend[0]
	for _, d := range trend[1:] {
		if d.Revenue.GreaterThan(peak.Revenue) {
			peak = d
		}
	}
	return peak, true
}

// AvgOrderValueByRegion maps each region to its mean transaction
// amount, rounded to 2 decimals.
func AvgOrderValueByRegion(txns []model.Transaction) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	for _, t := range txns {
		totals[t.Region] = totals[t.Region].Add(t.Amount())
		counts[t.Region]++
	}
	out := make(map[string]decimal.Decimal, len(totals))
	for region, total := range totals {
		out[region] = total.Div(decimal.NewFromInt(int64(counts[region]))).Round(2)
	}
	return out
}
