// Package report renders the fixed-section plain-text sales report.
// Section names and ordering are a compatibility contract for
// downstream readers; column widths are only a formatting choice.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/revlens-dev/revlens/internal/model"
)

const currency = "₹"

// Data holds everything the report prints, precomputed by the
// caller. The formatter only arranges it.
type Data struct {
	GeneratedAt      time.Time
	TotalRevenue     decimal.Decimal
	TransactionCount int
	Regions          []model.RegionSummary
	TopProducts      []model.ProductSummary
	TopCustomers     []model.CustomerSummary
	// TopProductsN/TopCustomersN are the configured ranking sizes the
	// section titles advertise. Zero means the conventional 5.
	TopProductsN  int
	TopCustomersN int
	Daily            []model.DailySummary
	PeakDay          model.DailySummary
	HasPeakDay       bool
	LowPerformers    []model.ProductSummary
	RegionAvgOrder   map[string]decimal.Decimal
	Enriched         []model.EnrichedTransaction
}

// Render writes the full report.
func Render(w io.Writer, d Data) error {
	var b strings.Builder

	rule := strings.Repeat("=", 45)
	sep := strings.Repeat("-", 45)

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "          SALES ANALYTICS REPORT\n")
	fmt.Fprintf(&b, "     Generated: %s\n", d.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "     Records Processed: %d\n", d.TransactionCount)
	fmt.Fprintf(&b, "%s\n\n", rule)

	writeOverallSummary(&b, sep, d)
	writeRegions(&b, sep, d.Regions)
	writeTopProducts(&b, sep, rankingSize(d.TopProductsN), d.TopProducts)
	writeTopCustomers(&b, sep, rankingSize(d.TopCustomersN), d.TopCustomers)
	writeDailyTrend(&b, sep, d.Daily)
	writeProductPerformance(&b, sep, d)
	writeEnrichmentSummary(&b, sep, d.Enriched)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// WriteFile renders the report to path via a temp file and rename so
// a failed run never leaves a truncated report behind.
func WriteFile(path string, d Data) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Render(tmp, d); err != nil {
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

func writeOverallSummary(b *strings.Builder, sep string, d Data) {
	avgOrder := decimal.Zero
	if d.TransactionCount > 0 {
		avgOrder = d.TotalRevenue.Div(decimal.NewFromInt(int64(d.TransactionCount))).Round(2)
	}

	dateRange := "N/A"
	if len(d.Daily) > 0 {
		dateRange = fmt.Sprintf("%s to %s", d.Daily[0].Date, d.Daily[len(d.Daily)-1].Date)
	}

	fmt.Fprintf(b, "OVERALL SUMMARY\n%s\n", sep)
	fmt.Fprintf(b, "Total Revenue:        %s\n", money(d.TotalRevenue))
	fmt.Fprintf(b, "Total Transactions:  %d\n", d.TransactionCount)
	fmt.Fprintf(b, "Average Order Value: %s\n", money(avgOrder))
	fmt.Fprintf(b, "Date Range:          %s\n\n", dateRange)
}

func writeRegions(b *strings.Builder, sep string, regions []model.RegionSummary) {
	fmt.Fprintf(b, "REGION-WISE PERFORMANCE\n%s\n", sep)
	fmt.Fprintf(b, "Region     Sales           %% Total   Transactions\n")
	for _, r := range regions {
		fmt.Fprintf(b, "%-10s %14s   %6s%%     %d\n",
			r.Region, money(r.TotalSales), r.PctOfTotal.StringFixed(2), r.TransactionCount)
	}
	fmt.Fprintf(b, "\n")
}

// rankingSize resolves a configured ranking size, defaulting to the
// conventional top 5.
func rankingSize(n int) int {
	if n <= 0 {
		return 5
	}
	return n
}

func writeTopProducts(b *strings.Builder, sep string, n int, products []model.ProductSummary) {
	fmt.Fprintf(b, "TOP %d PRODUCTS\n%s\n", n, sep)
	fmt.Fprintf(b, "Rank  Product          Qty   Revenue\n")
	for i, p := range products {
		fmt.Fprintf(b, "%-5d %-15s %-5d %s\n", i+1, p.ProductName, p.TotalQuantity, money(p.TotalRevenue))
	}
	fmt.Fprintf(b, "\n")
}

func writeTopCustomers(b *strings.Builder, sep string, n int, customers []model.CustomerSummary) {
	fmt.Fprintf(b, "TOP %d CUSTOMERS\n%s\n", n, sep)
	fmt.Fprintf(b, "Rank  Customer   Total Spent   Orders\n")
	for i, c := range customers {
		fmt.Fprintf(b, "%-5d %-10s %s   %d\n", i+1, c.CustomerID, money(c.TotalSpent), c.OrderCount)
	}
	fmt.Fprintf(b, "\n")
}

func writeDailyTrend(b *strings.Builder, sep string, daily []model.DailySummary) {
	fmt.Fprintf(b, "DAILY SALES TREND\n%s\n", sep)
	fmt.Fprintf(b, "Date         Revenue        Txns   Customers\n")
	for _, day := range daily {
		fmt.Fprintf(b, "%s  %14s   %-5d %d\n",
			day.Date, money(day.Revenue), day.TransactionCount, day.DistinctCustomers)
	}
	fmt.Fprintf(b, "\n")
}

func writeProductPerformance(b *strings.Builder, sep string, d Data) {
	fmt.Fprintf(b, "PRODUCT PERFORMANCE ANALYSIS\n%s\n", sep)
	if d.HasPeakDay {
		fmt.Fprintf(b, "Best Selling Day: %s (%s)\n", d.PeakDay.Date, money(d.PeakDay.Revenue))
	} else {
		fmt.Fprintf(b, "Best Selling Day: N/A\n")
	}

	fmt.Fprintf(b, "Low Performing Products:\n")
	for _, p := range d.LowPerformers {
		fmt.Fprintf(b, "- %s: %d units, %s\n", p.ProductName, p.TotalQuantity, money(p.TotalRevenue))
	}

	if len(d.RegionAvgOrder) > 0 {
		fmt.Fprintf(b, "Average Order Value by Region:\n")
		regions := make([]string, 0, len(d.RegionAvgOrder))
		for r := range d.RegionAvgOrder {
			regions = append(regions, r)
		}
		sort.Strings(regions)
		for _, r := range regions {
			fmt.Fprintf(b, "- %s: %s\n", r, money(d.RegionAvgOrder[r]))
		}
	}
	fmt.Fprintf(b, "\n")
}

func writeEnrichmentSummary(b *strings.Builder, sep string, enriched []model.EnrichedTransaction) {
	matched := 0
	failed := make(map[string]struct{})
	for _, e := range enriched {
		if e.Matched {
			matched++
		} else {
			failed[e.ProductName] = struct{}{}
		}
	}

	successRate := decimal.Zero
	if len(enriched) > 0 {
		successRate = decimal.NewFromInt(int64(matched)).
			Div(decimal.NewFromInt(int64(len(enriched)))).
			Mul(decimal.NewFromInt(100)).Round(2)
	}

	fmt.Fprintf(b, "API ENRICHMENT SUMMARY\n%s\n", sep)
	fmt.Fprintf(b, "Total Enriched: %d\n", matched)
	fmt.Fprintf(b, "Success Rate:  %s%%\n", successRate.StringFixed(2))
	fmt.Fprintf(b, "Failed Products:\n")

	names := make([]string, 0, len(failed))
	for name := range failed {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(b, "- %s\n", name)
	}
}

// money formats a decimal as currency with thousands separators,
// e.g. 1234567.5 -> "₹1,234,567.50".
func money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return sign + currency + grouped.String() + "." + frac
}
