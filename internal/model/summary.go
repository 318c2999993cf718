package model

import (
	"github.com/shopspring/decimal"
)

// RegionSummary is the per-region sales rollup.
type RegionSummary struct {
	Region           string
	TotalSales       decimal.Decimal
	TransactionCount int
	PctOfTotal       decimal.Decimal
}

// ProductSummary is the per-product quantity/revenue rollup.
type ProductSummary struct {
	ProductName   string
	TotalQuantity int
	TotalRevenue  decimal.Decimal
}

// CustomerSummary is the per-customer spend rollup.
type CustomerSummary struct {
	CustomerID       string
	TotalSpent       decimal.Decimal
	OrderCount       int
	AvgOrderValue    decimal.Decimal
	DistinctProducts int
}

// DailySummary is the per-date revenue rollup.
type DailySummary struct {
	Date              string
	Revenue           decimal.Decimal
	TransactionCount  int
	DistinctCustomers int
}
