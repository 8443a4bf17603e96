package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the text form of every stored timestamp (SQLite's CURRENT_TIMESTAMP).
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// SalesStats summarizes a user's sales for the current UTC day and month.
type SalesStats struct {
	VendasHoje    decimal.Decimal `json:"vendasHoje"`
	VendasMes     decimal.Decimal `json:"vendasMes"`
	TotalProdutos int64           `json:"totalProdutos"`
}

// IDResponse is returned by create operations.
type IDResponse struct {
	ID int64 `json:"id"`
}

// SuccessResponse is returned by update and delete operations.
type SuccessResponse struct {
	Success bool `json:"success"`
}
