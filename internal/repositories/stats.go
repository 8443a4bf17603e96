package repositories

import (
	"context"
	"time"

	"pdv_desk/internal/models"
)

// StatsBounds returns the half-open UTC windows [dayStart, dayEnd) and
// [monthStart, monthEnd) containing now.
func StatsBounds(now time.Time) (dayStart, dayEnd, monthStart, monthEnd string) {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return models.FormatTimestamp(day), models.FormatTimestamp(day.AddDate(0, 0, 1)),
		models.FormatTimestamp(month), models.FormatTimestamp(month.AddDate(0, 1, 0))
}

// LoadStats computes today's and this month's sales totals plus the product count.
func LoadStats(ctx context.Context, sales SaleRepository, products ProductRepository, userID int64, now time.Time) (*models.SalesStats, error) {
	dayStart, dayEnd, monthStart, monthEnd := StatsBounds(now)

	today, err := sales.SumSales(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	month, err := sales.SumSales(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	count, err := products.CountProducts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.SalesStats{VendasHoje: today, VendasMes: month, TotalProdutos: count}, nil
}
