package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"pdv_desk/internal/models"
	"pdv_desk/internal/repositories"
)

// SaleService records checkouts and reports on them.
type SaleService interface {
	CreateSale(ctx context.Context, userID int64, in models.SaleInput) (int64, error)
	ListSales(ctx context.Context, userID int64) ([]models.Sale, error)
	GetSale(ctx context.Context, userID, saleID int64) (*models.Sale, error)
	GetStats(ctx context.Context, userID int64) (*models.SalesStats, error)
	DeleteSale(ctx context.Context, userID, saleID int64) error
}

type saleService struct {
	saleRepo    repositories.SaleRepository
	productRepo repositories.ProductRepository
	db          *sqlx.DB
	now         func() time.Time
}

// NewSaleService creates a new instance of SaleService.
func NewSaleService(saleRepo repositories.SaleRepository, productRepo repositories.ProductRepository, db *sqlx.DB) SaleService {
	return &saleService{saleRepo: saleRepo, productRepo: productRepo, db: db, now: time.Now}
}

// CreateSale inserts the sale, its items and the stock decrements in one transaction.
// Every item must reference one of the user's products.
func (s *saleService) CreateSale(ctx context.Context, userID int64, in models.SaleInput) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// Lookups run outside the transaction: SQLite holds a single connection.
	seen := make(map[int64]bool, len(in.Itens))
	for _, item := range in.Itens {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		if _, err := s.productRepo.FindProductByID(ctx, userID, item.ID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return 0, fmt.Errorf("%w: %d", ErrProductNotFound, item.ID)
			}
			return 0, err
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	saleID, err := s.saleRepo.CreateSale(ctx, tx, userID, in, models.FormatTimestamp(s.now()))
	if err != nil {
		return 0, err
	}
	for _, item := range in.Itens {
		if _, err := s.saleRepo.CreateSaleItem(ctx, tx, saleID, item); err != nil {
			return 0, err
		}
		if err := s.productRepo.DecrementStock(ctx, tx, userID, item.ID, item.Quantidade); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sale transaction: %w", err)
	}
	return saleID, nil
}

func (s *saleService) ListSales(ctx context.Context, userID int64) ([]models.Sale, error) {
	return s.saleRepo.ListSales(ctx, userID)
}

func (s *saleService) GetSale(ctx context.Context, userID, saleID int64) (*models.Sale, error) {
	sale, err := s.saleRepo.GetSale(ctx, userID, saleID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrSaleNotFound
	}
	return sale, err
}

func (s *saleService) GetStats(ctx context.Context, userID int64) (*models.SalesStats, error) {
	return repositories.LoadStats(ctx, s.saleRepo, s.productRepo, userID, s.now())
}

func (s *saleService) DeleteSale(ctx context.Context, userID, saleID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.saleRepo.DeleteSale(ctx, tx, userID, saleID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSaleNotFound
		}
		return err
	}
	return tx.Commit()
}
