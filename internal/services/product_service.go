package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"pdv_desk/internal/models"
	"pdv_desk/internal/repositories"
)

// ProductService manages a user's products.
type ProductService interface {
	ListProducts(ctx context.Context, userID int64) ([]models.Product, error)
	CreateProduct(ctx context.Context, userID int64, in models.ProductInput) (int64, error)
	UpdateProduct(ctx context.Context, userID, productID int64, in models.ProductInput) error
	DeleteProduct(ctx context.Context, userID, productID int64) error
	GetProductByCode(ctx context.Context, userID int64, code string) (*models.Product, error)
}

type productService struct {
	productRepo repositories.ProductRepository
	db          *sqlx.DB
}

// NewProductService creates a new instance of ProductService.
func NewProductService(repo repositories.ProductRepository, db *sqlx.DB) ProductService {
	return &productService{productRepo: repo, db: db}
}

func validateProduct(in *models.ProductInput) error {
	in.Codigo = strings.TrimSpace(in.Codigo)
	in.Nome = strings.TrimSpace(in.Nome)
	if in.Codigo == "" || in.Nome == "" {
		return fmt.Errorf("%w: código e nome são obrigatórios", ErrValidation)
	}
	if in.Preco.IsNegative() || in.Estoque < 0 {
		return fmt.Errorf("%w: preço e estoque não podem ser negativos", ErrValidation)
	}
	return nil
}

func (s *productService) ListProducts(ctx context.Context, userID int64) ([]models.Product, error) {
	return s.productRepo.ListProducts(ctx, userID)
}

func (s *productService) CreateProduct(ctx context.Context, userID int64, in models.ProductInput) (int64, error) {
	if err := validateProduct(&in); err != nil {
		return 0, err
	}
	id, err := s.productRepo.CreateProduct(ctx, s.db, userID, in)
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return 0, ErrProductCodeExists
	}
	return id, err
}

func (s *productService) UpdateProduct(ctx context.Context, userID, productID int64, in models.ProductInput) error {
	if err := validateProduct(&in); err != nil {
		return err
	}
	return mapProductErr(s.productRepo.UpdateProduct(ctx, s.db, userID, productID, in))
}

func (s *productService) DeleteProduct(ctx context.Context, userID, productID int64) error {
	return mapProductErr(s.productRepo.DeleteProduct(ctx, s.db, userID, productID))
}

func (s *productService) GetProductByCode(ctx context.Context, userID int64, code string) (*models.Product, error) {
	p, err := s.productRepo.FindProductByCode(ctx, userID, code)
	if err != nil {
		return nil, mapProductErr(err)
	}
	return p, nil
}

func mapProductErr(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrProductNotFound
	case errors.Is(err, repositories.ErrDuplicateKey):
		return ErrProductCodeExists
	}
	return err
}
