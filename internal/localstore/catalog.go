package localstore

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"pdv_desk/internal/models"
	"pdv_desk/internal/repositories"
)

func checkProduct(in *models.ProductInput) error {
	in.Codigo, in.Nome = strings.TrimSpace(in.Codigo), strings.TrimSpace(in.Nome)
	if in.Codigo == "" || in.Nome == "" {
		return invalid("código e nome são obrigatórios")
	}
	if in.Preco.IsNegative() || in.Estoque < 0 {
		return invalid("preço e estoque não podem ser negativos")
	}
	return nil
}

func mapProductErr(err error) error {
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return ErrCodeExists
	}
	return mapNotFound(err)
}

// ListProducts returns the user's products ordered by name.
func (s *Store) ListProducts(ctx context.Context, userID int64) ([]models.Product, error) {
	return s.products.ListProducts(ctx, userID)
}

func (s *Store) CreateProduct(ctx context.Context, userID int64, in models.ProductInput) (int64, error) {
	if err := checkProduct(&in); err != nil {
		return 0, err
	}
	id, err := s.products.CreateProduct(ctx, s.db, userID, in)
	return id, mapProductErr(err)
}

func (s *Store) UpdateProduct(ctx context.Context, userID, id int64, in models.ProductInput) error {
	if err := checkProduct(&in); err != nil {
		return err
	}
	return mapProductErr(s.products.UpdateProduct(ctx, s.db, userID, id, in))
}

func (s *Store) DeleteProduct(ctx context.Context, userID, id int64) error {
	return mapNotFound(s.products.DeleteProduct(ctx, s.db, userID, id))
}

// ProductByCode returns nil without error when no product has the code.
func (s *Store) ProductByCode(ctx context.Context, userID int64, code string) (*models.Product, error) {
	p, err := s.products.FindProductByCode(ctx, userID, code)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// --- Sales ---

// CreateSale stores the sale and its items atomically. Local sales do not touch stock.
func (s *Store) CreateSale(ctx context.Context, userID int64, in models.SaleInput) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, invalid(strings.TrimPrefix(err.Error(), models.ErrInvalidSale.Error()+": "))
	}

	var saleID int64
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		id, err := s.sales.CreateSale(ctx, tx, userID, in, models.FormatTimestamp(s.now()))
		if err != nil {
			return err
		}
		for _, item := range in.Itens {
			if _, err := s.sales.CreateSaleItem(ctx, tx, id, item); err != nil {
				return err
			}
		}
		saleID = id
		return nil
	})
	return saleID, err
}

// ListSales returns the user's sales newest first, with items.
func (s *Store) ListSales(ctx context.Context, userID int64) ([]models.Sale, error) {
	return s.sales.ListSales(ctx, userID)
}

// SaleWithItems returns nil without error when the user has no such sale.
func (s *Store) SaleWithItems(ctx context.Context, userID, id int64) (*models.Sale, error) {
	sale, err := s.sales.GetSale(ctx, userID, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return sale, err
}

// Stats totals the user's sales for the UTC day and month containing now.
func (s *Store) Stats(ctx context.Context, userID int64) (*models.SalesStats, error) {
	return repositories.LoadStats(ctx, s.sales, s.products, userID, s.now())
}

func (s *Store) DeleteSale(ctx context.Context, userID, id int64) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		return mapNotFound(s.sales.DeleteSale(ctx, tx, userID, id))
	})
}

// --- Customers ---

func checkCustomer(in *models.CustomerInput) error {
	in.Nome, in.CPF = strings.TrimSpace(in.Nome), strings.TrimSpace(in.CPF)
	if in.Nome == "" || in.CPF == "" {
		return invalid("nome e cpf são obrigatórios")
	}
	return nil
}

// CreateCustomer registers the customer with status 0 and today's day and month.
func (s *Store) CreateCustomer(ctx context.Context, userID int64, in models.CustomerInput) (int64, error) {
	if err := checkCustomer(&in); err != nil {
		return 0, err
	}
	now := s.now()
	id, err := s.customers.CreateCustomer(ctx, s.db, userID, in, now.Day(), int(now.Month()))
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return 0, ErrCPFExists
	}
	return id, err
}

func (s *Store) ListCustomers(ctx context.Context, userID int64) ([]models.Customer, error) {
	return s.customers.ListCustomers(ctx, userID)
}

// Customer returns nil without error when the user has no such customer.
func (s *Store) Customer(ctx context.Context, userID, id int64) (*models.Customer, error) {
	c, err := s.customers.GetCustomer(ctx, userID, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return c, err
}

func (s *Store) UpdateCustomer(ctx context.Context, userID, id int64, in models.CustomerInput) error {
	if err := checkCustomer(&in); err != nil {
		return err
	}
	err := s.customers.UpdateCustomer(ctx, s.db, userID, id, in)
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return ErrCPFTaken
	}
	return mapNotFound(err)
}

func (s *Store) DeleteCustomer(ctx context.Context, userID, id int64) error {
	return mapNotFound(s.customers.DeleteCustomer(ctx, s.db, userID, id))
}
