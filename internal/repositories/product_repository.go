package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pdv_desk/internal/models"
)

const productColumns = `id, codigo, nome, categoria, preco, estoque, COALESCE(usuario_id, 0) AS usuario_id, foto,
	COALESCE(criado_em, '') AS criado_em`

// ProductRepository defines the database operations on produtos. Every statement is
// scoped by the owning user.
type ProductRepository interface {
	ListProducts(ctx context.Context, userID int64) ([]models.Product, error)
	CreateProduct(ctx context.Context, executor SQLExecutor, userID int64, in models.ProductInput) (int64, error)
	UpdateProduct(ctx context.Context, executor SQLExecutor, userID, productID int64, in models.ProductInput) error
	DeleteProduct(ctx context.Context, executor SQLExecutor, userID, productID int64) error
	FindProductByCode(ctx context.Context, userID int64, code string) (*models.Product, error)
	FindProductByID(ctx context.Context, userID, productID int64) (*models.Product, error)
	CountProducts(ctx context.Context, userID int64) (int64, error)
	DecrementStock(ctx context.Context, executor SQLExecutor, userID, productID int64, quantity int) error
}

type productRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &productRepository{db: db}
}

// ListProducts returns the user's products ordered by name.
func (r *productRepository) ListProducts(ctx context.Context, userID int64) ([]models.Product, error) {
	products := []models.Product{}
	query := r.db.Rebind("SELECT " + productColumns + " FROM produtos WHERE usuario_id = ? ORDER BY nome")
	if err := r.db.SelectContext(ctx, &products, query, userID); err != nil {
		return nil, fmt.Errorf("%w: listing products: %v", ErrDatabaseError, err)
	}
	return products, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, executor SQLExecutor, userID int64, in models.ProductInput) (int64, error) {
	id, err := insertReturningID(ctx, executor,
		`INSERT INTO produtos (codigo, nome, categoria, preco, estoque, usuario_id, foto)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		in.Codigo, in.Nome, in.Categoria, in.Preco, in.Estoque, userID, in.Foto)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: product code %s", ErrDuplicateKey, in.Codigo)
		}
		return 0, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return id, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, executor SQLExecutor, userID, productID int64, in models.ProductInput) error {
	res, err := executor.ExecContext(ctx, executor.Rebind(
		`UPDATE produtos SET codigo = ?, nome = ?, categoria = ?, preco = ?, estoque = ?, foto = ?
		 WHERE id = ? AND usuario_id = ?`),
		in.Codigo, in.Nome, in.Categoria, in.Preco, in.Estoque, in.Foto, productID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: product code %s", ErrDuplicateKey, in.Codigo)
		}
		return fmt.Errorf("%w: updating product %d: %v", ErrDatabaseError, productID, err)
	}
	return requireAffected(res, "product", productID)
}

func (r *productRepository) DeleteProduct(ctx context.Context, executor SQLExecutor, userID, productID int64) error {
	res, err := executor.ExecContext(ctx, executor.Rebind("DELETE FROM produtos WHERE id = ? AND usuario_id = ?"), productID, userID)
	if err != nil {
		return fmt.Errorf("%w: deleting product %d: %v", ErrDatabaseError, productID, err)
	}
	return requireAffected(res, "product", productID)
}

func (r *productRepository) FindProductByCode(ctx context.Context, userID int64, code string) (*models.Product, error) {
	p := &models.Product{}
	query := r.db.Rebind("SELECT " + productColumns + " FROM produtos WHERE codigo = ? AND usuario_id = ?")
	if err := r.db.GetContext(ctx, p, query, code, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding product by code %s: %v", ErrDatabaseError, code, err)
	}
	return p, nil
}

func (r *productRepository) FindProductByID(ctx context.Context, userID, productID int64) (*models.Product, error) {
	p := &models.Product{}
	query := r.db.Rebind("SELECT " + productColumns + " FROM produtos WHERE id = ? AND usuario_id = ?")
	if err := r.db.GetContext(ctx, p, query, productID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding product %d: %v", ErrDatabaseError, productID, err)
	}
	return p, nil
}

func (r *productRepository) CountProducts(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, r.db.Rebind("SELECT COUNT(*) FROM produtos WHERE usuario_id = ?"), userID); err != nil {
		return 0, fmt.Errorf("%w: counting products: %v", ErrDatabaseError, err)
	}
	return n, nil
}

// DecrementStock lowers the stock of one product. Stock may go negative; sales are never
// refused for lack of stock.
func (r *productRepository) DecrementStock(ctx context.Context, executor SQLExecutor, userID, productID int64, quantity int) error {
	_, err := executor.ExecContext(ctx, executor.Rebind(
		"UPDATE produtos SET estoque = estoque - ? WHERE id = ? AND usuario_id = ?"), quantity, productID, userID)
	if err != nil {
		return fmt.Errorf("%w: decrementing stock of product %d: %v", ErrDatabaseError, productID, err)
	}
	return nil
}
