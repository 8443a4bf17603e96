package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"pdv_desk/internal/models"
)

// SaleRepository defines the database operations on vendas and venda_itens.
type SaleRepository interface {
	CreateSale(ctx context.Context, executor SQLExecutor, userID int64, in models.SaleInput, data string) (int64, error)
	CreateSaleItem(ctx context.Context, executor SQLExecutor, saleID int64, item models.SaleItemInput) (int64, error)
	ListSales(ctx context.Context, userID int64) ([]models.Sale, error)
	GetSale(ctx context.Context, userID, saleID int64) (*models.Sale, error)
	GetSaleItems(ctx context.Context, saleID int64) ([]models.SaleItem, error)
	SumSales(ctx context.Context, userID int64, from, to string) (decimal.Decimal, error)
	DeleteSale(ctx context.Context, executor SQLExecutor, userID, saleID int64) error
}

type saleRepository struct {
	db *sqlx.DB
}

// NewSaleRepository creates a new instance of SaleRepository.
func NewSaleRepository(db *sqlx.DB) SaleRepository {
	return &saleRepository{db: db}
}

// CreateSale inserts the sale header. data is the sale timestamp in TimestampLayout.
func (r *saleRepository) CreateSale(ctx context.Context, executor SQLExecutor, userID int64, in models.SaleInput, data string) (int64, error) {
	id, err := insertReturningID(ctx, executor,
		`INSERT INTO vendas (usuario_id, total, desconto, forma_pagamento, cliente_id, data)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		userID, in.Total, in.Desconto, in.FormaPagamento, in.Customer(), data)
	if err != nil {
		return 0, fmt.Errorf("%w: creating sale: %v", ErrDatabaseError, err)
	}
	return id, nil
}

func (r *saleRepository) CreateSaleItem(ctx context.Context, executor SQLExecutor, saleID int64, item models.SaleItemInput) (int64, error) {
	id, err := insertReturningID(ctx, executor,
		`INSERT INTO venda_itens (venda_id, produto_id, quantidade, preco_unitario) VALUES (?, ?, ?, ?) RETURNING id`,
		saleID, item.ID, item.Quantidade, item.Preco)
	if err != nil {
		return 0, fmt.Errorf("%w: creating item for sale %d: %v", ErrDatabaseError, saleID, err)
	}
	return id, nil
}

// ListSales returns the user's sales newest first, each with its item count, customer
// name and items. Items for all sales are loaded with a single query.
func (r *saleRepository) ListSales(ctx context.Context, userID int64) ([]models.Sale, error) {
	sales := []models.Sale{}
	query := r.db.Rebind(`
		SELECT v.id, COALESCE(v.usuario_id, 0) AS usuario_id, v.total, COALESCE(v.desconto, 0) AS desconto,
		       v.forma_pagamento, COALESCE(v.data, '') AS data, v.cliente_id,
		       (SELECT COUNT(*) FROM venda_itens vi WHERE vi.venda_id = v.id) AS total_itens,
		       c.nome AS cliente_nome
		FROM vendas v
		LEFT JOIN clientes c ON v.cliente_id = c.id AND c.usuario_id = v.usuario_id
		WHERE v.usuario_id = ?
		ORDER BY v.data DESC, v.id DESC`)
	if err := r.db.SelectContext(ctx, &sales, query, userID); err != nil {
		return nil, fmt.Errorf("%w: listing sales: %v", ErrDatabaseError, err)
	}
	if len(sales) == 0 {
		return sales, nil
	}

	items := []models.SaleItem{}
	itemsQuery := r.db.Rebind(`
		SELECT ` + saleItemColumns + `
		FROM venda_itens vi
		JOIN vendas v ON v.id = vi.venda_id
		LEFT JOIN produtos p ON p.id = vi.produto_id AND p.usuario_id = v.usuario_id
		WHERE v.usuario_id = ?
		ORDER BY vi.id`)
	if err := r.db.SelectContext(ctx, &items, itemsQuery, userID); err != nil {
		return nil, fmt.Errorf("%w: listing sale items: %v", ErrDatabaseError, err)
	}

	bySale := make(map[int64][]models.SaleItem, len(sales))
	for _, it := range items {
		it.Preco = it.PrecoUnitario
		bySale[it.VendaID] = append(bySale[it.VendaID], it)
	}
	for i := range sales {
		sales[i].Itens = bySale[sales[i].ID]
		if sales[i].Itens == nil {
			sales[i].Itens = []models.SaleItem{}
		}
	}
	return sales, nil
}

const saleItemColumns = `vi.id, COALESCE(vi.venda_id, 0) AS venda_id, COALESCE(vi.produto_id, 0) AS produto_id,
	vi.quantidade, vi.preco_unitario, p.nome AS nome, p.codigo AS codigo`

// GetSale returns one sale of the user with customer name, cpf and items.
func (r *saleRepository) GetSale(ctx context.Context, userID, saleID int64) (*models.Sale, error) {
	sale := &models.Sale{}
	query := r.db.Rebind(`
		SELECT v.id, COALESCE(v.usuario_id, 0) AS usuario_id, v.total, COALESCE(v.desconto, 0) AS desconto,
		       v.forma_pagamento, COALESCE(v.data, '') AS data, v.cliente_id,
		       c.nome AS cliente_nome, c.cpf AS cliente_cpf
		FROM vendas v
		LEFT JOIN clientes c ON v.cliente_id = c.id AND c.usuario_id = v.usuario_id
		WHERE v.id = ? AND v.usuario_id = ?`)
	if err := r.db.GetContext(ctx, sale, query, saleID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting sale %d: %v", ErrDatabaseError, saleID, err)
	}

	items, err := r.GetSaleItems(ctx, saleID)
	if err != nil {
		return nil, err
	}
	sale.Itens = items
	sale.TotalItens = len(items)
	return sale, nil
}

func (r *saleRepository) GetSaleItems(ctx context.Context, saleID int64) ([]models.SaleItem, error) {
	items := []models.SaleItem{}
	query := r.db.Rebind(`SELECT ` + saleItemColumns + `
		FROM venda_itens vi
		JOIN vendas v ON v.id = vi.venda_id
		LEFT JOIN produtos p ON p.id = vi.produto_id AND p.usuario_id = v.usuario_id
		WHERE vi.venda_id = ?
		ORDER BY vi.id`)
	if err := r.db.SelectContext(ctx, &items, query, saleID); err != nil {
		return nil, fmt.Errorf("%w: querying items for sale %d: %v", ErrDatabaseError, saleID, err)
	}
	for i := range items {
		items[i].Preco = items[i].PrecoUnitario
	}
	return items, nil
}

// SumSales totals the user's sales with from <= data < to.
func (r *saleRepository) SumSales(ctx context.Context, userID int64, from, to string) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := r.db.Rebind("SELECT COALESCE(SUM(total), 0) FROM vendas WHERE usuario_id = ? AND data >= ? AND data < ?")
	if err := r.db.GetContext(ctx, &total, query, userID, from, to); err != nil {
		return decimal.Zero, fmt.Errorf("%w: summing sales: %v", ErrDatabaseError, err)
	}
	return total, nil
}

// DeleteSale removes a sale and its items. Nothing is touched unless the sale belongs to
// the user.
func (r *saleRepository) DeleteSale(ctx context.Context, executor SQLExecutor, userID, saleID int64) error {
	_, err := executor.ExecContext(ctx, executor.Rebind(
		`DELETE FROM venda_itens WHERE venda_id IN (SELECT id FROM vendas WHERE id = ? AND usuario_id = ?)`),
		saleID, userID)
	if err != nil {
		return fmt.Errorf("%w: deleting items of sale %d: %v", ErrDatabaseError, saleID, err)
	}
	res, err := executor.ExecContext(ctx, executor.Rebind("DELETE FROM vendas WHERE id = ? AND usuario_id = ?"), saleID, userID)
	if err != nil {
		return fmt.Errorf("%w: deleting sale %d: %v", ErrDatabaseError, saleID, err)
	}
	return requireAffected(res, "sale", saleID)
}
