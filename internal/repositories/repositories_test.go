package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv_desk/internal/database"
	"pdv_desk/internal/models"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(context.Background(), database.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createUser(t *testing.T, db *sqlx.DB, email string) int64 {
	t.Helper()
	id, err := NewUserRepository(db).CreateUser(context.Background(), db, "Operador", email, "hash")
	require.NoError(t, err)
	return id
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, db, "Ana", "ana@loja.com", "h1")
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, db, "Outra Ana", "ana@loja.com", "h2")
	assert.ErrorIs(t, err, ErrDuplicateKey)

	n, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUserRepository_UpdateKeepsPasswordWhenEmpty(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	id := createUser(t, db, "ana@loja.com")

	loja := "Mercadinho"
	require.NoError(t, repo.UpdateUser(ctx, db, id, models.UserUpdate{Nome: "Ana Maria", Email: "ana@loja.com", NomeComercio: &loja}, ""))

	user, err := repo.FindUserByEmail(ctx, "ana@loja.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", user.Nome)
	assert.Equal(t, "hash", user.Senha)
	require.NotNil(t, user.NomeComercio)
	assert.Equal(t, "Mercadinho", *user.NomeComercio)

	err = repo.UpdateUser(ctx, db, 999, models.UserUpdate{Nome: "X", Email: "x@x.com"}, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductRepository_CodeUniquePerUser(t *testing.T) {
	db := openTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	u1 := createUser(t, db, "u1@loja.com")
	u2 := createUser(t, db, "u2@loja.com")

	in := models.ProductInput{Codigo: "A1", Nome: "Arroz", Preco: decimal.RequireFromString("12.50"), Estoque: 10}

	_, err := repo.CreateProduct(ctx, db, u1, in)
	require.NoError(t, err)

	_, err = repo.CreateProduct(ctx, db, u1, in)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	_, err = repo.CreateProduct(ctx, db, u2, in)
	assert.NoError(t, err)
}

func TestProductRepository_ScopedByUser(t *testing.T) {
	db := openTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	u1 := createUser(t, db, "u1@loja.com")
	u2 := createUser(t, db, "u2@loja.com")

	id, err := repo.CreateProduct(ctx, db, u1, models.ProductInput{Codigo: "B2", Nome: "Feijão", Preco: decimal.NewFromInt(8), Estoque: 3})
	require.NoError(t, err)

	_, err = repo.FindProductByCode(ctx, u2, "B2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteProduct(ctx, db, u2, id), ErrNotFound)

	p, err := repo.FindProductByCode(ctx, u1, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Feijão", p.Nome)
	assert.True(t, decimal.NewFromInt(8).Equal(p.Preco))

	require.NoError(t, repo.DecrementStock(ctx, db, u1, id, 5))
	p, err = repo.FindProductByID(ctx, u1, id)
	require.NoError(t, err)
	assert.Equal(t, -2, p.Estoque)
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	u1 := createUser(t, db, "u1@loja.com")
	u2 := createUser(t, db, "u2@loja.com")

	_, err := repo.GetSession(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.ReplaceSession(ctx, db, u1, "u1@loja.com"))
	require.NoError(t, repo.ReplaceSession(ctx, db, u2, "u2@loja.com"))

	var rows int
	require.NoError(t, db.GetContext(ctx, &rows, "SELECT COUNT(*) FROM sessoes"))
	assert.Equal(t, 1, rows)

	sess, err := repo.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.Session{UsuarioID: u2, Email: "u2@loja.com"}, sess)

	require.NoError(t, repo.DeleteSessions(ctx, db))
	_, err = repo.GetSession(ctx)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSaleRepository_CreateWithItemsAndStats(t *testing.T) {
	db := openTestDB(t)
	sales := NewSaleRepository(db)
	products := NewProductRepository(db)
	ctx := context.Background()
	uid := createUser(t, db, "caixa@loja.com")

	p1, err := products.CreateProduct(ctx, db, uid, models.ProductInput{Codigo: "P1", Nome: "Café", Preco: decimal.RequireFromString("10.50"), Estoque: 5})
	require.NoError(t, err)
	p2, err := products.CreateProduct(ctx, db, uid, models.ProductInput{Codigo: "P2", Nome: "Açúcar", Preco: decimal.RequireFromString("4.75"), Estoque: 5})
	require.NoError(t, err)

	now := time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)
	in := models.SaleInput{
		Total:          decimal.RequireFromString("20.00"),
		FormaPagamento: "dinheiro",
		Itens: []models.SaleItemInput{
			{ID: p1, Quantidade: 1, Preco: decimal.RequireFromString("10.50")},
			{ID: p2, Quantidade: 2, Preco: decimal.RequireFromString("4.75")},
		},
	}

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	saleID, err := sales.CreateSale(ctx, tx, uid, in, models.FormatTimestamp(now))
	require.NoError(t, err)
	for _, it := range in.Itens {
		_, err := sales.CreateSaleItem(ctx, tx, saleID, it)
		require.NoError(t, err)
	}
	require.NoError(t, tx.Commit())

	var saleRows, itemRows int
	require.NoError(t, db.GetContext(ctx, &saleRows, "SELECT COUNT(*) FROM vendas"))
	require.NoError(t, db.GetContext(ctx, &itemRows, "SELECT COUNT(*) FROM venda_itens WHERE venda_id = ?", saleID))
	assert.Equal(t, 1, saleRows)
	assert.Equal(t, 2, itemRows)

	sale, err := sales.GetSale(ctx, uid, saleID)
	require.NoError(t, err)
	assert.Equal(t, 2, sale.TotalItens)
	require.Len(t, sale.Itens, 2)
	require.NotNil(t, sale.Itens[0].Nome)
	assert.Equal(t, "Café", *sale.Itens[0].Nome)
	assert.True(t, sale.Itens[1].Preco.Equal(decimal.RequireFromString("4.75")))

	list, err := sales.ListSales(ctx, uid)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].TotalItens)
	assert.Len(t, list[0].Itens, 2)

	stats, err := LoadStats(ctx, sales, products, uid, now)
	require.NoError(t, err)
	assert.True(t, stats.VendasHoje.Equal(decimal.RequireFromString("20")), stats.VendasHoje.String())
	assert.True(t, stats.VendasMes.Equal(decimal.RequireFromString("20")), stats.VendasMes.String())
	assert.Equal(t, int64(2), stats.TotalProdutos)

	nextDay, err := LoadStats(ctx, sales, products, uid, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, nextDay.VendasHoje.IsZero())
	assert.True(t, nextDay.VendasMes.Equal(decimal.RequireFromString("20")))
}

func TestSaleRepository_DeleteScopedByUser(t *testing.T) {
	db := openTestDB(t)
	sales := NewSaleRepository(db)
	ctx := context.Background()
	owner := createUser(t, db, "dono@loja.com")
	other := createUser(t, db, "outro@loja.com")

	in := models.SaleInput{Total: decimal.NewFromInt(5), FormaPagamento: "pix", Itens: []models.SaleItemInput{{ID: 1, Quantidade: 1, Preco: decimal.NewFromInt(5)}}}
	saleID, err := sales.CreateSale(ctx, db, owner, in, models.FormatTimestamp(time.Now()))
	require.NoError(t, err)
	_, err = sales.CreateSaleItem(ctx, db, saleID, in.Itens[0])
	require.NoError(t, err)

	assert.ErrorIs(t, sales.DeleteSale(ctx, db, other, saleID), ErrNotFound)
	items, err := sales.GetSaleItems(ctx, saleID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, sales.DeleteSale(ctx, db, owner, saleID))
	_, err = sales.GetSale(ctx, owner, saleID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerRepository_CRUD(t *testing.T) {
	db := openTestDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()
	uid := createUser(t, db, "u@loja.com")

	id, err := repo.CreateCustomer(ctx, db, uid, models.CustomerInput{Nome: "João", CPF: "111"}, 15, 3)
	require.NoError(t, err)
	_, err = repo.CreateCustomer(ctx, db, uid, models.CustomerInput{Nome: "Outro", CPF: "111"}, 15, 3)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	c, err := repo.GetCustomer(ctx, uid, id)
	require.NoError(t, err)
	assert.Equal(t, float64(0), c.Status)
	require.NotNil(t, c.DiaCadastro)
	assert.Equal(t, 15, *c.DiaCadastro)

	require.NoError(t, repo.UpdateCustomer(ctx, db, uid, id, models.CustomerInput{Nome: "João Silva", CPF: "111", Status: 2.5}))
	c, err = repo.GetCustomer(ctx, uid, id)
	require.NoError(t, err)
	assert.Equal(t, "João Silva", c.Nome)
	assert.Equal(t, 2.5, c.Status)
	assert.Equal(t, 3, *c.MesCadastro)

	require.NoError(t, repo.DeleteCustomer(ctx, db, uid, id))
	assert.ErrorIs(t, repo.DeleteCustomer(ctx, db, uid, id), ErrNotFound)
}

func TestStatsBounds(t *testing.T) {
	dayStart, dayEnd, monthStart, monthEnd := StatsBounds(time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, "2024-12-31 00:00:00", dayStart)
	assert.Equal(t, "2025-01-01 00:00:00", dayEnd)
	assert.Equal(t, "2024-12-01 00:00:00", monthStart)
	assert.Equal(t, "2025-01-01 00:00:00", monthEnd)
}
