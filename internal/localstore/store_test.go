package localstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv_desk/internal/models"
	"pdv_desk/pkg/utils"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "pdv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	first, err := s.HasUsers(ctx)
	require.NoError(t, err)
	assert.False(t, first)

	_, err = s.CreateUser(ctx, "Ana", "ana@loja.com", "1234")
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "Ana 2", "ana@loja.com", "abcd")
	assert.ErrorIs(t, err, ErrEmailExists)

	has, err := s.HasUsers(ctx)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestCreateUser_RequiresFields(t *testing.T) {
	s := openStore(t)
	_, err := s.CreateUser(context.Background(), " ", "a@b.com", "x")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	id, err := s.CreateUser(ctx, "Ana", "ana@loja.com", "1234")
	require.NoError(t, err)

	user, err := s.Login(ctx, "ana@loja.com", "1234")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Empty(t, user.Senha)

	_, err = s.Login(ctx, "ana@loja.com", "errada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(ctx, "ninguem@loja.com", "1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UpgradesLegacyHash(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	sum := sha256.Sum256([]byte("1234"))
	_, err := s.DB().ExecContext(ctx, "INSERT INTO usuarios (nome, email, senha) VALUES (?, ?, ?)",
		"Legado", "legado@loja.com", hex.EncodeToString(sum[:]))
	require.NoError(t, err)

	_, err = s.Login(ctx, "legado@loja.com", "1234")
	require.NoError(t, err)

	var stored string
	require.NoError(t, s.DB().GetContext(ctx, &stored, "SELECT senha FROM usuarios WHERE email = ?", "legado@loja.com"))
	assert.False(t, utils.IsLegacyHash(stored))
	assert.True(t, utils.CheckPassword(stored, "1234"))

	_, err = s.Login(ctx, "legado@loja.com", "1234")
	assert.NoError(t, err)
}

func TestUpdateUser(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	id, err := s.CreateUser(ctx, "Ana", "ana@loja.com", "1234")
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, "Bia", "bia@loja.com", "1234")
	require.NoError(t, err)

	err = s.UpdateUser(ctx, id, models.UserUpdate{Nome: "Ana", Email: "bia@loja.com"})
	assert.ErrorIs(t, err, ErrEmailExists)

	require.NoError(t, s.UpdateUser(ctx, id, models.UserUpdate{Nome: "Ana Paula", Email: "ana@loja.com", Senha: "nova"}))
	_, err = s.Login(ctx, "ana@loja.com", "nova")
	assert.NoError(t, err)

	assert.ErrorIs(t, s.UpdateUser(ctx, 999, models.UserUpdate{Nome: "X", Email: "x@loja.com"}), ErrNotFound)
}

func TestSession(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	id, err := s.CreateUser(ctx, "Ana", "ana@loja.com", "1234")
	require.NoError(t, err)

	sess, err := s.Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)

	require.NoError(t, s.SaveSession(ctx, id, "ana@loja.com"))
	require.NoError(t, s.SaveSession(ctx, id, "ana@loja.com"))
	sess, err = s.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.Session{UsuarioID: id, Email: "ana@loja.com"}, sess)

	require.NoError(t, s.RemoveSession(ctx))
	sess, err = s.Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestProducts(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	uid, err := s.CreateUser(ctx, "Ana", "ana@loja.com", "1234")
	require.NoError(t, err)

	in := models.ProductInput{Codigo: " 789 ", Nome: "Leite", Preco: decimal.RequireFromString("5.99"), Estoque: 12}
	id, err := s.CreateProduct(ctx, uid, in)
	require.NoError(t, err)

	_, err = s.CreateProduct(ctx, uid, in)
	assert.ErrorIs(t, err, ErrCodeExists)

	_, err = s.CreateProduct(ctx, uid, models.ProductInput{Codigo: "X", Nome: "Y", Preco: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	p, err := s.ProductByCode(ctx, uid, "789")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, id, p.ID)

	missing, err := s.ProductByCode(ctx, uid, "000")
	require.NoError(t, err)
	assert.Nil(t, missing)

	in.Nome = "Leite Integral"
	require.NoError(t, s.UpdateProduct(ctx, uid, id, in))
	assert.ErrorIs(t, s.UpdateProduct(ctx, uid, id+100, in), ErrNotFound)

	list, err := s.ListProducts(ctx, uid)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Leite Integral", list[0].Nome)

	require.NoError(t, s.DeleteProduct(ctx, uid, id))
	assert.ErrorIs(t, s.DeleteProduct(ctx, uid, id), ErrNotFound)
}

func TestSales(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	fixed := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	uid, err := s.CreateUser(ctx, "Ana", "ana@loja.com", "1234")
	require.NoError(t, err)
	pid, err := s.CreateProduct(ctx, uid, models.ProductInput{Codigo: "1", Nome: "Pão", Preco: decimal.RequireFromString("0.75"), Estoque: 100})
	require.NoError(t, err)

	_, err = s.CreateSale(ctx, uid, models.SaleInput{Total: decimal.NewFromInt(1), FormaPagamento: "pix"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	saleID, err := s.CreateSale(ctx, uid, models.SaleInput{
		Total:          decimal.RequireFromString("3.00"),
		FormaPagamento: "dinheiro",
		Itens: []models.SaleItemInput{
			{ID: pid, Quantidade: 2, Preco: decimal.RequireFromString("0.75")},
			{ID: pid, Quantidade: 2, Preco: decimal.RequireFromString("0.75")},
		},
	})
	require.NoError(t, err)

	sale, err := s.SaleWithItems(ctx, uid, saleID)
	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.Len(t, sale.Itens, 2)
	assert.Equal(t, "2025-06-10 09:00:00", sale.Data)

	p, err := s.ProductByCode(ctx, uid, "1")
	require.NoError(t, err)
	assert.Equal(t, 100, p.Estoque)

	stats, err := s.Stats(ctx, uid)
	require.NoError(t, err)
	assert.True(t, stats.VendasHoje.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, int64(1), stats.TotalProdutos)

	require.NoError(t, s.DeleteSale(ctx, uid, saleID))
	gone, err := s.SaleWithItems(ctx, uid, saleID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.ErrorIs(t, s.DeleteSale(ctx, uid, saleID), ErrNotFound)
}

func TestSales_ProductsDeletedOrUnknown(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	uid, err := s.CreateUser(ctx, "Ana", "ana@loja.com", "1234")
	require.NoError(t, err)
	pid, err := s.CreateProduct(ctx, uid, models.ProductInput{Codigo: "7", Nome: "Café", Preco: decimal.RequireFromString("12.00"), Estoque: 5})
	require.NoError(t, err)

	saleID, err := s.CreateSale(ctx, uid, models.SaleInput{
		Total:          decimal.RequireFromString("12.00"),
		FormaPagamento: "pix",
		Itens:          []models.SaleItemInput{{ID: pid, Quantidade: 1, Preco: decimal.RequireFromString("12.00")}},
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteProduct(ctx, uid, pid))

	sale, err := s.SaleWithItems(ctx, uid, saleID)
	require.NoError(t, err)
	require.NotNil(t, sale)
	require.Len(t, sale.Itens, 1)
	assert.Equal(t, pid, sale.Itens[0].ProdutoID)
	assert.Nil(t, sale.Itens[0].Nome)

	// Ids listed by the server are not known locally.
	_, err = s.CreateSale(ctx, uid, models.SaleInput{
		Total:          decimal.RequireFromString("4.00"),
		FormaPagamento: "dinheiro",
		Itens:          []models.SaleItemInput{{ID: 999, Quantidade: 2, Preco: decimal.RequireFromString("2.00")}},
	})
	assert.NoError(t, err)
}

func TestCustomers(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	s.now = func() time.Time { return time.Date(2025, 2, 7, 12, 0, 0, 0, time.UTC) }
	uid, err := s.CreateUser(ctx, "Ana", "ana@loja.com", "1234")
	require.NoError(t, err)

	a, err := s.CreateCustomer(ctx, uid, models.CustomerInput{Nome: "João", CPF: "111"})
	require.NoError(t, err)
	b, err := s.CreateCustomer(ctx, uid, models.CustomerInput{Nome: "Maria", CPF: "222"})
	require.NoError(t, err)

	_, err = s.CreateCustomer(ctx, uid, models.CustomerInput{Nome: "Dup", CPF: "111"})
	assert.ErrorIs(t, err, ErrCPFExists)

	c, err := s.Customer(ctx, uid, a)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 7, *c.DiaCadastro)
	assert.Equal(t, 2, *c.MesCadastro)

	err = s.UpdateCustomer(ctx, uid, b, models.CustomerInput{Nome: "Maria", CPF: "111"})
	assert.ErrorIs(t, err, ErrCPFTaken)

	list, err := s.ListCustomers(ctx, uid)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b, list[0].ID)

	require.NoError(t, s.DeleteCustomer(ctx, uid, a))
	none, err := s.Customer(ctx, uid, a)
	require.NoError(t, err)
	assert.Nil(t, none)
}
