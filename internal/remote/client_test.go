package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv_desk/internal/database"
	"pdv_desk/internal/models"
	"pdv_desk/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.Open(context.Background(), database.DriverSQLite, filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	srv := httptest.NewServer(router.New(db, router.Options{JWTSecret: "client-test", JWTExpiration: time.Hour}))
	t.Cleanup(func() {
		srv.Close()
		db.Close()
	})
	return srv
}

func TestClient_AgainstServer(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/", time.Second, CircuitBreakerConfig{})
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	reg, err := c.Register(ctx, models.RegistrationPayload{Nome: "Ana", Email: "ana@loja.com", Senha: "1234"})
	require.NoError(t, err)
	require.NotNil(t, reg.Usuario)

	_, err = c.Login(ctx, models.Credentials{Email: "ana@loja.com", Senha: "errada"})
	assert.True(t, IsStatus(err, http.StatusUnauthorized), "%v", err)

	auth, err := c.Login(ctx, models.Credentials{Email: "ana@loja.com", Senha: "1234"})
	require.NoError(t, err)
	token := auth.Token

	me, err := c.Me(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ana@loja.com", me.Email)

	pid, err := c.CreateProduct(ctx, token, models.ProductInput{Codigo: "A1", Nome: "Arroz", Preco: decimal.RequireFromString("7.90"), Estoque: 3})
	require.NoError(t, err)

	p, err := c.ProductByCode(ctx, token, "A1")
	require.NoError(t, err)
	assert.Equal(t, pid, p.ID)

	_, err = c.CreateProduct(ctx, token, models.ProductInput{Codigo: "A1", Nome: "Dup", Preco: decimal.NewFromInt(1)})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "Código já cadastrado para este usuário", se.Message)

	saleID, err := c.CreateSale(ctx, token, models.SaleInput{
		Total:          decimal.RequireFromString("7.90"),
		FormaPagamento: "cartao",
		Itens:          []models.SaleItemInput{{ID: pid, Quantidade: 1, Preco: decimal.RequireFromString("7.90")}},
	})
	require.NoError(t, err)

	sales, err := c.ListSales(ctx, token)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, saleID, sales[0].ID)

	stats, err := c.Stats(ctx, token)
	require.NoError(t, err)
	assert.True(t, stats.VendasHoje.Equal(decimal.RequireFromString("7.9")))

	require.NoError(t, c.DeleteSale(ctx, token, saleID))
	assert.True(t, IsStatus(c.DeleteSale(ctx, token, saleID), http.StatusNotFound))

	cid, err := c.CreateCustomer(ctx, token, models.CustomerInput{Nome: "João", CPF: "123"})
	require.NoError(t, err)
	require.NoError(t, c.UpdateCustomer(ctx, token, cid, models.CustomerInput{Nome: "João S", CPF: "123"}))
	cust, err := c.GetCustomer(ctx, token, cid)
	require.NoError(t, err)
	assert.Equal(t, "João S", cust.Nome)
	require.NoError(t, c.DeleteCustomer(ctx, token, cid))

	assert.Equal(t, CBClosed, c.BreakerState())
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, time.Second, CircuitBreakerConfig{FailureThreshold: 1})

	for i := 0; i < 3; i++ {
		_, err := c.ListProducts(context.Background(), "bad-token")
		assert.True(t, IsStatus(err, http.StatusUnauthorized))
	}
	assert.Equal(t, CBClosed, c.BreakerState())
}

func TestClient_ServerErrorsTripBreaker(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Erro ao listar"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute})
	ctx := context.Background()

	_, err := c.ListSales(ctx, "t")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Erro ao listar", se.Message)

	_, _ = c.ListSales(ctx, "t")
	assert.Equal(t, CBOpen, c.BreakerState())

	_, err = c.ListSales(ctx, "t")
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 2, calls)
}

func TestClient_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond, CircuitBreakerConfig{})
	err := c.Ping(context.Background())
	assert.Error(t, err)
	assert.False(t, IsStatus(err, http.StatusNotFound))
}
