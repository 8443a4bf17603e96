package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv_desk/internal/gateway"
	"pdv_desk/internal/localstore"
	"pdv_desk/internal/models"
	"pdv_desk/internal/remote"
)

func newBridge(t *testing.T) *Bridge {
	t.Helper()
	local, err := localstore.Open(context.Background(), filepath.Join(t.TempDir(), "pdv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { local.Close() })
	client := remote.NewClient("http://127.0.0.1:1", 200*time.Millisecond, remote.CircuitBreakerConfig{})
	return New(gateway.New(local, client))
}

func call(t *testing.T, b *Bridge, channel, payload string) interface{} {
	t.Helper()
	out, err := b.Call(context.Background(), channel, json.RawMessage(payload))
	require.NoError(t, err, channel)
	return out
}

func asResult(t *testing.T, v interface{}) Result {
	t.Helper()
	r, ok := v.(Result)
	require.True(t, ok, "expected Result, got %T", v)
	return r
}

func login(t *testing.T, b *Bridge) {
	t.Helper()
	r := asResult(t, call(t, b, "criar-usuario", `{"nome":"Ana","email":"ana@loja.com","senha":"1234"}`))
	require.True(t, r.Success, r.Error)
	r = asResult(t, call(t, b, "login", `{"email":"ana@loja.com","senha":"1234"}`))
	require.True(t, r.Success, r.Error)
}

func TestBridge_LoggedOutDefaults(t *testing.T) {
	b := newBridge(t)

	assert.Equal(t, true, call(t, b, "verificar-primeiro-acesso", ``))
	assert.Equal(t, []models.Product{}, call(t, b, "produtos-listar", ``))
	assert.Equal(t, []models.Sale{}, call(t, b, "vendas-listar", ``))
	assert.Equal(t, []models.Customer{}, call(t, b, "clientes-listar", ``))
	assert.Nil(t, call(t, b, "get-usuario-logado", ``))
	assert.Nil(t, call(t, b, "produto-buscar-codigo", `"789"`))

	stats, ok := call(t, b, "vendas-estatisticas", ``).(models.SalesStats)
	require.True(t, ok)
	assert.True(t, stats.VendasHoje.IsZero())

	r := asResult(t, call(t, b, "produto-criar", `{"codigo":"1","nome":"x","preco":1,"estoque":1}`))
	assert.False(t, r.Success)
	assert.Equal(t, gateway.ErrNotLoggedIn.Error(), r.Error)

	r = asResult(t, call(t, b, "verificar-sessao", ``))
	assert.False(t, r.Success)
}

func TestBridge_LoginFailure(t *testing.T) {
	b := newBridge(t)
	r := asResult(t, call(t, b, "login", `{"email":"ninguem@loja.com","senha":"x"}`))
	assert.False(t, r.Success)
	assert.Equal(t, localstore.ErrInvalidCredentials.Error(), r.Error)
	assert.Equal(t, gateway.Failed, r.Outcome)
}

func TestBridge_CheckoutFlow(t *testing.T) {
	b := newBridge(t)
	login(t, b)

	r := asResult(t, call(t, b, "produto-criar", `{"codigo":"789","nome":"Leite","preco":5.99,"estoque":10}`))
	require.True(t, r.Success, r.Error)
	assert.Equal(t, gateway.CommittedLocalOnly, r.Outcome)
	pid := r.ID

	product, ok := call(t, b, "produto-buscar-codigo", `"789"`).(*models.Product)
	require.True(t, ok)
	assert.Equal(t, pid, product.ID)

	r = asResult(t, call(t, b, "cliente-criar", `{"nome":"João","cpf":"111"}`))
	require.True(t, r.Success, r.Error)
	cid := r.ID

	payload := `{"venda":{"total":11.98,"desconto":0,"forma_pagamento":"pix","clienteId":` + itoa(cid) + `},
		"itens":[{"id":` + itoa(pid) + `,"quantidade":2,"preco":5.99}]}`
	r = asResult(t, call(t, b, "venda-criar", payload))
	require.True(t, r.Success, r.Error)
	saleID := r.ID

	sale, ok := call(t, b, "venda-buscar", itoa(saleID)).(*models.Sale)
	require.True(t, ok)
	require.Len(t, sale.Itens, 1)
	require.NotNil(t, sale.ClienteNome)
	assert.Equal(t, "João", *sale.ClienteNome)

	stats, ok := call(t, b, "vendas-estatisticas", ``).(*models.SalesStats)
	require.True(t, ok)
	assert.Equal(t, "11.98", stats.VendasHoje.StringFixed(2))

	r = asResult(t, call(t, b, "venda-deletar", `{"id":`+itoa(saleID)+`}`))
	assert.True(t, r.Success)
	assert.Nil(t, call(t, b, "venda-buscar", itoa(saleID)))

	r = asResult(t, call(t, b, "cliente-atualizar", `{"id":`+itoa(cid)+`,"cliente":{"nome":"João S","cpf":"111","status":1}}`))
	assert.True(t, r.Success, r.Error)
	r = asResult(t, call(t, b, "cliente-atualizar", `{"id":`+itoa(cid)+`,"cliente":{"nome":"João S","cpf":"111","status":"10"}}`))
	assert.True(t, r.Success, r.Error)
	customer, ok := call(t, b, "cliente-buscar", itoa(cid)).(*models.Customer)
	require.True(t, ok)
	assert.Equal(t, 10.0, customer.Status)
	r = asResult(t, call(t, b, "cliente-atualizar", `{"id":`+itoa(cid)+`,"cliente":{"nome":"João S","cpf":"111","status":""}}`))
	assert.True(t, r.Success, r.Error)
	r = asResult(t, call(t, b, "produto-atualizar", `{"id":`+itoa(pid)+`,"produto":{"codigo":"789","nome":"Leite 1L","preco":6,"estoque":9}}`))
	assert.True(t, r.Success, r.Error)

	r = asResult(t, call(t, b, "cliente-excluir", itoa(cid)))
	assert.True(t, r.Success, r.Error)
	r = asResult(t, call(t, b, "produto-deletar", itoa(pid)))
	assert.True(t, r.Success, r.Error)
	r = asResult(t, call(t, b, "produto-deletar", itoa(pid)))
	assert.False(t, r.Success)
	assert.Equal(t, localstore.ErrNotFound.Error(), r.Error)
}

func TestBridge_UserProfile(t *testing.T) {
	b := newBridge(t)
	login(t, b)

	r := asResult(t, call(t, b, "usuario-atualizar", `{"nome":"Ana Paula","email":"ana@loja.com","nome_comercio":"Mercadinho"}`))
	require.True(t, r.Success, r.Error)

	user, ok := call(t, b, "get-usuario-logado", ``).(*models.User)
	require.True(t, ok)
	assert.Equal(t, "Ana Paula", user.Nome)

	r = asResult(t, call(t, b, "logout", ``))
	assert.True(t, r.Success)
	assert.Nil(t, call(t, b, "get-usuario-logado", ``))
}

func TestBridge_CallErrors(t *testing.T) {
	b := newBridge(t)

	_, err := b.Call(context.Background(), "nao-existe", nil)
	assert.ErrorIs(t, err, ErrUnknownChannel)

	_, err = b.Call(context.Background(), "login", json.RawMessage(`{`))
	assert.ErrorIs(t, err, ErrBadPayload)

	assert.Contains(t, b.Channels(), "venda-criar")
	assert.Len(t, b.Channels(), 22)
}

func TestEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := NewEngine(newBridge(t))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bridge", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "produtos-listar")

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bridge/verificar-primeiro-acesso", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", strings.TrimSpace(w.Body.String()))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bridge/criar-usuario",
		strings.NewReader(`{"nome":"Ana","email":"ana@loja.com","senha":"1234"}`)))
	require.Equal(t, http.StatusOK, w.Code)
	var r Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	assert.True(t, r.Success)
	assert.Equal(t, gateway.CommittedLocalOnly, r.Outcome)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bridge/nada", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bridge/login", strings.NewReader(`not json`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
