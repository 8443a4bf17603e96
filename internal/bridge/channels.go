package bridge

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"pdv_desk/internal/gateway"
	"pdv_desk/internal/models"
)

func (b *Bridge) registerUsers(gw *gateway.Gateway) {
	b.Handle("verificar-primeiro-acesso", func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
		first, err := gw.FirstAccess(ctx)
		if err != nil {
			return Failure(err), nil
		}
		return first, nil
	})

	b.Handle("criar-usuario", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in models.RegistrationPayload
		if err := decode(payload, &in); err != nil {
			return nil, err
		}
		return mutation(gw.CreateUser(ctx, in.Nome, in.Email, in.Senha))
	})

	b.Handle("login", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in models.Credentials
		if err := decode(payload, &in); err != nil {
			return nil, err
		}
		user, outcome, err := gw.Login(ctx, in.Email, in.Senha)
		if err != nil {
			return Failure(err), nil
		}
		return Result{Success: true, Usuario: user, Outcome: outcome}, nil
	})

	b.Handle("logout", func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
		if err := gw.Logout(ctx); err != nil {
			return Failure(err), nil
		}
		return Result{Success: true}, nil
	})

	b.Handle("get-usuario-logado", func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
		return itemOrNull(gw.CurrentUser(ctx))
	})

	b.Handle("usuario-atualizar", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in models.UserUpdate
		if err := decode(payload, &in); err != nil {
			return nil, err
		}
		return done(gw.UpdateUser(ctx, in))
	})

	b.Handle("verificar-sessao", func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
		user, err := gw.RestoreSession(ctx)
		if err != nil {
			return Failure(err), nil
		}
		if user == nil {
			return Result{Success: false}, nil
		}
		return Result{Success: true, Usuario: user}, nil
	})
}

type productUpdate struct {
	ID      int64               `json:"id"`
	Produto models.ProductInput `json:"produto"`
}

func (b *Bridge) registerProducts(gw *gateway.Gateway) {
	b.Handle("produtos-listar", func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
		products, _, err := gw.ListProducts(ctx)
		return listOrEmpty(products, err)
	})

	b.Handle("produto-criar", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in models.ProductInput
		if err := decode(payload, &in); err != nil {
			return nil, err
		}
		return mutation(gw.CreateProduct(ctx, in))
	})

	b.Handle("produto-atualizar", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in productUpdate
		if err := decode(payload, &in); err != nil {
			return nil, err
		}
		return done(gw.UpdateProduct(ctx, in.ID, in.Produto))
	})

	b.Handle("produto-deletar", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		id, err := decodeID(payload)
		if err != nil {
			return nil, err
		}
		return done(gw.DeleteProduct(ctx, id))
	})

	b.Handle("produto-buscar-codigo", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		code, err := decodeCode(payload)
		if err != nil {
			return nil, err
		}
		product, _, err := gw.ProductByCode(ctx, code)
		return itemOrNull(product, err)
	})
}

// decodeCode accepts a bare string ("789") or an object ({"codigo": "789"}).
func decodeCode(payload json.RawMessage) (string, error) {
	var code string
	if err := json.Unmarshal(payload, &code); err == nil {
		return code, nil
	}
	var obj struct {
		Codigo string `json:"codigo"`
	}
	if err := decode(payload, &obj); err != nil {
		return "", err
	}
	return obj.Codigo, nil
}

// saleRequest is the checkout payload: the sale header and its items side by side.
type saleRequest struct {
	Venda models.SaleInput       `json:"venda"`
	Itens []models.SaleItemInput `json:"itens"`
}

func (r saleRequest) input() models.SaleInput {
	in := r.Venda
	if len(r.Itens) > 0 {
		in.Itens = r.Itens
	}
	return in
}

var zeroStats = models.SalesStats{VendasHoje: decimal.Zero, VendasMes: decimal.Zero}

func (b *Bridge) registerSales(gw *gateway.Gateway) {
	b.Handle("venda-criar", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in saleRequest
		if err := decode(payload, &in); err != nil {
			return nil, err
		}
		return mutation(gw.CreateSale(ctx, in.input()))
	})

	b.Handle("vendas-listar", func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
		sales, _, err := gw.ListSales(ctx)
		return listOrEmpty(sales, err)
	})

	b.Handle("venda-buscar", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		id, err := decodeID(payload)
		if err != nil {
			return nil, err
		}
		sale, _, err := gw.GetSale(ctx, id)
		return itemOrNull(sale, err)
	})

	b.Handle("vendas-estatisticas", func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
		stats, _, err := gw.Stats(ctx)
		if errors.Is(err, gateway.ErrNotLoggedIn) {
			return zeroStats, nil
		}
		if err != nil {
			return Failure(err), nil
		}
		return stats, nil
	})

	b.Handle("venda-deletar", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		id, err := decodeID(payload)
		if err != nil {
			return nil, err
		}
		return done(gw.DeleteSale(ctx, id))
	})
}

type customerUpdate struct {
	ID      int64                `json:"id"`
	Cliente models.CustomerInput `json:"cliente"`
}

func (b *Bridge) registerCustomers(gw *gateway.Gateway) {
	b.Handle("cliente-criar", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in models.CustomerInput
		if err := decode(payload, &in); err != nil {
			return nil, err
		}
		return mutation(gw.CreateCustomer(ctx, in))
	})

	b.Handle("clientes-listar", func(ctx context.Context, _ json.RawMessage) (interface{}, error) {
		customers, _, err := gw.ListCustomers(ctx)
		return listOrEmpty(customers, err)
	})

	b.Handle("cliente-buscar", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		id, err := decodeID(payload)
		if err != nil {
			return nil, err
		}
		customer, _, err := gw.GetCustomer(ctx, id)
		return itemOrNull(customer, err)
	})

	b.Handle("cliente-atualizar", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		var in customerUpdate
		if err := decode(payload, &in); err != nil {
			return nil, err
		}
		return done(gw.UpdateCustomer(ctx, in.ID, in.Cliente))
	})

	b.Handle("cliente-excluir", func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		id, err := decodeID(payload)
		if err != nil {
			return nil, err
		}
		return done(gw.DeleteCustomer(ctx, id))
	})
}
