package gateway

import (
	"context"

	"pdv_desk/internal/models"
)

// --- Products ---

func (g *Gateway) ListProducts(ctx context.Context) ([]models.Product, Outcome, error) {
	if err := g.loggedIn(); err != nil {
		return nil, Failed, err
	}
	return run(ctx, g, "produtos-listar",
		func(ctx context.Context, token string) ([]models.Product, error) {
			return g.remote.ListProducts(ctx, token)
		},
		func(ctx context.Context) ([]models.Product, error) {
			uid, err := g.localUserID()
			if err != nil {
				return nil, err
			}
			return g.local.ListProducts(ctx, uid)
		})
}

func (g *Gateway) CreateProduct(ctx context.Context, in models.ProductInput) (int64, Outcome, error) {
	if err := g.loggedIn(); err != nil {
		return 0, Failed, err
	}
	return run(ctx, g, "produto-criar",
		func(ctx context.Context, token string) (int64, error) {
			return g.remote.CreateProduct(ctx, token, in)
		},
		func(ctx context.Context) (int64, error) {
			uid, err := g.localUserID()
			if err != nil {
				return 0, err
			}
			return g.local.CreateProduct(ctx, uid, in)
		})
}

func (g *Gateway) UpdateProduct(ctx context.Context, id int64, in models.ProductInput) (Outcome, error) {
	if err := g.loggedIn(); err != nil {
		return Failed, err
	}
	return do(ctx, g, "produto-atualizar",
		func(ctx context.Context, token string) error {
			return g.remote.UpdateProduct(ctx, token, id, in)
		},
		func(ctx context.Context) error {
			uid, err := g.localUserID()
			if err != nil {
				return err
			}
			return g.local.UpdateProduct(ctx, uid, id, in)
		})
}

func (g *Gateway) DeleteProduct(ctx context.Context, id int64) (Outcome, error) {
	if err := g.loggedIn(); err != nil {
		return Failed, err
	}
	return do(ctx, g, "produto-deletar",
		func(ctx context.Context, token string) error {
			return g.remote.DeleteProduct(ctx, token, id)
		},
		func(ctx context.Context) error {
			uid, err := g.localUserID()
			if err != nil {
				return err
			}
			return g.local.DeleteProduct(ctx, uid, id)
		})
}

// ProductByCode returns nil when no product has the code.
func (g *Gateway) ProductByCode(ctx context.Context, code string) (*models.Product, Outcome, error) {
	if err := g.loggedIn(); err != nil {
		return nil, Failed, err
	}
	return run(ctx, g, "produto-buscar-codigo",
		func(ctx context.Context, token string) (*models.Product, error) {
			return g.remote.ProductByCode(ctx, token, code)
		},
		func(ctx context.Context) (*models.Product, error) {
			uid, err := g.localUserID()
			if err != nil {
				return nil, err
			}
			return g.local.ProductByCode(ctx, uid, code)
		})
}

// --- Sales ---

func (g *Gateway) CreateSale(ctx context.Context, in models.SaleInput) (int64, Outcome, error) {
	if err := g.loggedIn(); err != nil {
		return 0, Failed, err
	}
	return run(ctx, g, "venda-criar",
		func(ctx context.Context, token string) (int64, error) {
			return g.remote.CreateSale(ctx, token, in)
		},
		func(ctx context.Context) (int64, error) {
			uid, err := g.localUserID()
			if err != nil {
				return 0, err
			}
			return g.local.CreateSale(ctx, uid, in)
		})
}

func (g *Gateway) ListSales(ctx context.Context) ([]models.Sale, Outcome, error) {
	if err := g.loggedIn(); err != nil {
		return nil, Failed, err
	}
	return run(ctx, g, "vendas-listar",
		func(ctx context.Context, token string) ([]models.Sale, error) {
			return g.remote.ListSales(ctx, token)
		},
		func(ctx context.Context) ([]models.Sale, error) {
			uid, err := g.localUserID()
			if err != nil {
				return nil, err
			}
			return g.local.ListSales(ctx, uid)
		})
}

// GetSale returns nil when the user has no such sale.
func (g *Gateway) GetSale(ctx context.Context, id int64) (*models.Sale, Outcome, error) {
	if err := g.loggedIn(); err != nil {
		return nil, Failed, err
	}
	return run(ctx, g, "venda-buscar",
		func(ctx context.Context, token string) (*models.Sale, error) {
			return g.remote.GetSale(ctx, token, id)
		},
		func(ctx context.Context) (*models.Sale, error) {
			uid, err := g.localUserID()
			if err != nil {
				return nil, err
			}
			return g.local.SaleWithItems(ctx, uid, id)
		})
}

func (g *Gateway) Stats(ctx context.Context) (*models.SalesStats, Outcome, error) {
	if err := g.loggedIn(); err != nil {
		return nil, Failed, err
	}
	return run(ctx, g, "vendas-estatisticas",
		func(ctx context.Context, token string) (*models.SalesStats, error) {
			return g.remote.Stats(ctx, token)
		},
		func(ctx context.Context) (*models.SalesStats, error) {
			uid, err := g.localUserID()
			if err != nil {
				return nil, err
			}
			return g.local.Stats(ctx, uid)
		})
}

func (g *Gateway) DeleteSale(ctx context.Context, id int64) (Outcome, error) {
	if err := g.loggedIn(); err != nil {
		return Failed, err
	}
	return do(ctx, g, "venda-deletar",
		func(ctx context.Context, token string) error {
			return g.remote.DeleteSale(ctx, token, id)
		},
		func(ctx context.Context) error {
			uid, err := g.localUserID()
			if err != nil {
				return err
			}
			return g.local.DeleteSale(ctx, uid, id)
		})
}

// --- Customers ---

func (g *Gateway) CreateCustomer(ctx context.Context, in models.CustomerInput) (int64, Outcome, error) {
	if err := g.loggedIn(); err != nil {
		return 0, Failed, err
	}
	return run(ctx, g, "cliente-criar",
		func(ctx context.Context, token string) (int64, error) {
			return g.remote.CreateCustomer(ctx, token, in)
		},
		func(ctx context.Context) (int64, error) {
			uid, err := g.localUserID()
			if err != nil {
				return 0, err
			}
			return g.local.CreateCustomer(ctx, uid, in)
		})
}

func (g *Gateway) ListCustomers(ctx context.Context) ([]models.Customer, Outcome, error) {
	if err := g.loggedIn(); err != nil {
		return nil, Failed, err
	}
	return run(ctx, g, "clientes-listar",
		func(ctx context.Context, token string) ([]models.Customer, error) {
			return g.remote.ListCustomers(ctx, token)
		},
		func(ctx context.Context) ([]models.Customer, error) {
			uid, err := g.localUserID()
			if err != nil {
				return nil, err
			}
			return g.local.ListCustomers(ctx, uid)
		})
}

// GetCustomer returns nil when the user has no such customer.
func (g *Gateway) GetCustomer(ctx context.Context, id int64) (*models.Customer, Outcome, error) {
	if err := g.loggedIn(); err != nil {
		return nil, Failed, err
	}
	return run(ctx, g, "cliente-buscar",
		func(ctx context.Context, token string) (*models.Customer, error) {
			return g.remote.GetCustomer(ctx, token, id)
		},
		func(ctx context.Context) (*models.Customer, error) {
			uid, err := g.localUserID()
			if err != nil {
				return nil, err
			}
			return g.local.Customer(ctx, uid, id)
		})
}

func (g *Gateway) UpdateCustomer(ctx context.Context, id int64, in models.CustomerInput) (Outcome, error) {
	if err := g.loggedIn(); err != nil {
		return Failed, err
	}
	return do(ctx, g, "cliente-atualizar",
		func(ctx context.Context, token string) error {
			return g.remote.UpdateCustomer(ctx, token, id, in)
		},
		func(ctx context.Context) error {
			uid, err := g.localUserID()
			if err != nil {
				return err
			}
			return g.local.UpdateCustomer(ctx, uid, id, in)
		})
}

func (g *Gateway) DeleteCustomer(ctx context.Context, id int64) (Outcome, error) {
	if err := g.loggedIn(); err != nil {
		return Failed, err
	}
	return do(ctx, g, "cliente-excluir",
		func(ctx context.Context, token string) error {
			return g.remote.DeleteCustomer(ctx, token, id)
		},
		func(ctx context.Context) error {
			uid, err := g.localUserID()
			if err != nil {
				return err
			}
			return g.local.DeleteCustomer(ctx, uid, id)
		})
}
