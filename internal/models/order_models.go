package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sale is a completed checkout. Itens, TotalItens and the cliente fields are filled by reads.
type Sale struct {
	ID             int64           `json:"id" db:"id"`
	UsuarioID      int64           `json:"usuario_id" db:"usuario_id"`
	Total          decimal.Decimal `json:"total" db:"total"`
	Desconto       decimal.Decimal `json:"desconto" db:"desconto"`
	FormaPagamento string          `json:"forma_pagamento" db:"forma_pagamento"`
	Data           string          `json:"data" db:"data"`
	ClienteID      *int64          `json:"cliente_id" db:"cliente_id"`
	TotalItens     int             `json:"total_itens" db:"total_itens"`
	ClienteNome    *string         `json:"cliente_nome" db:"cliente_nome"`
	ClienteCPF     *string         `json:"cliente_cpf,omitempty" db:"cliente_cpf"`
	Itens          []SaleItem      `json:"itens" db:"-"`
}

// SaleItem is one line of a sale. Preco mirrors PrecoUnitario for older UI code.
type SaleItem struct {
	ID            int64           `json:"id" db:"id"`
	VendaID       int64           `json:"venda_id" db:"venda_id"`
	ProdutoID     int64           `json:"produto_id" db:"produto_id"`
	Quantidade    int             `json:"quantidade" db:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario" db:"preco_unitario"`
	Preco         decimal.Decimal `json:"preco" db:"-"`
	Nome          *string         `json:"nome" db:"nome"`
	Codigo        *string         `json:"codigo" db:"codigo"`
}

// SaleInput is the checkout payload. The customer may be sent as cliente_id or clienteId.
type SaleInput struct {
	Total          decimal.Decimal `json:"total"`
	Desconto       decimal.Decimal `json:"desconto"`
	FormaPagamento string          `json:"forma_pagamento" binding:"required"`
	ClienteID      *int64          `json:"cliente_id,omitempty"`
	ClienteIDAlt   *int64          `json:"clienteId,omitempty"`
	Itens          []SaleItemInput `json:"itens" binding:"required,min=1,dive"`
}

// SaleItemInput references a product by id.
type SaleItemInput struct {
	ID         int64           `json:"id" binding:"required"`
	Quantidade int             `json:"quantidade" binding:"gt=0"`
	Preco      decimal.Decimal `json:"preco"`
}

// Customer returns whichever customer reference was sent, cliente_id first.
func (in *SaleInput) Customer() *int64 {
	if in.ClienteID != nil {
		return in.ClienteID
	}
	return in.ClienteIDAlt
}

// ErrInvalidSale is wrapped by every SaleInput validation failure.
var ErrInvalidSale = errors.New("venda inválida")

// Validate checks the monetary and quantity invariants of a sale.
func (in *SaleInput) Validate() error {
	if in.FormaPagamento == "" {
		return fmt.Errorf("%w: forma de pagamento obrigatória", ErrInvalidSale)
	}
	if in.Total.IsNegative() || in.Desconto.IsNegative() {
		return fmt.Errorf("%w: total e desconto não podem ser negativos", ErrInvalidSale)
	}
	if len(in.Itens) == 0 {
		return fmt.Errorf("%w: a venda precisa de ao menos um item", ErrInvalidSale)
	}
	for i, it := range in.Itens {
		if it.ID <= 0 {
			return fmt.Errorf("%w: item %d sem produto", ErrInvalidSale, i+1)
		}
		if it.Quantidade <= 0 {
			return fmt.Errorf("%w: quantidade do item %d deve ser maior que zero", ErrInvalidSale, i+1)
		}
		if it.Preco.IsNegative() {
			return fmt.Errorf("%w: preço do item %d não pode ser negativo", ErrInvalidSale, i+1)
		}
	}
	return nil
}
