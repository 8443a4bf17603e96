package models

import "github.com/shopspring/decimal"

func init() {
	// Money travels as JSON numbers, as the desktop UI expects.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is an item sold by one user. (codigo, usuario_id) is unique.
type Product struct {
	ID        int64           `json:"id" db:"id"`
	Codigo    string          `json:"codigo" db:"codigo"`
	Nome      string          `json:"nome" db:"nome"`
	Categoria *string         `json:"categoria" db:"categoria"`
	Preco     decimal.Decimal `json:"preco" db:"preco"`
	Estoque   int             `json:"estoque" db:"estoque"`
	UsuarioID int64           `json:"usuario_id" db:"usuario_id"`
	Foto      *string         `json:"foto" db:"foto"`
	CriadoEm  string          `json:"criado_em,omitempty" db:"criado_em"`
}

// ProductInput is the payload for creating or replacing a product.
type ProductInput struct {
	Codigo    string          `json:"codigo" binding:"required"`
	Nome      string          `json:"nome" binding:"required"`
	Categoria *string         `json:"categoria"`
	Preco     decimal.Decimal `json:"preco" binding:"gte=0"`
	Estoque   int             `json:"estoque" binding:"gte=0"`
	Foto      *string         `json:"foto"`
}
