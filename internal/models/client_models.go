package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Customer is a buyer registered by one user. (cpf, usuario_id) is unique.
type Customer struct {
	ID          int64   `json:"id" db:"id"`
	UsuarioID   int64   `json:"usuario_id" db:"usuario_id"`
	Nome        string  `json:"nome" db:"nome"`
	CPF         string  `json:"cpf" db:"cpf"`
	Status      float64 `json:"status" db:"status"`
	DiaCadastro *int    `json:"dia_cadastro" db:"dia_cadastro"`
	MesCadastro *int    `json:"mes_cadastro" db:"mes_cadastro"`
	CriadoEm    string  `json:"criado_em,omitempty" db:"criado_em"`
}

// CustomerInput creates or updates a customer. Registration day and month are only
// replaced on update when both are present.
type CustomerInput struct {
	Nome        string  `json:"nome" binding:"required"`
	CPF         string  `json:"cpf" binding:"required"`
	Status      Number  `json:"status"`
	DiaCadastro *int    `json:"dia_cadastro,omitempty" binding:"omitempty,min=1,max=31"`
	MesCadastro *int    `json:"mes_cadastro,omitempty" binding:"omitempty,min=1,max=12"`
}

// HasRegistrationDate reports whether both day and month were supplied.
func (in *CustomerInput) HasRegistrationDate() bool {
	return in.DiaCadastro != nil && in.MesCadastro != nil
}

// Number is a float that also decodes from a string. Empty or non-numeric strings,
// null and booleans decode as 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = 0
	switch v := raw.(type) {
	case float64:
		*n = Number(v)
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil {
			*n = Number(d.InexactFloat64())
		}
	}
	return nil
}
