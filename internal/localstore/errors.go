package localstore

import (
	"errors"
	"fmt"
)

// Errors carry the messages shown to the operator.
var (
	ErrEmailExists        = errors.New("Email já cadastrado")
	ErrInvalidCredentials = errors.New("Email ou senha incorretos")
	ErrCodeExists         = errors.New("Código já cadastrado para este usuário")
	ErrCPFExists          = errors.New("CPF já cadastrado para este usuário")
	ErrCPFTaken           = errors.New("CPF já cadastrado para outro cliente")
	ErrNotFound           = errors.New("Registro não encontrado")
	ErrInvalidInput       = errors.New("Dados inválidos")
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
