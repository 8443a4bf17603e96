package services

import "errors"

// --- Custom Service Errors ---
var (
	ErrValidation         = errors.New("validation error")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already exists")
	ErrTokenGeneration    = errors.New("failed to generate token")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductCodeExists  = errors.New("product code already exists for this user")
	ErrSaleNotFound       = errors.New("sale not found")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrCPFExists          = errors.New("cpf already exists for this user")
)
