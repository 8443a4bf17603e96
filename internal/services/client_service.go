package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"pdv_desk/internal/models"
	"pdv_desk/internal/repositories"
)

// CustomerService manages a user's customers.
type CustomerService interface {
	CreateCustomer(ctx context.Context, userID int64, in models.CustomerInput) (int64, error)
	ListCustomers(ctx context.Context, userID int64) ([]models.Customer, error)
	GetCustomer(ctx context.Context, userID, customerID int64) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, userID, customerID int64, in models.CustomerInput) error
	DeleteCustomer(ctx context.Context, userID, customerID int64) error
}

type customerService struct {
	customerRepo repositories.CustomerRepository
	db           *sqlx.DB
	now          func() time.Time
}

// NewCustomerService creates a new instance of CustomerService.
func NewCustomerService(repo repositories.CustomerRepository, db *sqlx.DB) CustomerService {
	return &customerService{customerRepo: repo, db: db, now: time.Now}
}

func validateCustomer(in *models.CustomerInput) error {
	in.Nome = strings.TrimSpace(in.Nome)
	in.CPF = strings.TrimSpace(in.CPF)
	if in.Nome == "" || in.CPF == "" {
		return fmt.Errorf("%w: nome e cpf são obrigatórios", ErrValidation)
	}
	return nil
}

// CreateCustomer registers the customer with today's day and month.
func (s *customerService) CreateCustomer(ctx context.Context, userID int64, in models.CustomerInput) (int64, error) {
	if err := validateCustomer(&in); err != nil {
		return 0, err
	}
	now := s.now()
	id, err := s.customerRepo.CreateCustomer(ctx, s.db, userID, in, now.Day(), int(now.Month()))
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return 0, ErrCPFExists
	}
	return id, err
}

func (s *customerService) ListCustomers(ctx context.Context, userID int64) ([]models.Customer, error) {
	return s.customerRepo.ListCustomers(ctx, userID)
}

func (s *customerService) GetCustomer(ctx context.Context, userID, customerID int64) (*models.Customer, error) {
	c, err := s.customerRepo.GetCustomer(ctx, userID, customerID)
	if err != nil {
		return nil, mapCustomerErr(err)
	}
	return c, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, userID, customerID int64, in models.CustomerInput) error {
	if err := validateCustomer(&in); err != nil {
		return err
	}
	return mapCustomerErr(s.customerRepo.UpdateCustomer(ctx, s.db, userID, customerID, in))
}

func (s *customerService) DeleteCustomer(ctx context.Context, userID, customerID int64) error {
	return mapCustomerErr(s.customerRepo.DeleteCustomer(ctx, s.db, userID, customerID))
}

func mapCustomerErr(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrCustomerNotFound
	case errors.Is(err, repositories.ErrDuplicateKey):
		return ErrCPFExists
	}
	return err
}
