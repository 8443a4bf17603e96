package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pdv_desk/internal/models"
)

const customerColumns = `id, COALESCE(usuario_id, 0) AS usuario_id, nome, cpf, COALESCE(status, 0) AS status,
	dia_cadastro, mes_cadastro, COALESCE(criado_em, '') AS criado_em`

// CustomerRepository defines the database operations on clientes.
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, executor SQLExecutor, userID int64, in models.CustomerInput, day, month int) (int64, error)
	ListCustomers(ctx context.Context, userID int64) ([]models.Customer, error)
	GetCustomer(ctx context.Context, userID, customerID int64) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, executor SQLExecutor, userID, customerID int64, in models.CustomerInput) error
	DeleteCustomer(ctx context.Context, executor SQLExecutor, userID, customerID int64) error
}

type customerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository(db *sqlx.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// CreateCustomer inserts a customer with status 0 and the given registration day/month.
func (r *customerRepository) CreateCustomer(ctx context.Context, executor SQLExecutor, userID int64, in models.CustomerInput, day, month int) (int64, error) {
	id, err := insertReturningID(ctx, executor,
		`INSERT INTO clientes (usuario_id, nome, cpf, status, dia_cadastro, mes_cadastro)
		 VALUES (?, ?, ?, 0, ?, ?) RETURNING id`,
		userID, in.Nome, in.CPF, day, month)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: cpf %s", ErrDuplicateKey, in.CPF)
		}
		return 0, fmt.Errorf("%w: creating customer: %v", ErrDatabaseError, err)
	}
	return id, nil
}

// ListCustomers returns the user's customers, newest first.
func (r *customerRepository) ListCustomers(ctx context.Context, userID int64) ([]models.Customer, error) {
	customers := []models.Customer{}
	query := r.db.Rebind("SELECT " + customerColumns + " FROM clientes WHERE usuario_id = ? ORDER BY criado_em DESC, id DESC")
	if err := r.db.SelectContext(ctx, &customers, query, userID); err != nil {
		return nil, fmt.Errorf("%w: listing customers: %v", ErrDatabaseError, err)
	}
	return customers, nil
}

func (r *customerRepository) GetCustomer(ctx context.Context, userID, customerID int64) (*models.Customer, error) {
	c := &models.Customer{}
	query := r.db.Rebind("SELECT " + customerColumns + " FROM clientes WHERE id = ? AND usuario_id = ?")
	if err := r.db.GetContext(ctx, c, query, customerID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting customer %d: %v", ErrDatabaseError, customerID, err)
	}
	return c, nil
}

// UpdateCustomer replaces name, cpf and status. The registration day and month are only
// replaced when the input carries both.
func (r *customerRepository) UpdateCustomer(ctx context.Context, executor SQLExecutor, userID, customerID int64, in models.CustomerInput) error {
	query := "UPDATE clientes SET nome = ?, cpf = ?, status = ? WHERE id = ? AND usuario_id = ?"
	args := []interface{}{in.Nome, in.CPF, float64(in.Status), customerID, userID}
	if in.HasRegistrationDate() {
		query = "UPDATE clientes SET nome = ?, cpf = ?, status = ?, dia_cadastro = ?, mes_cadastro = ? WHERE id = ? AND usuario_id = ?"
		args = []interface{}{in.Nome, in.CPF, float64(in.Status), *in.DiaCadastro, *in.MesCadastro, customerID, userID}
	}

	res, err := executor.ExecContext(ctx, executor.Rebind(query), args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: cpf %s", ErrDuplicateKey, in.CPF)
		}
		return fmt.Errorf("%w: updating customer %d: %v", ErrDatabaseError, customerID, err)
	}
	return requireAffected(res, "customer", customerID)
}

func (r *customerRepository) DeleteCustomer(ctx context.Context, executor SQLExecutor, userID, customerID int64) error {
	res, err := executor.ExecContext(ctx, executor.Rebind("DELETE FROM clientes WHERE id = ? AND usuario_id = ?"), customerID, userID)
	if err != nil {
		return fmt.Errorf("%w: deleting customer %d: %v", ErrDatabaseError, customerID, err)
	}
	return requireAffected(res, "customer", customerID)
}
