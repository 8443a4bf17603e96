package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pdv_desk/internal/models"
)

const userColumns = `id, nome, email, senha, COALESCE(tipo, 'operador') AS tipo, foto, nome_comercio,
	COALESCE(criado_em, '') AS criado_em`

// UserRepository defines the database operations on usuarios.
type UserRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, executor SQLExecutor, nome, email, hashedPassword string) (int64, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error) // includes the password hash
	FindUserByID(ctx context.Context, userID int64) (*models.User, error)
	UpdateUser(ctx context.Context, executor SQLExecutor, userID int64, upd models.UserUpdate, hashedPassword string) error
	UpdatePassword(ctx context.Context, executor SQLExecutor, userID int64, hashedPassword string) error
}

type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM usuarios"); err != nil {
		return 0, fmt.Errorf("%w: counting users: %v", ErrDatabaseError, err)
	}
	return n, nil
}

// CreateUser inserts a new user with the default type. The password must already be hashed.
func (r *userRepository) CreateUser(ctx context.Context, executor SQLExecutor, nome, email, hashedPassword string) (int64, error) {
	id, err := insertReturningID(ctx, executor,
		`INSERT INTO usuarios (nome, email, senha, tipo) VALUES (?, ?, ?, ?) RETURNING id`,
		nome, email, hashedPassword, models.DefaultUserType)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: email %s", ErrDuplicateKey, email)
		}
		return 0, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return id, nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := r.db.GetContext(ctx, user, r.db.Rebind("SELECT "+userColumns+" FROM usuarios WHERE email = ?"), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by email: %v", ErrDatabaseError, err)
	}
	return user, nil
}

func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	user := &models.User{}
	err := r.db.GetContext(ctx, user, r.db.Rebind("SELECT "+userColumns+" FROM usuarios WHERE id = ?"), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by ID %d: %v", ErrDatabaseError, userID, err)
	}
	return user, nil
}

// UpdateUser replaces the profile fields. An empty hashedPassword keeps the current password.
func (r *userRepository) UpdateUser(ctx context.Context, executor SQLExecutor, userID int64, upd models.UserUpdate, hashedPassword string) error {
	query := "UPDATE usuarios SET nome = ?, email = ?, foto = ?, nome_comercio = ? WHERE id = ?"
	args := []interface{}{upd.Nome, upd.Email, upd.Foto, upd.NomeComercio, userID}
	if hashedPassword != "" {
		query = "UPDATE usuarios SET nome = ?, email = ?, senha = ?, foto = ?, nome_comercio = ? WHERE id = ?"
		args = []interface{}{upd.Nome, upd.Email, hashedPassword, upd.Foto, upd.NomeComercio, userID}
	}

	res, err := executor.ExecContext(ctx, executor.Rebind(query), args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s", ErrDuplicateKey, upd.Email)
		}
		return fmt.Errorf("%w: updating user %d: %v", ErrDatabaseError, userID, err)
	}
	return requireAffected(res, "user", userID)
}

func (r *userRepository) UpdatePassword(ctx context.Context, executor SQLExecutor, userID int64, hashedPassword string) error {
	res, err := executor.ExecContext(ctx, executor.Rebind("UPDATE usuarios SET senha = ? WHERE id = ?"), hashedPassword, userID)
	if err != nil {
		return fmt.Errorf("%w: updating password of user %d: %v", ErrDatabaseError, userID, err)
	}
	return requireAffected(res, "user", userID)
}

// SessionRepository manages the single-row sessoes table.
type SessionRepository interface {
	ReplaceSession(ctx context.Context, executor SQLExecutor, userID int64, email string) error
	GetSession(ctx context.Context) (*models.Session, error)
	DeleteSessions(ctx context.Context, executor SQLExecutor) error
}

type sessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// ReplaceSession removes every session row and inserts one. Run it inside a transaction
// so readers never observe an empty table between the two statements.
func (r *sessionRepository) ReplaceSession(ctx context.Context, executor SQLExecutor, userID int64, email string) error {
	if err := r.DeleteSessions(ctx, executor); err != nil {
		return err
	}
	_, err := executor.ExecContext(ctx, executor.Rebind("INSERT INTO sessoes (usuario_id, email) VALUES (?, ?)"), userID, email)
	if err != nil {
		return fmt.Errorf("%w: saving session: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *sessionRepository) GetSession(ctx context.Context) (*models.Session, error) {
	s := &models.Session{}
	err := r.db.GetContext(ctx, s, "SELECT usuario_id, email FROM sessoes ORDER BY id DESC LIMIT 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: reading session: %v", ErrDatabaseError, err)
	}
	return s, nil
}

func (r *sessionRepository) DeleteSessions(ctx context.Context, executor SQLExecutor) error {
	if _, err := executor.ExecContext(ctx, "DELETE FROM sessoes"); err != nil {
		return fmt.Errorf("%w: deleting sessions: %v", ErrDatabaseError, err)
	}
	return nil
}

func requireAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected for %s %d: %v", ErrDatabaseError, entity, id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
