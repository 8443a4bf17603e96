// Package localstore is the desktop's embedded database: every entity the Remote Store
// serves, kept in a SQLite file so the PDV works without a server.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"pdv_desk/internal/database"
	"pdv_desk/internal/models"
	"pdv_desk/internal/repositories"
	"pdv_desk/pkg/utils"
)

// Store implements the Local Store operations on a SQLite file. Each mutation is durable
// once it returns.
type Store struct {
	db        *sqlx.DB
	users     repositories.UserRepository
	sessions  repositories.SessionRepository
	products  repositories.ProductRepository
	sales     repositories.SaleRepository
	customers repositories.CustomerRepository
	now       func() time.Time
}

// Open opens or creates the database file at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := database.Open(ctx, database.DriverSQLite, path)
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// New wraps an already migrated database.
func New(db *sqlx.DB) *Store {
	return &Store{
		db:        db,
		users:     repositories.NewUserRepository(db),
		sessions:  repositories.NewSessionRepository(db),
		products:  repositories.NewProductRepository(db),
		sales:     repositories.NewSaleRepository(db),
		customers: repositories.NewCustomerRepository(db),
		now:       time.Now,
	}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func mapNotFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// --- Users ---

// HasUsers reports whether any user was registered; false means first access.
func (s *Store) HasUsers(ctx context.Context) (bool, error) {
	n, err := s.users.CountUsers(ctx)
	return n > 0, err
}

// CreateUser registers a user with a bcrypt hash.
func (s *Store) CreateUser(ctx context.Context, nome, email, senha string) (int64, error) {
	nome, email = strings.TrimSpace(nome), strings.TrimSpace(email)
	if nome == "" || email == "" || senha == "" {
		return 0, invalid("nome, email e senha são obrigatórios")
	}
	hashed, err := utils.HashPassword(senha)
	if err != nil {
		return 0, err
	}
	id, err := s.users.CreateUser(ctx, s.db, nome, email, hashed)
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return 0, ErrEmailExists
	}
	return id, err
}

// Login checks the credentials. Unknown email and wrong password return the same
// ErrInvalidCredentials. Legacy SHA-256 hashes are replaced by bcrypt on success.
func (s *Store) Login(ctx context.Context, email, senha string) (*models.User, error) {
	user, err := s.users.FindUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(user.Senha, senha) {
		return nil, ErrInvalidCredentials
	}

	if utils.IsLegacyHash(user.Senha) {
		hashed, err := utils.HashPassword(senha)
		if err == nil {
			err = s.users.UpdatePassword(ctx, s.db, user.ID, hashed)
		}
		if err != nil {
			utils.LogWarn(err, "Failed to upgrade legacy password hash", map[string]interface{}{"user_id": user.ID})
		} else {
			utils.LogInfo("Upgraded legacy password hash", map[string]interface{}{"user_id": user.ID})
		}
	}
	user.Senha = ""
	return user, nil
}

func (s *Store) UserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	user.Senha = ""
	return user, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, mapNotFound(err)
	}
	user.Senha = ""
	return user, nil
}

// UpdateUser replaces the profile; the password changes only when upd.Senha is set.
func (s *Store) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) error {
	upd.Nome, upd.Email = strings.TrimSpace(upd.Nome), strings.TrimSpace(upd.Email)
	if upd.Nome == "" || upd.Email == "" {
		return invalid("nome e email são obrigatórios")
	}
	upd.Foto = utils.NewNullString(utils.StringValue(upd.Foto))
	upd.NomeComercio = utils.NewNullString(utils.StringValue(upd.NomeComercio))

	var hashed string
	if upd.Senha != "" {
		var err error
		if hashed, err = utils.HashPassword(upd.Senha); err != nil {
			return err
		}
	}
	err := s.users.UpdateUser(ctx, s.db, id, upd, hashed)
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return ErrEmailExists
	}
	return mapNotFound(err)
}

// --- Session ---

// SaveSession replaces the persisted session with exactly one row.
func (s *Store) SaveSession(ctx context.Context, userID int64, email string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		return s.sessions.ReplaceSession(ctx, tx, userID, email)
	})
}

// Session returns the persisted session, or nil when nobody is logged in.
func (s *Store) Session(ctx context.Context) (*models.Session, error) {
	sess, err := s.sessions.GetSession(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return sess, err
}

func (s *Store) RemoveSession(ctx context.Context) error {
	return s.sessions.DeleteSessions(ctx, s.db)
}
