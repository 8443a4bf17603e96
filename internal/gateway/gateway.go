// Package gateway chooses, per operation, between the Remote Store and the Local Store:
// remote first when a token is held, local on any failure. Every result reports which
// store committed it.
package gateway

import (
	"context"
	"errors"
	"sync"

	"pdv_desk/internal/localstore"
	"pdv_desk/internal/models"
	"pdv_desk/pkg/utils"
)

var (
	ErrNotLoggedIn = errors.New("Usuário não logado")
	ErrEmailInUse  = errors.New("Este email já está em uso por outro usuário")
	// ErrNoLocalUser means the server accepted the login but no local mirror exists, so
	// there is nothing to fall back to.
	ErrNoLocalUser = errors.New("Usuário sem cadastro local")
)

// Remote is the part of the Remote Store client the gateway uses.
type Remote interface {
	Register(ctx context.Context, in models.RegistrationPayload) (*models.AuthResponse, error)
	Login(ctx context.Context, in models.Credentials) (*models.AuthResponse, error)

	ListProducts(ctx context.Context, token string) ([]models.Product, error)
	CreateProduct(ctx context.Context, token string, in models.ProductInput) (int64, error)
	UpdateProduct(ctx context.Context, token string, id int64, in models.ProductInput) error
	DeleteProduct(ctx context.Context, token string, id int64) error
	ProductByCode(ctx context.Context, token, code string) (*models.Product, error)

	CreateSale(ctx context.Context, token string, in models.SaleInput) (int64, error)
	ListSales(ctx context.Context, token string) ([]models.Sale, error)
	GetSale(ctx context.Context, token string, id int64) (*models.Sale, error)
	Stats(ctx context.Context, token string) (*models.SalesStats, error)
	DeleteSale(ctx context.Context, token string, id int64) error

	CreateCustomer(ctx context.Context, token string, in models.CustomerInput) (int64, error)
	ListCustomers(ctx context.Context, token string) ([]models.Customer, error)
	GetCustomer(ctx context.Context, token string, id int64) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, token string, id int64, in models.CustomerInput) error
	DeleteCustomer(ctx context.Context, token string, id int64) error
}

// Gateway holds the logged-in identity: the remote token (memory only) and the local user.
type Gateway struct {
	local  *localstore.Store
	remote Remote

	mu    sync.RWMutex
	token string
	user  *models.User // local identity when one exists, otherwise the server's user
	// localID is the user id in the Local Store; 0 when there is no local mirror.
	localID int64
}

// New creates a Gateway. remote may be nil for a local-only client.
func New(local *localstore.Store, remote Remote) *Gateway {
	return &Gateway{local: local, remote: remote}
}

// Token returns the current remote token, empty when the server was not used to log in.
func (g *Gateway) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.remote == nil {
		return ""
	}
	return g.token
}

func (g *Gateway) setIdentity(token string, user *models.User, localID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token, g.user, g.localID = token, user, localID
}

func (g *Gateway) identity() (*models.User, int64) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.user, g.localID
}

// localUserID returns the local user id for fallbacks.
func (g *Gateway) localUserID() (int64, error) {
	user, localID := g.identity()
	if user == nil {
		return 0, ErrNotLoggedIn
	}
	if localID == 0 {
		return 0, ErrNoLocalUser
	}
	return localID, nil
}

// loggedIn fails with ErrNotLoggedIn when nobody is logged in.
func (g *Gateway) loggedIn() error {
	if user, _ := g.identity(); user == nil {
		return ErrNotLoggedIn
	}
	return nil
}

// --- Users and session ---

// FirstAccess reports whether the local store has no users yet.
func (g *Gateway) FirstAccess(ctx context.Context) (bool, error) {
	has, err := g.local.HasUsers(ctx)
	return !has, err
}

// CreateUser registers on the server when reachable and mirrors the user locally. A failed
// mirror is logged and does not change the outcome.
func (g *Gateway) CreateUser(ctx context.Context, nome, email, senha string) (int64, Outcome, error) {
	if g.remote != nil {
		resp, err := g.remote.Register(ctx, models.RegistrationPayload{Nome: nome, Email: email, Senha: senha})
		if err == nil && resp.Usuario != nil {
			g.mu.Lock()
			g.token = resp.Token
			g.mu.Unlock()
			if _, lerr := g.local.CreateUser(ctx, nome, email, senha); lerr != nil {
				utils.LogWarn(lerr, "Local mirror of remote registration failed", map[string]interface{}{"email": email})
			}
			return resp.Usuario.ID, CommittedRemote, nil
		}
		utils.LogWarn(err, "Falling back to local store", map[string]interface{}{"op": "criar-usuario", "reason": fallbackReason(err)})
	}

	id, err := g.local.CreateUser(ctx, nome, email, senha)
	if err != nil {
		return 0, Failed, err
	}
	return id, CommittedLocalOnly, nil
}

// Login authenticates against the server first, then locally. Either way the session is
// persisted so RestoreSession can bring the user back after a restart.
func (g *Gateway) Login(ctx context.Context, email, senha string) (*models.User, Outcome, error) {
	if g.remote != nil {
		resp, err := g.remote.Login(ctx, models.Credentials{Email: email, Senha: senha})
		if err == nil {
			user, localID := g.resolveLocal(ctx, resp.Usuario, senha)
			g.setIdentity(resp.Token, user, localID)
			if localID != 0 {
				if serr := g.local.SaveSession(ctx, localID, user.Email); serr != nil {
					utils.LogWarn(serr, "Failed to persist session", map[string]interface{}{"user_id": localID})
				}
			}
			return user, CommittedRemote, nil
		}
		utils.LogWarn(err, "Falling back to local store", map[string]interface{}{"op": "login", "reason": fallbackReason(err)})
	}

	user, err := g.local.Login(ctx, email, senha)
	if err != nil {
		return nil, Failed, err
	}
	g.setIdentity("", user, user.ID)
	if err := g.local.SaveSession(ctx, user.ID, user.Email); err != nil {
		return user, CommittedLocalOnly, err
	}
	return user, CommittedLocalOnly, nil
}

// resolveLocal finds the local user with the remote user's email, creating the mirror
// when missing.
func (g *Gateway) resolveLocal(ctx context.Context, remoteUser *models.User, senha string) (*models.User, int64) {
	local, err := g.local.UserByEmail(ctx, remoteUser.Email)
	if errors.Is(err, localstore.ErrNotFound) {
		if _, cerr := g.local.CreateUser(ctx, remoteUser.Nome, remoteUser.Email, senha); cerr != nil {
			utils.LogWarn(cerr, "Local mirror of remote user failed", map[string]interface{}{"email": remoteUser.Email})
			return remoteUser, 0
		}
		local, err = g.local.UserByEmail(ctx, remoteUser.Email)
	}
	if err != nil {
		utils.LogWarn(err, "Local identity lookup failed", map[string]interface{}{"email": remoteUser.Email})
		return remoteUser, 0
	}
	return local, local.ID
}

// Logout forgets the token, the user and the persisted session.
func (g *Gateway) Logout(ctx context.Context) error {
	g.setIdentity("", nil, 0)
	return g.local.RemoveSession(ctx)
}

// CurrentUser returns the logged-in user, refreshed from the local store when possible.
func (g *Gateway) CurrentUser(ctx context.Context) (*models.User, error) {
	user, localID := g.identity()
	if user == nil || localID == 0 {
		return user, nil
	}
	fresh, err := g.local.UserByID(ctx, localID)
	if err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return user, nil
		}
		return nil, err
	}
	g.mu.Lock()
	g.user = fresh
	g.mu.Unlock()
	return fresh, nil
}

// UpdateUser changes the local profile. The server has no profile endpoint.
func (g *Gateway) UpdateUser(ctx context.Context, upd models.UserUpdate) (Outcome, error) {
	localID, err := g.localUserID()
	if err != nil {
		return Failed, err
	}
	user, _ := g.identity()
	if upd.Email != "" && upd.Email != user.Email {
		other, err := g.local.UserByEmail(ctx, upd.Email)
		if err == nil && other.ID != localID {
			return Failed, ErrEmailInUse
		}
	}
	if err := g.local.UpdateUser(ctx, localID, upd); err != nil {
		return Failed, err
	}
	if _, err := g.CurrentUser(ctx); err != nil {
		utils.LogWarn(err, "Failed to reload updated user", map[string]interface{}{"user_id": localID})
	}
	return CommittedLocalOnly, nil
}

// RestoreSession brings back the persisted login. A session whose user no longer exists is
// removed. The token is not persisted, so a restored session works locally until the
// next login.
func (g *Gateway) RestoreSession(ctx context.Context) (*models.User, error) {
	sess, err := g.local.Session(ctx)
	if err != nil || sess == nil {
		return nil, err
	}
	user, err := g.local.UserByID(ctx, sess.UsuarioID)
	if err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return nil, g.local.RemoveSession(ctx)
		}
		return nil, err
	}
	g.setIdentity("", user, user.ID)
	return user, nil
}
