// Package remote is the desktop's HTTP client for the Remote Store API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdv_desk/internal/models"
	"pdv_desk/pkg/utils"
)

// StatusError is a non-2xx answer from the Remote Store.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote: status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote: status %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Client calls the Remote Store. Transport failures and 5xx answers count against the
// circuit breaker; 4xx answers do not, since the server is evidently up.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *CircuitBreaker
}

// NewClient creates a Client for baseURL. A zero timeout uses 5 seconds.
func NewClient(baseURL string, timeout time.Duration, cb CircuitBreakerConfig) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    NewCircuitBreaker(cb),
	}
}

// BreakerState exposes the circuit breaker state for logs.
func (c *Client) BreakerState() CBState {
	return c.breaker.State()
}

type errorBody struct {
	Error json.RawMessage `json:"error"`
}

func decodeErrorMessage(data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil || len(body.Error) == 0 {
		return strings.TrimSpace(string(data))
	}
	var structured struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body.Error, &structured); err == nil && structured.Message != "" {
		return structured.Message
	}
	var plain string
	if err := json.Unmarshal(body.Error, &plain); err == nil {
		return plain
	}
	return string(body.Error)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	var clientErr error

	err := c.breaker.Execute(func() error {
		var body io.Reader
		if in != nil {
			data, err := json.Marshal(in)
			if err != nil {
				return fmt.Errorf("remote: marshal payload: %w", err)
			}
			body = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return fmt.Errorf("remote: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", uuid.NewString())
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("remote: server unreachable: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("remote: read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			se := &StatusError{StatusCode: resp.StatusCode, Message: decodeErrorMessage(data)}
			if resp.StatusCode >= 500 {
				return se
			}
			clientErr = se
			return nil
		}

		if out != nil && len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("remote: decode response: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return clientErr
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + utils.Int64ToStr(id)
}

// Ping checks that the server answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/ping", "", nil, nil)
}

// --- Auth ---

func (c *Client) Register(ctx context.Context, in models.RegistrationPayload) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, in models.Credentials) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", in, &out); err != nil {
		return nil, err
	}
	if out.Token == "" || out.Usuario == nil {
		return nil, errors.New("remote: login response without token")
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Products ---

func (c *Client) ListProducts(ctx context.Context, token string) ([]models.Product, error) {
	out := []models.Product{}
	err := c.do(ctx, http.MethodGet, "/produtos", token, nil, &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, token string, in models.ProductInput) (int64, error) {
	var out models.IDResponse
	err := c.do(ctx, http.MethodPost, "/produtos", token, in, &out)
	return out.ID, err
}

func (c *Client) UpdateProduct(ctx context.Context, token string, id int64, in models.ProductInput) error {
	return c.do(ctx, http.MethodPut, idPath("/produtos", id), token, in, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/produtos", id), token, nil, nil)
}

func (c *Client) ProductByCode(ctx context.Context, token, code string) (*models.Product, error) {
	var out models.Product
	if err := c.do(ctx, http.MethodGet, "/produtos/codigo/"+url.PathEscape(code), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Sales ---

func (c *Client) CreateSale(ctx context.Context, token string, in models.SaleInput) (int64, error) {
	var out models.IDResponse
	err := c.do(ctx, http.MethodPost, "/vendas", token, in, &out)
	return out.ID, err
}

func (c *Client) ListSales(ctx context.Context, token string) ([]models.Sale, error) {
	out := []models.Sale{}
	err := c.do(ctx, http.MethodGet, "/vendas", token, nil, &out)
	return out, err
}

func (c *Client) GetSale(ctx context.Context, token string, id int64) (*models.Sale, error) {
	var out models.Sale
	if err := c.do(ctx, http.MethodGet, idPath("/vendas", id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Stats(ctx context.Context, token string) (*models.SalesStats, error) {
	var out models.SalesStats
	if err := c.do(ctx, http.MethodGet, "/vendas/estatisticas", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSale(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/vendas", id), token, nil, nil)
}

// --- Customers ---

func (c *Client) CreateCustomer(ctx context.Context, token string, in models.CustomerInput) (int64, error) {
	var out models.IDResponse
	err := c.do(ctx, http.MethodPost, "/clientes", token, in, &out)
	return out.ID, err
}

func (c *Client) ListCustomers(ctx context.Context, token string) ([]models.Customer, error) {
	out := []models.Customer{}
	err := c.do(ctx, http.MethodGet, "/clientes", token, nil, &out)
	return out, err
}

func (c *Client) GetCustomer(ctx context.Context, token string, id int64) (*models.Customer, error) {
	var out models.Customer
	if err := c.do(ctx, http.MethodGet, idPath("/clientes", id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, token string, id int64, in models.CustomerInput) error {
	return c.do(ctx, http.MethodPut, idPath("/clientes", id), token, in, nil)
}

func (c *Client) DeleteCustomer(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/clientes", id), token, nil, nil)
}
