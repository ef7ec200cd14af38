// Package apiclient is a typed client for the inventory HTTP API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Logger:     logger,
	}
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Login authenticates and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, document, password string) (LoginResponse, error) {
	var out LoginResponse
	body := map[string]string{"document": document, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &out); err != nil {
		return LoginResponse{}, err
	}
	c.SetToken(out.Token)
	return out, nil
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) (User, error) {
	var out User
	err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, in, &out)
	return out, err
}

func (c *Client) GetProducts(ctx context.Context, query string) ([]Product, error) {
	var out []Product
	err := c.do(ctx, http.MethodGet, "/api/productos", search(query), nil, &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, p Product) (Product, error) {
	var out Product
	err := c.do(ctx, http.MethodPost, "/api/productos", nil, p, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, name string, patch ProductPatch) (Product, error) {
	var out Product
	err := c.do(ctx, http.MethodPut, "/api/productos/"+url.PathEscape(name), nil, patch, &out)
	return out, err
}

// DeleteProduct reports how many products were removed, 0 when name is unknown.
func (c *Client) DeleteProduct(ctx context.Context, name string) (int, error) {
	var out deleteResponse
	err := c.do(ctx, http.MethodDelete, "/api/productos/"+url.PathEscape(name), nil, nil, &out)
	return out.Deleted, err
}

func (c *Client) GetLotes(ctx context.Context, query string) ([]Batch, error) {
	var out []Batch
	err := c.do(ctx, http.MethodGet, "/api/lotes", search(query), nil, &out)
	return out, err
}

func (c *Client) CreateLote(ctx context.Context, in BatchRequest) (Batch, error) {
	var out Batch
	err := c.do(ctx, http.MethodPost, "/api/lotes", nil, in, &out)
	return out, err
}

// GetExpiringLotes lists batches expiring within days, soonest first.
func (c *Client) GetExpiringLotes(ctx context.Context, days int) ([]Batch, error) {
	var out []Batch
	q := url.Values{"dias": {strconv.Itoa(days)}}
	err := c.do(ctx, http.MethodGet, "/api/lotes/proximos-vencer", q, nil, &out)
	return out, err
}

func (c *Client) GetExpiredLotes(ctx context.Context) ([]Batch, error) {
	var out []Batch
	err := c.do(ctx, http.MethodGet, "/api/lotes/vencidos", nil, nil, &out)
	return out, err
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	in := changePasswordRequest{CurrentPassword: current, NewPassword: next}
	return c.do(ctx, http.MethodPut, "/api/auth/me/password", nil, in, nil)
}

func (c *Client) GetMovements(ctx context.Context, query string) ([]Movement, error) {
	var out []Movement
	err := c.do(ctx, http.MethodGet, "/api/movimientos", search(query), nil, &out)
	return out, err
}

func (c *Client) CreateMovement(ctx context.Context, in MovementRequest) (MovementResult, error) {
	var out MovementResult
	err := c.do(ctx, http.MethodPost, "/api/movimientos", nil, in, &out)
	return out, err
}

func (c *Client) GetAlerts(ctx context.Context) ([]Alert, error) {
	var out []Alert
	err := c.do(ctx, http.MethodGet, "/api/alertas", nil, nil, &out)
	return out, err
}

func search(query string) url.Values {
	if query == "" {
		return nil
	}
	return url.Values{"q": {query}}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	op := method + " " + path

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("apiclient: encode %s: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("apiclient: build %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Warn("request failed", zap.String("op", op), zap.Error(err))
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		var e errorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			apiErr.Message = e.Error
		}
		c.Logger.Debug("request rejected",
			zap.String("op", op),
			zap.Int("status_code", resp.StatusCode),
			zap.String("error", apiErr.Message))
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("apiclient: decode %s: %w", op, err)
	}
	return nil
}
