// Package api содержит HTTP клиент для взаимодействия с сервером.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/akarpov/usersvc/pkg/api"
)

// Client представляет HTTP клиент API сервера.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient создает новый API клиент.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken устанавливает сессионный токен для авторизованных запросов.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register создает нового пользователя.
func (c *Client) Register(ctx context.Context, req api.CreateUserRequest) (*api.CreateUserResponse, error) {
	var resp api.CreateUserResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/users", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Authenticate выполняет вход и возвращает сессионный токен.
func (c *Client) Authenticate(ctx context.Context, req api.AuthenticateRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/users/authenticate", req, &resp); err != nil {
		return nil, fmt.Errorf("authenticate request failed: %w", err)
	}
	return &resp, nil
}

// ListUsers возвращает всех пользователей.
func (c *Client) ListUsers(ctx context.Context) ([]api.UserResponse, error) {
	var resp []api.UserResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/users", nil, &resp); err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	return resp, nil
}

// GetUser возвращает пользователя по id.
func (c *Client) GetUser(ctx context.Context, id int64) (*api.UserResponse, error) {
	var resp api.UserResponse
	path := fmt.Sprintf("/api/v1/users/%d", id)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	return &resp, nil
}

// UpdateUser обновляет данные текущего пользователя.
func (c *Client) UpdateUser(ctx context.Context, req api.UpdateUserRequest) error {
	var resp api.MessageResponse
	if err := c.doRequest(ctx, http.MethodPut, "/api/v1/users/me", req, &resp); err != nil {
		return fmt.Errorf("update request failed: %w", err)
	}
	return nil
}

// UpdatePassword меняет пароль текущего пользователя.
func (c *Client) UpdatePassword(ctx context.Context, req api.UpdatePasswordRequest) error {
	var resp api.MessageResponse
	if err := c.doRequest(ctx, http.MethodPut, "/api/v1/users/me/password", req, &resp); err != nil {
		return fmt.Errorf("update password request failed: %w", err)
	}
	return nil
}

// DeleteUser удаляет пользователя по id.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	var resp api.MessageResponse
	path := fmt.Sprintf("/api/v1/users/%d", id)
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, &resp); err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	return nil
}

// doRequest выполняет запрос и декодирует JSON ответ.
// Ошибки API приходят в формате api.ErrorResponse.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr api.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
