// Package client is the HTTP API client used by the terminal frontend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/govindup63/Ghstmail.me/internal/domain"
)

// APIError is a non-2xx response from the server. Message carries the
// server-provided reason and may be empty.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return e.Message
}

// Client talks to the alias API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for baseURL. token may be empty for the auth
// endpoints.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// envelope mirrors the server response wrapper.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// Credentials is the payload returned by login.
type Credentials struct {
	Email        string
	AccessToken  string
	RefreshToken string
}

// Login exchanges email and password for tokens.
func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &Credentials{
		Email:        resp.User.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// Register creates an account and returns its tokens.
func (c *Client) Register(ctx context.Context, email, password string) (*Credentials, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return &Credentials{
		Email:        resp.User.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// ListAliases returns every alias owned by the authenticated user.
func (c *Client) ListAliases(ctx context.Context) ([]domain.Alias, error) {
	var aliases []domain.Alias
	if err := c.do(ctx, http.MethodGet, "/v1/aliases", nil, &aliases); err != nil {
		return nil, err
	}
	if aliases == nil {
		aliases = []domain.Alias{}
	}
	return aliases, nil
}

// CreateAlias mints a new alias on the server.
func (c *Client) CreateAlias(ctx context.Context) (*domain.Alias, error) {
	var alias domain.Alias
	if err := c.do(ctx, http.MethodPost, "/v1/aliases", nil, &alias); err != nil {
		return nil, err
	}
	return &alias, nil
}

// DeleteAlias removes the alias with the given address.
func (c *Client) DeleteAlias(ctx context.Context, address string) error {
	path := "/v1/aliases/" + url.PathEscape(address)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(data) > 0 {
		// Tolerate non-envelope bodies from proxies etc.
		_ = json.Unmarshal(data, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
