// Package client talks to the NextGen Minds API and feeds results into a
// state.Store.
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

	"github.com/ashureev/nextgen-minds/internal/chat"
	"github.com/ashureev/nextgen-minds/internal/domain"
)

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Message string
	Errors  []chat.FieldError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

// Client is a thin typed wrapper over the REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL. A nil httpClient uses a default with a
// 60s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope struct {
			Message string            `json:"message"`
			Errors  []chat.FieldError `json:"errors"`
		}
		if json.Unmarshal(data, &envelope) == nil {
			apiErr.Message = envelope.Message
			apiErr.Errors = envelope.Errors
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Signup registers an account.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var out AuthResult
	in := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile fetches the caller's profile.
func (c *Client) GetProfile(ctx context.Context, token string) (*domain.Profile, error) {
	var out domain.Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile merges update into the caller's profile.
func (c *Client) UpdateProfile(ctx context.Context, token string, update domain.ProfileUpdate) (*domain.Profile, error) {
	var out domain.Profile
	if err := c.do(ctx, http.MethodPut, "/api/profile", token, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func query(pairs ...string) string {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			v.Set(pairs[i], pairs[i+1])
		}
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// Careers lists careers matching the filter.
func (c *Client) Careers(ctx context.Context, f domain.CareerFilter) ([]domain.Career, error) {
	var out []domain.Career
	path := "/api/careers" + query("skills", strings.Join(f.Skills, ","), "interests", strings.Join(f.Interests, ","))
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Career fetches one career.
func (c *Client) Career(ctx context.Context, id string) (*domain.Career, error) {
	var out domain.Career
	if err := c.do(ctx, http.MethodGet, "/api/careers/"+url.PathEscape(id), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Scholarships lists every scholarship.
func (c *Client) Scholarships(ctx context.Context) ([]domain.Scholarship, error) {
	var out []domain.Scholarship
	if err := c.do(ctx, http.MethodGet, "/api/scholarships", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Colleges lists colleges matching the filter.
func (c *Client) Colleges(ctx context.Context, f domain.CollegeFilter) ([]domain.College, error) {
	var out []domain.College
	path := "/api/colleges" + query("location", f.Location, "program", strings.Join(f.Programs, ","))
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Chat sends a conversation and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, token string, req chat.Request) (*chat.Response, error) {
	var out chat.Response
	if err := c.do(ctx, http.MethodPost, "/chat", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
