// Package client is a typed HTTP client for the contact book API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "contactbook/internal/errors"
	"contactbook/internal/model"
)

var (
	// ErrNotLoggedIn is returned by protected calls when no token is stored.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrUnauthenticated is returned when the server rejects the stored token.
	// The session is cleared before it is returned.
	ErrUnauthenticated = errors.New("session expired, please log in again")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// Client calls the contact book API on behalf of one session.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// New creates a client for baseURL, e.g. "http://localhost:8000".
func New(baseURL string, session *Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, "/api/auth/register", email, password)
}

// Login stores a fresh token for an existing account.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, "/api/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, path, false, body, &out); err != nil {
		return err
	}
	return c.session.Save(out.Token)
}

// Logout revokes the token server side and clears the session.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", true, nil, nil)
	if clearErr := c.session.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	if errors.Is(err, ErrUnauthenticated) {
		return nil
	}
	return err
}

// Me returns the profile of the logged in user.
func (c *Client) Me(ctx context.Context) (*model.Profile, error) {
	var out model.Profile
	if err := c.do(ctx, http.MethodGet, "/api/auth/user", true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListContacts returns one page of contacts. Zero page or limit uses the server default.
func (c *Client) ListContacts(ctx context.Context, page, limit int) (*model.ContactPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/contacts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out model.ContactPage
	if err := c.do(ctx, http.MethodGet, path, true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateContact creates a contact.
func (c *Client) CreateContact(ctx context.Context, fields model.ContactFields) (*model.Contact, error) {
	var out struct {
		Contact *model.Contact `json:"contact"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/contacts/create", true, fields, &out); err != nil {
		return nil, err
	}
	return out.Contact, nil
}

// GetContact fetches one contact.
func (c *Client) GetContact(ctx context.Context, id string) (*model.Contact, error) {
	var out model.Contact
	if err := c.do(ctx, http.MethodGet, "/api/contacts/contact/"+url.PathEscape(id), true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateContact replaces the editable fields of a contact.
func (c *Client) UpdateContact(ctx context.Context, id string, fields model.ContactFields) (*model.Contact, error) {
	var out struct {
		UpdatedContact *model.Contact `json:"updatedContact"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/contacts/update/"+url.PathEscape(id), true, fields, &out); err != nil {
		return nil, err
	}
	return out.UpdatedContact, nil
}

// DeleteContact removes a contact.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/contacts/delete/"+url.PathEscape(id), true, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, protected bool, in, out any) error {
	token := c.session.Token()
	if protected && token == "" {
		return ErrNotLoggedIn
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if protected {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.failure(resp, protected)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) failure(resp *http.Response, protected bool) error {
	var body apperrors.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Message == "" {
		body.Message = http.StatusText(resp.StatusCode)
	}

	// A rejected token means the session is dead; login failures are not.
	if protected && resp.StatusCode == http.StatusUnauthorized {
		if err := c.session.Clear(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		}
		return fmt.Errorf("%w: %s", ErrUnauthenticated, body.Message)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: body.Message, Code: body.Code}
}
