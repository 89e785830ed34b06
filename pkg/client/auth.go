package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/surrealdb/surrealcms/pkg/models"
)

// SignUpRequest creates a new account.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SignInRequest authenticates an existing account.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the session token and the authenticated user.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// authenticate posts to an auth endpoint and adopts the returned session
// token, so every later request on this client is authenticated.
func (c *Client) authenticate(ctx context.Context, action, path string, payload any) (*AuthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", action, err)
	}

	var result AuthResponse
	if err := decodeResponse(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", action, err)
	}

	c.SetAuthToken(result.Token)
	return &result, nil
}

// SignUp creates a new user account and signs the client in as that user.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	return c.authenticate(ctx, "signup", "/api/auth/signup", SignUpRequest{
		Email:    email,
		Password: password,
		Name:     name,
	})
}

// SignIn authenticates an existing user.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.authenticate(ctx, "signin", "/api/auth/signin", SignInRequest{
		Email:    email,
		Password: password,
	})
}

// RefreshToken exchanges the current session token for a fresh one; the old
// token stops working.
func (c *Client) RefreshToken(ctx context.Context) (*AuthResponse, error) {
	return c.authenticate(ctx, "refresh", "/api/auth/refresh", nil)
}

// SignOut invalidates the current session and clears the stored token.
func (c *Client) SignOut(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/signout", nil)
	if err != nil {
		return fmt.Errorf("signout request failed: %w", err)
	}

	if err := decodeResponse(resp, nil); err != nil {
		return fmt.Errorf("failed to process signout response: %w", err)
	}

	c.SetAuthToken("")
	return nil
}

// GetCurrentUser retrieves the user the stored token belongs to.
func (c *Client) GetCurrentUser(ctx context.Context) (*models.User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("get current user request failed: %w", err)
	}

	var result models.User
	if err := decodeResponse(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to decode current user response: %w", err)
	}

	return &result, nil
}
