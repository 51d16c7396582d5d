package api

import (
	"context"
	"net/http"
)

// LoginRequest carries the credentials for /auth/login.
type LoginRequest struct {
	Usuario    string `json:"usuario"`
	Contrasena string `json:"contrasena"`
}

// LoginResponse identifies the authenticated user. The session credential
// itself travels in a cookie held by the client's jar.
type LoginResponse struct {
	ID      int64  `json:"id"`
	Usuario string `json:"usuario"`
}

// Login authenticates against the backend. A 401 here means bad credentials,
// not an expired session, so the unauthorized hook is deliberately not fired.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, c.authURL+"/login", nil, req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the backend session. The caller clears local state
// regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, c.authURL+"/logout", nil, struct{}{}, nil, true)
}
