package api

import "context"

// Usuario identifies a registered account.
type Usuario struct {
	ID      int64  `json:"id"`
	Usuario string `json:"usuario"`
}

// UsuarioRequest creates an account. Registration runs without a session;
// the new user logs in afterwards through /auth/login.
type UsuarioRequest struct {
	Usuario    string `json:"usuario"`
	Contrasena string `json:"contrasena"`
}

// CrearUsuario registers a new account.
func (c *Client) CrearUsuario(ctx context.Context, req UsuarioRequest) (*Usuario, error) {
	var out Usuario
	if err := c.post(ctx, "/usuarios", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
