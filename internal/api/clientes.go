package api

import (
	"context"
	"net/url"
	"strings"
)

// Cliente is a customer record.
type Cliente struct {
	ID            int64   `json:"id"`
	Nombre        string  `json:"nombre"`
	Telefono      *string `json:"telefono,omitempty"`
	Direccion     *string `json:"direccion,omitempty"`
	FechaRegistro string  `json:"fechaRegistro"`
}

// ClienteRequest creates a customer.
type ClienteRequest struct {
	Nombre    string  `json:"nombre"`
	Telefono  *string `json:"telefono,omitempty"`
	Direccion *string `json:"direccion,omitempty"`
}

// ListarClientes returns customers, optionally filtered by name substring.
// This endpoint is not paginated.
func (c *Client) ListarClientes(ctx context.Context, nombre string) ([]Cliente, error) {
	params := url.Values{}
	if n := strings.TrimSpace(nombre); n != "" {
		params.Set("nombre", n)
	}
	var out []Cliente
	if err := c.get(ctx, "/clientes", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CrearCliente registers a new customer.
func (c *Client) CrearCliente(ctx context.Context, req ClienteRequest) (*Cliente, error) {
	var out Cliente
	if err := c.post(ctx, "/clientes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
