package core

import (
	"strings"

	"sicoil-cli/internal/api"
)

// Catalogo is the point-in-time client/product directory fetched once per
// sale-wizard open. It backs local existence checks and stock lookups and
// is never mutated.
type Catalogo struct {
	Productos []api.FiltroProducto
	Clientes  []api.FiltroCliente
}

// NewCatalogo wraps a /filtros response.
func NewCatalogo(f *api.FiltrosVenta) *Catalogo {
	if f == nil {
		return &Catalogo{}
	}
	return &Catalogo{Productos: f.Productos, Clientes: f.Clientes}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Product finds a catalog product by exact case-insensitive name.
func (c *Catalogo) Product(nombre string) (api.FiltroProducto, bool) {
	term := normalize(nombre)
	if term == "" {
		return api.FiltroProducto{}, false
	}
	for _, p := range c.Productos {
		if normalize(p.NombreProducto) == term {
			return p, true
		}
	}
	return api.FiltroProducto{}, false
}

// Client finds a directory customer by exact case-insensitive name.
func (c *Catalogo) Client(nombre string) (api.FiltroCliente, bool) {
	term := normalize(nombre)
	if term == "" {
		return api.FiltroCliente{}, false
	}
	for _, cl := range c.Clientes {
		if normalize(cl.Nombre) == term {
			return cl, true
		}
	}
	return api.FiltroCliente{}, false
}

// Price finds a price variant of the named product by id.
func (c *Catalogo) Price(nombre string, precioID int64) (api.FiltroPrecio, bool) {
	p, ok := c.Product(nombre)
	if !ok {
		return api.FiltroPrecio{}, false
	}
	for _, precio := range p.Precios {
		if precio.ID == precioID {
			return precio, true
		}
	}
	return api.FiltroPrecio{}, false
}

// MatchProducts returns up to limit products whose name contains the term,
// for autocomplete-style suggestions. An empty term returns the head of the
// directory.
func (c *Catalogo) MatchProducts(term string, limit int) []api.FiltroProducto {
	return match(c.Productos, term, limit, func(p api.FiltroProducto) string { return p.NombreProducto })
}

// MatchClients is the customer counterpart of MatchProducts.
func (c *Catalogo) MatchClients(term string, limit int) []api.FiltroCliente {
	return match(c.Clientes, term, limit, func(cl api.FiltroCliente) string { return cl.Nombre })
}

func match[T any](items []T, term string, limit int, name func(T) string) []T {
	if limit <= 0 {
		limit = 15
	}
	needle := normalize(term)
	var out []T
	for _, item := range items {
		if needle != "" && !strings.Contains(normalize(name(item)), needle) {
			continue
		}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out
}
