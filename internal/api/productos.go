package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Producto is a single price-variant row: one purchase-price/stock bucket
// under a product name.
type Producto struct {
	ID               int64           `json:"id"`
	Nombre           string          `json:"nombre"`
	PrecioCompra     decimal.Decimal `json:"precioCompra"`
	CantidadPorCajas int             `json:"cantidadPorCajas"`
	Stock            int             `json:"stock"`
}

// ProductoVariante is one price bucket inside a grouped listing row.
type ProductoVariante struct {
	ID           int64           `json:"id"`
	PrecioCompra decimal.Decimal `json:"precioCompra"`
	Stock        int             `json:"stock"`
}

// ProductoAgrupado groups every variant of a product name with its
// aggregate stock, as returned by the paginated product listing.
type ProductoAgrupado struct {
	Nombre           string             `json:"nombre"`
	StockTotal       int                `json:"stockTotal"`
	CantidadPorCajas int                `json:"cantidadPorCajas"`
	Variantes        []ProductoVariante `json:"variantes"`
}

// ProductoFiltro selects a product listing page.
type ProductoFiltro struct {
	Page   int
	Size   int
	Nombre string
}

func (f ProductoFiltro) values() url.Values {
	size := f.Size
	if size <= 0 {
		size = 20
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(f.Page))
	params.Set("size", strconv.Itoa(size))
	if nombre := strings.TrimSpace(f.Nombre); nombre != "" {
		params.Set("nombre", nombre)
	}
	return params
}

// ProductoRequest creates a product with its first price variant.
type ProductoRequest struct {
	Nombre           string          `json:"nombre"`
	CantidadPorCajas int             `json:"cantidadPorCajas"`
	PrecioCompra     decimal.Decimal `json:"precioCompra"`
	Stock            int             `json:"stock"`
}

// ProductoActualizarRequest renames a product and adjusts its box grouping.
type ProductoActualizarRequest struct {
	Nombre           string `json:"nombre"`
	CantidadPorCajas int    `json:"cantidadPorCajas"`
}

// IngresoProductoRequest is one stock-entry line for an existing product.
type IngresoProductoRequest struct {
	NombreProducto string          `json:"nombreProducto"`
	PrecioCompra   decimal.Decimal `json:"precioCompra"`
	Cantidad       int             `json:"cantidad"`
}

// SalidaStockRequest removes units from a price variant.
type SalidaStockRequest struct {
	Cantidad    int     `json:"cantidad"`
	Observacion *string `json:"observacion,omitempty"`
}

// ListarProductos returns one page of grouped products.
func (c *Client) ListarProductos(ctx context.Context, filtro ProductoFiltro) (*Page[ProductoAgrupado], error) {
	var page Page[ProductoAgrupado]
	if err := c.get(ctx, "/productos", filtro.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CrearProducto registers a new product.
func (c *Client) CrearProducto(ctx context.Context, req ProductoRequest) (*Producto, error) {
	var out Producto
	if err := c.post(ctx, "/productos", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ActualizarProducto updates a product addressed by its current name.
// The backend answers with a bare boolean.
func (c *Client) ActualizarProducto(ctx context.Context, nombreAnterior string, req ProductoActualizarRequest) (bool, error) {
	var ok bool
	path := "/productos/" + url.PathEscape(strings.TrimSpace(nombreAnterior))
	if err := c.put(ctx, path, req, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// RegistrarIngresos posts a batch of stock-entry lines and returns the
// created or updated price variants.
func (c *Client) RegistrarIngresos(ctx context.Context, lista []IngresoProductoRequest) ([]Producto, error) {
	var out []Producto
	if err := c.post(ctx, "/productos/ingreso", lista, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EliminarStock removes units from the price variant with the given id.
func (c *Client) EliminarStock(ctx context.Context, id int64, req SalidaStockRequest) (*Producto, error) {
	var out Producto
	if err := c.patch(ctx, fmt.Sprintf("/productos/%d/stock/eliminar", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
