package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TipoVenta is the sale payment mode.
type TipoVenta string

const (
	VentaContado TipoVenta = "CONTADO"
	VentaCredito TipoVenta = "CREDITO"
)

// VentaItem is one sold line inside a sale listing row.
type VentaItem struct {
	ProductoNombre string          `json:"productoNombre"`
	PrecioCompra   decimal.Decimal `json:"precioCompra"`
	Cantidad       int             `json:"cantidad"`
	PrecioVenta    decimal.Decimal `json:"precioVenta"`
}

// VentaListado is a sale row in the paginated listing.
type VentaListado struct {
	VentaID         int64           `json:"ventaId"`
	ClienteNombre   string          `json:"clienteNombre"`
	TotalVenta      decimal.Decimal `json:"totalVenta"`
	TipoVenta       TipoVenta       `json:"tipoVenta"`
	Activa          bool            `json:"activa"`
	MotivoAnulacion *string         `json:"motivoAnulacion,omitempty"`
	UsuarioNombre   string          `json:"usuarioNombre"`
	FechaRegistro   string          `json:"fechaRegistro"`
	Items           []VentaItem     `json:"items"`
}

// DetalleVentaRequest is one wire line of a sale creation: the price-variant
// id, the units sold and the line subtotal.
type DetalleVentaRequest struct {
	ProductoID int64           `json:"productoId"`
	Cantidad   int             `json:"cantidad"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// VentaRequest creates a sale in a single call.
type VentaRequest struct {
	ClienteID int64                 `json:"clienteId"`
	TipoVenta TipoVenta             `json:"tipoVenta"`
	Items     []DetalleVentaRequest `json:"items"`
}

// DetalleVenta is one line of a created sale.
type DetalleVenta struct {
	Producto string          `json:"producto"`
	Cantidad int             `json:"cantidad"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Venta is the full sale record returned by create and annul.
type Venta struct {
	ID              int64           `json:"id"`
	ClienteID       int64           `json:"clienteId"`
	ClienteNombre   string          `json:"clienteNombre"`
	UsuarioID       int64           `json:"usuarioId"`
	UsuarioNombre   string          `json:"usuarioNombre"`
	TipoVenta       TipoVenta       `json:"tipoVenta"`
	Activa          bool            `json:"activa"`
	MotivoAnulacion *string         `json:"motivoAnulacion,omitempty"`
	Total           decimal.Decimal `json:"total"`
	FechaRegistro   string          `json:"fechaRegistro"`
	Detalles        []DetalleVenta  `json:"detalles"`
}

// VentaAnulacionRequest voids a sale with a mandatory reason.
type VentaAnulacionRequest struct {
	Motivo string `json:"motivo"`
}

// VentaFiltro selects a sale listing page.
type VentaFiltro struct {
	Page          int
	Size          int
	TipoVenta     TipoVenta
	NombreCliente string
	NombreUsuario string
	Activa        *bool
	Desde         string
	Hasta         string
}

func (f VentaFiltro) values() url.Values {
	size := f.Size
	if size <= 0 {
		size = 10
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(f.Page))
	params.Set("size", strconv.Itoa(size))
	if f.TipoVenta != "" {
		params.Set("tipoVenta", string(f.TipoVenta))
	}
	if n := strings.TrimSpace(f.NombreCliente); n != "" {
		params.Set("nombreCliente", n)
	}
	if n := strings.TrimSpace(f.NombreUsuario); n != "" {
		params.Set("nombreUsuario", n)
	}
	if f.Activa != nil {
		params.Set("activa", strconv.FormatBool(*f.Activa))
	}
	if f.Desde != "" {
		params.Set("desde", f.Desde)
	}
	if f.Hasta != "" {
		params.Set("hasta", f.Hasta)
	}
	return params
}

// ListarVentas returns one page of sales.
func (c *Client) ListarVentas(ctx context.Context, filtro VentaFiltro) (*Page[VentaListado], error) {
	var page Page[VentaListado]
	if err := c.get(ctx, "/ventas", filtro.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CrearVenta registers a sale built by the sale wizard.
func (c *Client) CrearVenta(ctx context.Context, req VentaRequest) (*Venta, error) {
	var out Venta
	if err := c.post(ctx, "/ventas", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnularVenta voids an active sale.
func (c *Client) AnularVenta(ctx context.Context, ventaID int64, req VentaAnulacionRequest) (*Venta, error) {
	var out Venta
	if err := c.patch(ctx, fmt.Sprintf("/ventas/%d/anular", ventaID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DescargarComprobante fetches the sale receipt as opaque bytes, to be saved
// to a local file by the caller.
func (c *Client) DescargarComprobante(ctx context.Context, ventaID int64) ([]byte, error) {
	return c.getBytes(ctx, fmt.Sprintf("/ventas/%d/comprobante", ventaID))
}
