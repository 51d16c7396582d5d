package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CapitalOrigen classifies a cash-flow movement.
type CapitalOrigen string

const (
	OrigenVenta     CapitalOrigen = "VENTA"
	OrigenCompra    CapitalOrigen = "COMPRA"
	OrigenInyeccion CapitalOrigen = "INYECCION"
)

// CapitalMovimiento is one cash-flow event.
type CapitalMovimiento struct {
	ID            int64           `json:"id"`
	Origen        CapitalOrigen   `json:"origen"`
	ReferenciaID  *int64          `json:"referenciaId,omitempty"`
	Monto         decimal.Decimal `json:"monto"`
	EsCredito     bool            `json:"esCredito"`
	Descripcion   *string         `json:"descripcion,omitempty"`
	CreadoEn      string          `json:"creadoEn"`
	UsuarioID     int64           `json:"usuarioId"`
	UsuarioNombre string          `json:"usuarioNombre"`
}

// CapitalTopProducto is a best-seller row in the capital summary, including
// its share of total sales.
type CapitalTopProducto struct {
	ProductoID              int64           `json:"productoId"`
	ProductoNombre          string          `json:"productoNombre"`
	CantidadVendida         int             `json:"cantidadVendida"`
	TotalVendido            decimal.Decimal `json:"totalVendido"`
	ParticipacionPorcentaje float64         `json:"participacionPorcentaje"`
}

// CapitalTopCliente is a top-buyer row in the capital summary.
type CapitalTopCliente struct {
	ClienteID               int64           `json:"clienteId"`
	ClienteNombre           string          `json:"clienteNombre"`
	TotalVentas             int             `json:"totalVentas"`
	MontoComprado           decimal.Decimal `json:"montoComprado"`
	ParticipacionPorcentaje float64         `json:"participacionPorcentaje"`
}

// CapitalResumen is the cash-position summary.
type CapitalResumen struct {
	SaldoReal             decimal.Decimal      `json:"saldoReal"`
	TotalEntradas         decimal.Decimal      `json:"totalEntradas"`
	TotalSalidas          decimal.Decimal      `json:"totalSalidas"`
	TotalCreditoPendiente decimal.Decimal      `json:"totalCreditoPendiente"`
	TotalCredito          decimal.Decimal      `json:"totalCredito"`
	CapitalNeto           decimal.Decimal      `json:"capitalNeto"`
	TotalGanancias        decimal.Decimal      `json:"totalGanancias"`
	TotalAbonos           decimal.Decimal      `json:"totalAbonos"`
	TotalUnidadesVendidas int                  `json:"totalUnidadesVendidas"`
	TotalCajasVendidas    int                  `json:"totalCajasVendidas"`
	TopProductos          []CapitalTopProducto `json:"topProductos"`
	TopClientes           []CapitalTopCliente  `json:"topClientes"`
}

// CapitalInyeccionRequest records a capital injection.
type CapitalInyeccionRequest struct {
	Monto       decimal.Decimal `json:"monto"`
	Descripcion *string         `json:"descripcion,omitempty"`
}

// CapitalMovimientoFiltro selects a movement listing page.
type CapitalMovimientoFiltro struct {
	Page         int
	Size         int
	Sort         string
	Origen       CapitalOrigen
	EsCredito    *bool
	ReferenciaID int64
	Descripcion  string
	Desde        string
	Hasta        string
}

func (f CapitalMovimientoFiltro) values() url.Values {
	size := f.Size
	if size <= 0 {
		size = 10
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(f.Page))
	params.Set("size", strconv.Itoa(size))
	if f.Sort != "" {
		params.Set("sort", f.Sort)
	}
	if f.Origen != "" {
		params.Set("origen", string(f.Origen))
	}
	if f.EsCredito != nil {
		params.Set("esCredito", strconv.FormatBool(*f.EsCredito))
	}
	if f.ReferenciaID > 0 {
		params.Set("referenciaId", strconv.FormatInt(f.ReferenciaID, 10))
	}
	if d := strings.TrimSpace(f.Descripcion); d != "" {
		params.Set("descripcion", d)
	}
	if f.Desde != "" {
		params.Set("desde", f.Desde)
	}
	if f.Hasta != "" {
		params.Set("hasta", f.Hasta)
	}
	return params
}

// CapitalResumenFiltro bounds the summary period.
type CapitalResumenFiltro struct {
	Desde string
	Hasta string
}

func (f CapitalResumenFiltro) values() url.Values {
	params := url.Values{}
	if f.Desde != "" {
		params.Set("desde", f.Desde)
	}
	if f.Hasta != "" {
		params.Set("hasta", f.Hasta)
	}
	return params
}

// ListarMovimientosCapital returns one page of cash-flow movements.
func (c *Client) ListarMovimientosCapital(ctx context.Context, filtro CapitalMovimientoFiltro) (*Page[CapitalMovimiento], error) {
	var page Page[CapitalMovimiento]
	if err := c.get(ctx, "/capital/movimientos", filtro.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ObtenerResumenCapital returns the cash-position summary for the period.
func (c *Client) ObtenerResumenCapital(ctx context.Context, filtro CapitalResumenFiltro) (*CapitalResumen, error) {
	var out CapitalResumen
	if err := c.get(ctx, "/capital/resumen", filtro.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegistrarInyeccion records a capital injection.
func (c *Client) RegistrarInyeccion(ctx context.Context, req CapitalInyeccionRequest) (*CapitalMovimiento, error) {
	var out CapitalMovimiento
	if err := c.post(ctx, "/capital/inyecciones", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
