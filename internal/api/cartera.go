package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// CarteraResumen is one customer's pending credit position.
type CarteraResumen struct {
	ClienteID           int64           `json:"clienteId"`
	ClienteNombre       string          `json:"clienteNombre"`
	SaldoPendiente      decimal.Decimal `json:"saldoPendiente"`
	TotalAbonos         decimal.Decimal `json:"totalAbonos"`
	TotalCreditos       decimal.Decimal `json:"totalCreditos"`
	UltimaActualizacion string          `json:"ultimaActualizacion"`
}

// CarteraAbono is one recorded payment toward a customer's balance.
type CarteraAbono struct {
	MovimientoID  int64           `json:"movimientoId"`
	Monto         decimal.Decimal `json:"monto"`
	Fecha         string          `json:"fecha"`
	UsuarioNombre string          `json:"usuarioNombre"`
	Observacion   *string         `json:"observacion,omitempty"`
}

// CarteraCredito is one credit sale feeding a customer's balance.
type CarteraCredito struct {
	MovimientoID  int64           `json:"movimientoId"`
	VentaID       int64           `json:"ventaId"`
	Monto         decimal.Decimal `json:"monto"`
	Fecha         string          `json:"fecha"`
	UsuarioNombre string          `json:"usuarioNombre"`
	Observacion   *string         `json:"observacion,omitempty"`
}

// CarteraAbonoRequest records or voids a payment.
type CarteraAbonoRequest struct {
	Monto       decimal.Decimal `json:"monto"`
	Observacion *string         `json:"observacion,omitempty"`
}

// CarteraPendienteFiltro narrows the pending-balance listing.
type CarteraPendienteFiltro struct {
	Cliente string
	Desde   string
	Hasta   string
}

func (f CarteraPendienteFiltro) values() url.Values {
	params := fechaValues(f.Desde, f.Hasta)
	if c := strings.TrimSpace(f.Cliente); c != "" {
		params.Set("cliente", c)
	}
	return params
}

// CarteraFechaFiltro bounds a per-client detail listing.
type CarteraFechaFiltro struct {
	Desde string
	Hasta string
}

func fechaValues(desde, hasta string) url.Values {
	params := url.Values{}
	if desde != "" {
		params.Set("desde", desde)
	}
	if hasta != "" {
		params.Set("hasta", hasta)
	}
	return params
}

// ListarPendientes returns customers with outstanding balances. This
// endpoint returns a plain array, not a page envelope.
func (c *Client) ListarPendientes(ctx context.Context, filtro CarteraPendienteFiltro) ([]CarteraResumen, error) {
	var out []CarteraResumen
	if err := c.get(ctx, "/cartera/pendientes", filtro.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListarAbonos returns a customer's payment history.
func (c *Client) ListarAbonos(ctx context.Context, clienteID int64, filtro CarteraFechaFiltro) ([]CarteraAbono, error) {
	var out []CarteraAbono
	path := fmt.Sprintf("/cartera/clientes/%d/abonos", clienteID)
	if err := c.get(ctx, path, fechaValues(filtro.Desde, filtro.Hasta), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListarCreditos returns a customer's credit-sale history.
func (c *Client) ListarCreditos(ctx context.Context, clienteID int64, filtro CarteraFechaFiltro) ([]CarteraCredito, error) {
	var out []CarteraCredito
	path := fmt.Sprintf("/cartera/clientes/%d/creditos", clienteID)
	if err := c.get(ctx, path, fechaValues(filtro.Desde, filtro.Hasta), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RegistrarAbono records a payment and returns the refreshed history.
func (c *Client) RegistrarAbono(ctx context.Context, clienteID int64, req CarteraAbonoRequest) ([]CarteraAbono, error) {
	var out []CarteraAbono
	path := fmt.Sprintf("/cartera/clientes/%d/abonos", clienteID)
	if err := c.post(ctx, path, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EliminarAbono voids a recorded payment.
func (c *Client) EliminarAbono(ctx context.Context, clienteID, movimientoID int64, req CarteraAbonoRequest) error {
	path := fmt.Sprintf("/cartera/clientes/%d/abonos/%d/eliminar", clienteID, movimientoID)
	return c.patch(ctx, path, req, nil)
}
