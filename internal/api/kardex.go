package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// MovimientoTipo classifies a stock movement.
type MovimientoTipo string

const (
	MovimientoEntrada MovimientoTipo = "ENTRADA"
	MovimientoSalida  MovimientoTipo = "SALIDA"
	MovimientoVenta   MovimientoTipo = "VENTA"
)

// KardexMovimiento is one entry of the stock-movement log.
type KardexMovimiento struct {
	ID             int64          `json:"id"`
	ProductoID     int64          `json:"productoId"`
	ProductoNombre string         `json:"productoNombre"`
	UsuarioID      int64          `json:"usuarioId"`
	UsuarioNombre  string         `json:"usuarioNombre"`
	Cantidad       int            `json:"cantidad"`
	Tipo           MovimientoTipo `json:"tipo"`
	FechaRegistro  string         `json:"fechaRegistro"`
	Comentario     *string        `json:"comentario,omitempty"`
}

// KardexFiltro selects a kardex listing page.
type KardexFiltro struct {
	Page           int
	Size           int
	Sort           string
	ProductoID     int64
	UsuarioID      int64
	NombreProducto string
	Tipo           MovimientoTipo
	Desde          string
	Hasta          string
}

func (f KardexFiltro) values() url.Values {
	size := f.Size
	if size <= 0 {
		size = 20
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(f.Page))
	params.Set("size", strconv.Itoa(size))
	if f.Sort != "" {
		params.Set("sort", f.Sort)
	}
	if f.ProductoID > 0 {
		params.Set("productoId", strconv.FormatInt(f.ProductoID, 10))
	}
	if f.UsuarioID > 0 {
		params.Set("usuarioId", strconv.FormatInt(f.UsuarioID, 10))
	}
	if n := strings.TrimSpace(f.NombreProducto); n != "" {
		params.Set("nombreProducto", n)
	}
	if f.Tipo != "" {
		params.Set("tipo", string(f.Tipo))
	}
	if f.Desde != "" {
		params.Set("desde", f.Desde)
	}
	if f.Hasta != "" {
		params.Set("hasta", f.Hasta)
	}
	return params
}

// ListarKardex returns one page of the stock-movement log.
func (c *Client) ListarKardex(ctx context.Context, filtro KardexFiltro) (*Page[KardexMovimiento], error) {
	var page Page[KardexMovimiento]
	if err := c.get(ctx, "/kardex", filtro.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}
