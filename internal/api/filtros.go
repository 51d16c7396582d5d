package api

import (
	"context"

	"github.com/shopspring/decimal"
)

// FiltroPrecio is one offerable price variant in the sale-registration
// directory: its id, purchase price and units available at snapshot time.
type FiltroPrecio struct {
	ID           int64           `json:"id"`
	PrecioCompra decimal.Decimal `json:"precioCompra"`
	Cantidad     int             `json:"cantidad"`
}

// FiltroProducto is a product with its price variants as offered to the
// sale wizard.
type FiltroProducto struct {
	NombreProducto   string         `json:"nombreProducto"`
	CantidadPorCajas int            `json:"cantidadPorCajas"`
	Precios          []FiltroPrecio `json:"precios"`
}

// FiltroCliente is a customer entry in the directory.
type FiltroCliente struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
}

// FiltrosVenta is the combined client/product directory fetched once per
// sale-wizard open and used only for local lookup and validation.
type FiltrosVenta struct {
	Productos []FiltroProducto `json:"productos"`
	Clientes  []FiltroCliente  `json:"clientes"`
}

// ObtenerFiltros fetches the sale-registration directory.
func (c *Client) ObtenerFiltros(ctx context.Context) (*FiltrosVenta, error) {
	var out FiltrosVenta
	if err := c.get(ctx, "/filtros", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
