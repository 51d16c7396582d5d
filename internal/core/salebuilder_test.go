package core_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sicoil-cli/internal/api"
	"sicoil-cli/internal/core"
)

func testCatalog() *core.Catalogo {
	return core.NewCatalogo(&api.FiltrosVenta{
		Productos: []api.FiltroProducto{
			{
				NombreProducto:   "Aceite 20W50",
				CantidadPorCajas: 12,
				Precios: []api.FiltroPrecio{
					{ID: 5, PrecioCompra: decimal.NewFromInt(1000), Cantidad: 3},
					{ID: 9, PrecioCompra: decimal.NewFromInt(1200), Cantidad: 10},
				},
			},
			{
				NombreProducto:   "Refrigerante",
				CantidadPorCajas: 6,
				Precios: []api.FiltroPrecio{
					{ID: 7, PrecioCompra: decimal.NewFromInt(800), Cantidad: 0},
				},
			},
		},
		Clientes: []api.FiltroCliente{
			{ID: 1, Nombre: "Distribuidora Norte"},
			{ID: 2, Nombre: "Taller El Amigo"},
		},
	})
}

func TestSaleBuilder_AddLine_ComputesSubtotal(t *testing.T) {
	b := core.NewSaleBuilder(testCatalog())

	err := b.AddLine(core.LineCandidate{
		ProductoNombre: "Aceite 20W50",
		PrecioID:       5,
		PrecioVenta:    decimal.NewFromInt(1500),
		Cantidad:       2,
	})
	require.NoError(t, err)

	lines := b.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "3000", lines[0].Subtotal.String())
	assert.Equal(t, "1000", lines[0].PrecioCompra.String())
	assert.Equal(t, "3000", b.Total().String())
}

func TestSaleBuilder_AddLine_CaseInsensitiveProduct(t *testing.T) {
	b := core.NewSaleBuilder(testCatalog())

	err := b.AddLine(core.LineCandidate{
		ProductoNombre: "  aceite 20w50 ",
		PrecioID:       5,
		PrecioVenta:    decimal.NewFromInt(1500),
		Cantidad:       1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Aceite 20W50", b.Lines()[0].ProductoNombre)
}

func TestSaleBuilder_AddLine_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		candidate core.LineCandidate
		wantErr   error
	}{
		{
			name:      "unknown product",
			candidate: core.LineCandidate{ProductoNombre: "Grasa", PrecioID: 5, PrecioVenta: decimal.NewFromInt(100), Cantidad: 1},
			wantErr:   core.ErrInvalidSelection,
		},
		{
			name:      "variant of another product",
			candidate: core.LineCandidate{ProductoNombre: "Aceite 20W50", PrecioID: 7, PrecioVenta: decimal.NewFromInt(100), Cantidad: 1},
			wantErr:   core.ErrInvalidSelection,
		},
		{
			name:      "variant with no catalog stock",
			candidate: core.LineCandidate{ProductoNombre: "Refrigerante", PrecioID: 7, PrecioVenta: decimal.NewFromInt(100), Cantidad: 1},
			wantErr:   core.ErrInvalidSelection,
		},
		{
			name:      "quantity below one",
			candidate: core.LineCandidate{ProductoNombre: "Aceite 20W50", PrecioID: 5, PrecioVenta: decimal.NewFromInt(100), Cantidad: 0},
			wantErr:   core.ErrInvalidSelection,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := core.NewSaleBuilder(testCatalog())
			err := b.AddLine(tt.candidate)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, b.Lines(), "a failed add must not touch the list")
			assert.True(t, b.Total().IsZero())
		})
	}
}

func TestSaleBuilder_StockInsufficient_ReportsRemaining(t *testing.T) {
	b := core.NewSaleBuilder(testCatalog())

	// Variant 5 holds 3 units. Asking for 4 names the shortfall.
	err := b.AddLine(core.LineCandidate{
		ProductoNombre: "Aceite 20W50",
		PrecioID:       5,
		PrecioVenta:    decimal.NewFromInt(1500),
		Cantidad:       4,
	})
	stockErr, ok := core.IsStockInsufficient(err)
	require.True(t, ok)
	assert.Equal(t, 3, stockErr.Remaining)
	assert.Empty(t, b.Lines())
}

func TestSaleBuilder_ReservationsExhaustVariant(t *testing.T) {
	b := core.NewSaleBuilder(testCatalog())

	require.NoError(t, b.AddLine(core.LineCandidate{
		ProductoNombre: "Aceite 20W50", PrecioID: 5, PrecioVenta: decimal.NewFromInt(1500), Cantidad: 2,
	}))
	assert.Equal(t, 1, b.Remaining("Aceite 20W50", 5))

	err := b.AddLine(core.LineCandidate{
		ProductoNombre: "Aceite 20W50", PrecioID: 5, PrecioVenta: decimal.NewFromInt(1500), Cantidad: 2,
	})
	stockErr, ok := core.IsStockInsufficient(err)
	require.True(t, ok)
	assert.Equal(t, 1, stockErr.Remaining)

	require.NoError(t, b.AddLine(core.LineCandidate{
		ProductoNombre: "Aceite 20W50", PrecioID: 5, PrecioVenta: decimal.NewFromInt(1500), Cantidad: 1,
	}))
	assert.Equal(t, 0, b.Remaining("Aceite 20W50", 5))

	err = b.AddLine(core.LineCandidate{
		ProductoNombre: "Aceite 20W50", PrecioID: 5, PrecioVenta: decimal.NewFromInt(1500), Cantidad: 1,
	})
	assert.ErrorIs(t, err, core.ErrStockExhausted)
}

func TestSaleBuilder_VariantsReserveIndependently(t *testing.T) {
	b := core.NewSaleBuilder(testCatalog())

	require.NoError(t, b.AddLine(core.LineCandidate{
		ProductoNombre: "Aceite 20W50", PrecioID: 5, PrecioVenta: decimal.NewFromInt(1500), Cantidad: 3,
	}))

	// Draining variant 5 leaves variant 9 of the same product untouched.
	assert.Equal(t, 0, b.Remaining("Aceite 20W50", 5))
	assert.Equal(t, 10, b.Remaining("Aceite 20W50", 9))
	require.NoError(t, b.AddLine(core.LineCandidate{
		ProductoNombre: "Aceite 20W50", PrecioID: 9, PrecioVenta: decimal.NewFromInt(1600), Cantidad: 10,
	}))
}

func TestSaleBuilder_RemoveLine(t *testing.T) {
	b := core.NewSaleBuilder(testCatalog())
	require.NoError(t, b.AddLine(core.LineCandidate{
		ProductoNombre: "Aceite 20W50", PrecioID: 5, PrecioVenta: decimal.NewFromInt(1500), Cantidad: 3,
	}))
	require.NoError(t, b.AddLine(core.LineCandidate{
		ProductoNombre: "Aceite 20W50", PrecioID: 9, PrecioVenta: decimal.NewFromInt(1600), Cantidad: 1,
	}))
	require.Equal(t, "6100", b.Total().String())

	b.RemoveLine(0)

	lines := b.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(9), lines[0].PrecioID)
	assert.Equal(t, "1600", b.Total().String())
	// The freed reservation is available again.
	assert.Equal(t, 3, b.Remaining("Aceite 20W50", 5))

	b.RemoveLine(5) // out of range, ignored
	assert.Len(t, b.Lines(), 1)
}

func TestSaleBuilder_Build(t *testing.T) {
	b := core.NewSaleBuilder(testCatalog())

	_, err := b.Build("Distribuidora Norte", api.VentaContado)
	assert.ErrorIs(t, err, core.ErrEmptySale)

	require.NoError(t, b.AddLine(core.LineCandidate{
		ProductoNombre: "Aceite 20W50", PrecioID: 5, PrecioVenta: decimal.NewFromInt(1500), Cantidad: 2,
	}))

	_, err = b.Build("Cliente Fantasma", api.VentaContado)
	assert.ErrorIs(t, err, core.ErrInvalidSelection)

	_, err = b.Build("Distribuidora Norte", api.TipoVenta("FIADO"))
	assert.ErrorIs(t, err, core.ErrInvalidSelection)

	req, err := b.Build("distribuidora norte", api.VentaCredito)
	require.NoError(t, err)
	assert.Equal(t, int64(1), req.ClienteID)
	assert.Equal(t, api.VentaCredito, req.TipoVenta)
	require.Len(t, req.Items, 1)
	// The wire product id is the price-variant id.
	assert.Equal(t, int64(5), req.Items[0].ProductoID)
	assert.Equal(t, 2, req.Items[0].Cantidad)
	assert.Equal(t, "3000", req.Items[0].Subtotal.String())

	// A build failure or success never drains the working list.
	assert.Len(t, b.Lines(), 1)
}
