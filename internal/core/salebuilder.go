package core

import (
	"errors"

	"github.com/shopspring/decimal"

	"sicoil-cli/internal/api"
)

// PendingLine is one confirmed line in the working sale list. Immutable
// once added; it leaves the list only by positional removal or by the
// whole dialog being discarded.
type PendingLine struct {
	ProductoNombre string
	PrecioID       int64
	PrecioVenta    decimal.Decimal // unit sale price
	Cantidad       int
	PrecioCompra   decimal.Decimal // unit cost from the catalog variant
	Subtotal       decimal.Decimal // PrecioVenta × Cantidad
}

// LineCandidate is the raw entry sub-form value handed to AddLine.
type LineCandidate struct {
	ProductoNombre string
	PrecioID       int64
	PrecioVenta    decimal.Decimal
	Cantidad       int
}

// SaleBuilder accumulates validated line items for one sale before the
// finished list is submitted as a single creation request. Stock checks
// run against the catalog snapshot taken when the dialog opened, minus
// whatever the working list already reserves; nothing touches the network
// until the caller submits the built request.
type SaleBuilder struct {
	catalog *Catalogo
	lines   []PendingLine
}

// NewSaleBuilder starts an empty working list over the given snapshot.
func NewSaleBuilder(catalog *Catalogo) *SaleBuilder {
	if catalog == nil {
		catalog = &Catalogo{}
	}
	return &SaleBuilder{catalog: catalog}
}

// AddLine validates the candidate and appends it to the working list.
// Validation order: product exists, variant belongs to it and is offerable,
// then the requested quantity fits what the variant can still cover. A
// failed add leaves the list untouched.
func (b *SaleBuilder) AddLine(c LineCandidate) error {
	if c.Cantidad < 1 {
		return ErrInvalidSelection
	}
	producto, ok := b.catalog.Product(c.ProductoNombre)
	if !ok {
		return ErrInvalidSelection
	}
	precio, ok := b.catalog.Price(producto.NombreProducto, c.PrecioID)
	if !ok || precio.Cantidad <= 0 {
		return ErrInvalidSelection
	}

	remaining := precio.Cantidad - b.Reserved(c.PrecioID)
	if remaining <= 0 {
		return ErrStockExhausted
	}
	if c.Cantidad > remaining {
		return &StockInsufficientError{Remaining: remaining}
	}

	b.lines = append(b.lines, PendingLine{
		ProductoNombre: producto.NombreProducto,
		PrecioID:       precio.ID,
		PrecioVenta:    c.PrecioVenta,
		Cantidad:       c.Cantidad,
		PrecioCompra:   precio.PrecioCompra,
		Subtotal:       c.PrecioVenta.Mul(decimal.NewFromInt(int64(c.Cantidad))),
	})
	return nil
}

// RemoveLine drops the line at that position. Out-of-range indexes are
// ignored; removal never renumbers or reorders the rest.
func (b *SaleBuilder) RemoveLine(index int) {
	if index < 0 || index >= len(b.lines) {
		return
	}
	b.lines = append(b.lines[:index], b.lines[index+1:]...)
}

// Reserved sums the quantity the working list already holds against the
// given price variant.
func (b *SaleBuilder) Reserved(precioID int64) int {
	total := 0
	for _, l := range b.lines {
		if l.PrecioID == precioID {
			total += l.Cantidad
		}
	}
	return total
}

// Remaining reports how many units of the variant of the named product can
// still be added. Unknown variants report zero.
func (b *SaleBuilder) Remaining(nombre string, precioID int64) int {
	precio, ok := b.catalog.Price(nombre, precioID)
	if !ok {
		return 0
	}
	remaining := precio.Cantidad - b.Reserved(precioID)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Lines returns a copy of the working list in insertion order.
func (b *SaleBuilder) Lines() []PendingLine {
	out := make([]PendingLine, len(b.lines))
	copy(out, b.lines)
	return out
}

// Total folds the current lines' subtotals. Recomputed on every call.
func (b *SaleBuilder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range b.lines {
		total = total.Add(l.Subtotal)
	}
	return total
}

// Build resolves the outer form against the snapshot and maps the working
// list to the wire request. The caller performs the actual creation call;
// a failed Build leaves the list intact for retry.
func (b *SaleBuilder) Build(clienteNombre string, tipo api.TipoVenta) (*api.VentaRequest, error) {
	cliente, ok := b.catalog.Client(clienteNombre)
	if !ok {
		return nil, ErrInvalidSelection
	}
	if tipo != api.VentaContado && tipo != api.VentaCredito {
		return nil, ErrInvalidSelection
	}
	if len(b.lines) == 0 {
		return nil, ErrEmptySale
	}

	items := make([]api.DetalleVentaRequest, len(b.lines))
	for i, l := range b.lines {
		items[i] = api.DetalleVentaRequest{
			ProductoID: l.PrecioID,
			Cantidad:   l.Cantidad,
			Subtotal:   l.Subtotal,
		}
	}
	return &api.VentaRequest{ClienteID: cliente.ID, TipoVenta: tipo, Items: items}, nil
}

// IsStockInsufficient unwraps a StockInsufficientError, if any.
func IsStockInsufficient(err error) (*StockInsufficientError, bool) {
	var stockErr *StockInsufficientError
	if errors.As(err, &stockErr) {
		return stockErr, true
	}
	return nil, false
}
