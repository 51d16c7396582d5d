package repl

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sicoil-cli/internal/api"
	"sicoil-cli/internal/core"
	"sicoil-cli/internal/forms"
)

func script(lines ...string) (*bufio.Reader, *bytes.Buffer) {
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	return in, &bytes.Buffer{}
}

func wizardCatalog() *core.Catalogo {
	return core.NewCatalogo(&api.FiltrosVenta{
		Productos: []api.FiltroProducto{
			{
				NombreProducto:   "Aceite 20W50",
				CantidadPorCajas: 12,
				Precios: []api.FiltroPrecio{
					{ID: 5, PrecioCompra: decimal.NewFromInt(1000), Cantidad: 3},
				},
			},
		},
		Clientes: []api.FiltroCliente{
			{ID: 1, Nombre: "Distribuidora Norte"},
		},
	})
}

func TestSaleWizard_HappyPath(t *testing.T) {
	in, out := script(
		"Aceite 20W50",
		"5",
		"1500",
		"2",
		"fin",
		"Distribuidora Norte",
		"", // default CONTADO
		"s",
	)

	req, ok := saleWizard(in, out, wizardCatalog())
	require.True(t, ok)
	assert.Equal(t, int64(1), req.ClienteID)
	assert.Equal(t, api.VentaContado, req.TipoVenta)
	require.Len(t, req.Items, 1)
	assert.Equal(t, int64(5), req.Items[0].ProductoID)
	assert.Equal(t, 2, req.Items[0].Cantidad)
	assert.Equal(t, "3000", req.Items[0].Subtotal.String())
	assert.Contains(t, out.String(), "TOTAL")
}

func TestSaleWizard_StockShortfallKeepsDialogOpen(t *testing.T) {
	in, out := script(
		"Aceite 20W50",
		"5",
		"1500",
		"4", // only 3 available
		"Aceite 20W50",
		"5",
		"1500",
		"3",
		"fin",
		"Distribuidora Norte",
		"CREDITO",
		"s",
	)

	req, ok := saleWizard(in, out, wizardCatalog())
	require.True(t, ok)
	assert.Contains(t, out.String(), "solo hay 3 unidad(es) disponibles")
	require.Len(t, req.Items, 1)
	assert.Equal(t, 3, req.Items[0].Cantidad)
	assert.Equal(t, api.VentaCredito, req.TipoVenta)
}

func TestSaleWizard_UnknownProductSuggests(t *testing.T) {
	in, out := script(
		"aceit", // substring, not an exact match
		"Aceite 20W50",
		"5",
		"1500",
		"1",
		"fin",
		"Distribuidora Norte",
		"",
		"s",
	)

	_, ok := saleWizard(in, out, wizardCatalog())
	require.True(t, ok)
	assert.Contains(t, out.String(), "no está en el catálogo")
	assert.Contains(t, out.String(), "Aceite 20W50")
}

func TestSaleWizard_FinRequiresLines(t *testing.T) {
	in, out := script("fin", "cancelar")

	_, ok := saleWizard(in, out, wizardCatalog())
	assert.False(t, ok)
	assert.Contains(t, out.String(), "No hay artículos en la lista")
}

func TestSaleWizard_QuitarRemovesLine(t *testing.T) {
	in, out := script(
		"Aceite 20W50",
		"5",
		"1500",
		"2",
		"quitar 1",
		"Aceite 20W50",
		"5",
		"1200",
		"3", // the removed reservation is free again
		"fin",
		"Distribuidora Norte",
		"",
		"s",
	)

	req, ok := saleWizard(in, out, wizardCatalog())
	require.True(t, ok)
	require.Len(t, req.Items, 1)
	assert.Equal(t, "3600", req.Items[0].Subtotal.String())
}

func TestSaleWizard_Cancel(t *testing.T) {
	in, out := script("cancelar")
	_, ok := saleWizard(in, out, wizardCatalog())
	assert.False(t, ok)
}

func TestSaleWizard_DecliningConfirmationDiscards(t *testing.T) {
	in, out := script(
		"Aceite 20W50",
		"5",
		"1500",
		"1",
		"fin",
		"Distribuidora Norte",
		"",
		"n",
	)
	_, ok := saleWizard(in, out, wizardCatalog())
	assert.False(t, ok)
}

func TestItemEntry_SwitchingProductClearsDependents(t *testing.T) {
	e := newItemEntry()
	e.setProduct("Aceite 20W50")
	e.setPrice("5")
	e.form.Field("precioVenta").SetValue("1500")
	e.form.Field("cantidad").Fail(forms.ErrStockInsuficiente, "solo hay 3")

	e.setProduct("Refrigerante")

	assert.Empty(t, e.form.Field("precio").Value)
	assert.Empty(t, e.form.Field("precioVenta").Value)
	assert.False(t, e.form.Field("precio").Touched)
	assert.False(t, e.form.Field("cantidad").Errors.Has(forms.ErrStockInsuficiente))
	assert.Equal(t, "Refrigerante", e.form.Field("producto").Value)
}

func TestItemEntry_SameProductKeepsSelection(t *testing.T) {
	e := newItemEntry()
	e.setProduct("Aceite 20W50")
	e.setPrice("5")

	e.setProduct("aceite 20w50")

	assert.Equal(t, "5", e.form.Field("precio").Value)
}

func TestItemEntry_SwitchingPriceClearsStockError(t *testing.T) {
	e := newItemEntry()
	e.setProduct("Aceite 20W50")
	e.setPrice("5")
	e.form.Field("cantidad").Fail(forms.ErrStockInsuficiente, "solo hay 3")
	e.form.Field("cantidad").Fail(forms.ErrMin, "cantidad debe ser un entero")

	e.setPrice("9")

	cantidad := e.form.Field("cantidad")
	assert.False(t, cantidad.Errors.Has(forms.ErrStockInsuficiente))
	assert.True(t, cantidad.Errors.Has(forms.ErrMin), "unrelated errors stay put")
}

func TestProductWizard_ValidatesAndConfirms(t *testing.T) {
	in, out := script(
		"",           // nombre required
		"Aceite 10W", // retry
		"cero",       // not an integer
		"12",
		"0", // below minimum price
		"950.50",
		"24",
		"s",
	)

	req, ok := productWizard(in, out)
	require.True(t, ok)
	assert.Equal(t, "Aceite 10W", req.Nombre)
	assert.Equal(t, 12, req.CantidadPorCajas)
	assert.Equal(t, "950.5", req.PrecioCompra.String())
	assert.Equal(t, 24, req.Stock)
	assert.Contains(t, out.String(), "es obligatorio")
}

func TestProductWizard_Cancel(t *testing.T) {
	in, out := script("Aceite 10W", "cancelar")
	_, ok := productWizard(in, out)
	assert.False(t, ok)
}

func TestClientWizard_OptionalFields(t *testing.T) {
	in, out := script(
		"Taller El Amigo",
		"",
		"Calle 5 #12-30",
		"s",
	)

	req, ok := clientWizard(in, out)
	require.True(t, ok)
	assert.Equal(t, "Taller El Amigo", req.Nombre)
	assert.Nil(t, req.Telefono)
	require.NotNil(t, req.Direccion)
	assert.Equal(t, "Calle 5 #12-30", *req.Direccion)
}

func TestStockEntryWizard_ChecksCatalog(t *testing.T) {
	exists := func(nombre string) (bool, error) {
		return strings.EqualFold(nombre, "Aceite 20W50"), nil
	}
	in, out := script(
		"Grasa",        // not registered
		"Aceite 20W50", // retry
		"1100",
		"6",
		"n", // no more lines
		"s", // confirm the batch
	)

	lineas, ok := stockEntryWizard(in, out, exists)
	require.True(t, ok)
	require.Len(t, lineas, 1)
	assert.Equal(t, "Aceite 20W50", lineas[0].NombreProducto)
	assert.Equal(t, 6, lineas[0].Cantidad)
	assert.Contains(t, out.String(), "producto no registrado")
}

func TestAnnulWizard_RequiresMotivo(t *testing.T) {
	in, out := script("", "venta duplicada", "s")

	req, ok := annulWizard(in, out, 42)
	require.True(t, ok)
	assert.Equal(t, "venta duplicada", req.Motivo)
	assert.Contains(t, out.String(), "es obligatorio")
}

func TestDeleteAbonoWizard(t *testing.T) {
	in, out := script("registrado por error", "s")

	req, ok := deleteAbonoWizard(in, out, 9)
	require.True(t, ok)
	require.NotNil(t, req.Observacion)
	assert.Equal(t, "registrado por error", *req.Observacion)
	assert.Contains(t, out.String(), "ELIMINAR ABONO")
}

// The registration dialog validates the whole submit at once and replays the
// form until every field passes.
func TestUserWizard_RepromptsUntilValid(t *testing.T) {
	in, out := script(
		"vendedor", "corta", "corta", // password below the minimum
		"vendedor", "secreto1", "secreto2", // confirmation differs
		"vendedor", "secreto1", "secreto1",
		"s",
	)

	req, ok := userWizard(in, out)
	require.True(t, ok)
	assert.Equal(t, "vendedor", req.Usuario)
	assert.Equal(t, "secreto1", req.Contrasena)

	s := out.String()
	assert.Contains(t, s, "al menos 6 caracteres")
	assert.Contains(t, s, "las contraseñas no coinciden")
}

func TestUserWizard_EmptySubmitListsEveryProblem(t *testing.T) {
	in, out := script(
		"", "", "",
		"vendedor", "secreto1", "secreto1",
		"s",
	)

	_, ok := userWizard(in, out)
	require.True(t, ok)
	assert.Contains(t, out.String(), "usuario es obligatorio")
	assert.Contains(t, out.String(), "contrasena es obligatorio")
	assert.Contains(t, out.String(), "confirmarContrasena es obligatorio")
}

func TestUserWizard_Cancel(t *testing.T) {
	in, out := script("vendedor", "cancelar")

	_, ok := userWizard(in, out)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "REGISTRO DE USUARIO")
}
