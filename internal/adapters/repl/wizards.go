package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"sicoil-cli/internal/api"
	"sicoil-cli/internal/core"
	"sicoil-cli/internal/forms"
)

// prompt reads one trimmed line. A "cancelar" answer or a closed reader
// aborts the dialog.
func prompt(in *bufio.Reader, out io.Writer, label string) (string, bool) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		return "", false
	}
	if strings.EqualFold(line, "cancelar") {
		return "", false
	}
	return line, true
}

func promptDefault(in *bufio.Reader, out io.Writer, label, def string) (string, bool) {
	v, ok := prompt(in, out, fmt.Sprintf("%s [%s]: ", label, def))
	if !ok {
		return "", false
	}
	if v == "" {
		return def, true
	}
	return v, true
}

func confirm(in *bufio.Reader, out io.Writer, label string) bool {
	for {
		v, ok := prompt(in, out, label+" (s/n): ")
		if !ok {
			return false
		}
		switch strings.ToLower(v) {
		case "s", "si", "sí":
			return true
		case "n", "no":
			return false
		}
		fmt.Fprintln(out, "  Responde s o n.")
	}
}

func printFieldErrors(out io.Writer, f *forms.Field) {
	for _, msg := range f.Errors.Messages() {
		fmt.Fprintf(out, "  ✗ %s\n", msg)
	}
}

// askField re-prompts until validate accepts the input or the user cancels.
func askField(in *bufio.Reader, out io.Writer, f *forms.Field, label string, validate func(*forms.Field) bool) bool {
	for {
		v, ok := prompt(in, out, label)
		if !ok {
			return false
		}
		f.SetValue(v)
		if validate(f) {
			return true
		}
		printFieldErrors(out, f)
	}
}

func askRequired(in *bufio.Reader, out io.Writer, f *forms.Field, label string, maxLen int) (string, bool) {
	ok := askField(in, out, f, label, func(f *forms.Field) bool {
		return f.Require() && f.MaxLen(maxLen)
	})
	return f.Value, ok
}

func askOptional(in *bufio.Reader, out io.Writer, f *forms.Field, label string, maxLen int) (*string, bool) {
	ok := askField(in, out, f, label, func(f *forms.Field) bool {
		return f.Value == "" || f.MaxLen(maxLen)
	})
	if !ok {
		return nil, false
	}
	if f.Value == "" {
		return nil, true
	}
	v := f.Value
	return &v, true
}

func askInt(in *bufio.Reader, out io.Writer, f *forms.Field, label string, min int) (int, bool) {
	var n int
	ok := askField(in, out, f, label, func(f *forms.Field) bool {
		var valid bool
		n, valid = f.IntMin(min)
		return valid
	})
	return n, ok
}

func askDecimal(in *bufio.Reader, out io.Writer, f *forms.Field, label string, min decimal.Decimal) (decimal.Decimal, bool) {
	var d decimal.Decimal
	ok := askField(in, out, f, label, func(f *forms.Field) bool {
		var valid bool
		d, valid = f.DecimalMin(min)
		return valid
	})
	return d, ok
}

// ── Usuarios ──

// userWizard collects the fields of a new account and validates them as one
// submit, re-showing the whole dialog while any field is invalid.
func userWizard(in *bufio.Reader, out io.Writer) (*api.UsuarioRequest, bool) {
	fmt.Fprintln(out, "\nREGISTRO DE USUARIO (escribe \"cancelar\" para salir)")
	for {
		form := forms.NewForm("usuario", "contrasena", "confirmarContrasena")
		for _, p := range []struct{ name, label string }{
			{"usuario", "Usuario: "},
			{"contrasena", "Contraseña: "},
			{"confirmarContrasena", "Confirmar contraseña: "},
		} {
			v, ok := prompt(in, out, p.label)
			if !ok {
				return nil, false
			}
			form.Field(p.name).SetValue(v)
		}

		usuario := form.Field("usuario")
		if usuario.Require() {
			usuario.MaxLen(100)
		}
		contrasena := form.Field("contrasena")
		if contrasena.Require() && contrasena.MinLen(6) {
			contrasena.MaxLen(120)
		}
		confirmar := form.Field("confirmarContrasena")
		if confirmar.Require() {
			if confirmar.Value != contrasena.Value {
				confirmar.Fail(forms.ErrMismatch, "las contraseñas no coinciden")
			} else {
				confirmar.Errors.Remove(forms.ErrMismatch)
			}
		}

		if !form.Valid() {
			form.MarkAllTouched()
			for _, msg := range form.Problems() {
				fmt.Fprintf(out, "  ✗ %s\n", msg)
			}
			continue
		}
		if !confirm(in, out, fmt.Sprintf("¿Crear el usuario %q?", usuario.Value)) {
			return nil, false
		}
		return &api.UsuarioRequest{Usuario: usuario.Value, Contrasena: contrasena.Value}, true
	}
}

// ── Productos ──

func productWizard(in *bufio.Reader, out io.Writer) (*api.ProductoRequest, bool) {
	fmt.Fprintln(out, "\nNUEVO PRODUCTO (escribe \"cancelar\" para salir)")
	form := forms.NewForm("nombre", "cantidadPorCajas", "precioCompra", "stock")

	nombre, ok := askRequired(in, out, form.Field("nombre"), "Nombre: ", 100)
	if !ok {
		return nil, false
	}
	cajas, ok := askInt(in, out, form.Field("cantidadPorCajas"), "Unidades por caja: ", 1)
	if !ok {
		return nil, false
	}
	precio, ok := askDecimal(in, out, form.Field("precioCompra"), "Precio de compra: ", decimal.NewFromFloat(0.01))
	if !ok {
		return nil, false
	}
	stock, ok := askInt(in, out, form.Field("stock"), "Stock inicial: ", 0)
	if !ok {
		return nil, false
	}

	fmt.Fprintf(out, "\n  %s · %d por caja · compra %s · stock %d\n", nombre, cajas, precio.StringFixed(2), stock)
	if !confirm(in, out, "¿Registrar producto?") {
		return nil, false
	}
	return &api.ProductoRequest{
		Nombre:           nombre,
		CantidadPorCajas: cajas,
		PrecioCompra:     precio,
		Stock:            stock,
	}, true
}

func editProductWizard(in *bufio.Reader, out io.Writer, nombreActual string) (*api.ProductoActualizarRequest, bool) {
	fmt.Fprintf(out, "\nEDITAR PRODUCTO %q (escribe \"cancelar\" para salir)\n", nombreActual)
	form := forms.NewForm("nombre", "cantidadPorCajas")

	nombre, ok := promptDefault(in, out, "Nombre", nombreActual)
	if !ok {
		return nil, false
	}
	form.Field("nombre").SetValue(nombre)
	if !form.Field("nombre").MaxLen(100) {
		printFieldErrors(out, form.Field("nombre"))
		return nil, false
	}
	cajas, ok := askInt(in, out, form.Field("cantidadPorCajas"), "Unidades por caja: ", 1)
	if !ok {
		return nil, false
	}
	if !confirm(in, out, "¿Guardar cambios?") {
		return nil, false
	}
	return &api.ProductoActualizarRequest{Nombre: form.Field("nombre").Value, CantidadPorCajas: cajas}, true
}

// stockEntryWizard collects a batch of stock-entry lines. Each product name
// is checked against the catalog through exists before the line is accepted.
func stockEntryWizard(in *bufio.Reader, out io.Writer, exists func(nombre string) (bool, error)) ([]api.IngresoProductoRequest, bool) {
	fmt.Fprintln(out, "\nINGRESO DE STOCK (una línea por producto, \"cancelar\" para salir)")
	var lineas []api.IngresoProductoRequest
	for {
		form := forms.NewForm("nombreProducto", "precioCompra", "cantidad")

		var nombre string
		ok := askField(in, out, form.Field("nombreProducto"), "Producto: ", func(f *forms.Field) bool {
			if !f.Require() {
				return false
			}
			found, err := exists(f.Value)
			if err != nil {
				f.Fail(forms.ErrOptionInvalida, "no se pudo verificar el producto: "+err.Error())
				return false
			}
			if !found {
				f.Fail(forms.ErrOptionInvalida, "producto no registrado: "+f.Value)
				return false
			}
			f.Errors.Remove(forms.ErrOptionInvalida)
			nombre = f.Value
			return true
		})
		if !ok {
			return nil, false
		}
		precio, ok := askDecimal(in, out, form.Field("precioCompra"), "Precio de compra: ", decimal.NewFromFloat(0.01))
		if !ok {
			return nil, false
		}
		cantidad, ok := askInt(in, out, form.Field("cantidad"), "Cantidad: ", 1)
		if !ok {
			return nil, false
		}
		lineas = append(lineas, api.IngresoProductoRequest{
			NombreProducto: nombre,
			PrecioCompra:   precio,
			Cantidad:       cantidad,
		})
		fmt.Fprintf(out, "  + %s · compra %s · %d unidad(es)  (%d en lote)\n",
			nombre, precio.StringFixed(2), cantidad, len(lineas))
		if !confirm(in, out, "¿Agregar otra línea?") {
			break
		}
	}
	if len(lineas) == 0 {
		return nil, false
	}
	if !confirm(in, out, fmt.Sprintf("¿Registrar %d línea(s) de ingreso?", len(lineas))) {
		return nil, false
	}
	return lineas, true
}

func removeStockWizard(in *bufio.Reader, out io.Writer) (*api.SalidaStockRequest, bool) {
	fmt.Fprintln(out, "\nSALIDA DE STOCK (escribe \"cancelar\" para salir)")
	form := forms.NewForm("cantidad", "observacion")

	cantidad, ok := askInt(in, out, form.Field("cantidad"), "Cantidad a retirar: ", 1)
	if !ok {
		return nil, false
	}
	observacion, ok := askOptional(in, out, form.Field("observacion"), "Observación (opcional): ", 255)
	if !ok {
		return nil, false
	}
	if !confirm(in, out, fmt.Sprintf("¿Retirar %d unidad(es)?", cantidad)) {
		return nil, false
	}
	return &api.SalidaStockRequest{Cantidad: cantidad, Observacion: observacion}, true
}

// ── Clientes ──

func clientWizard(in *bufio.Reader, out io.Writer) (*api.ClienteRequest, bool) {
	fmt.Fprintln(out, "\nNUEVO CLIENTE (escribe \"cancelar\" para salir)")
	form := forms.NewForm("nombre", "telefono", "direccion")

	nombre, ok := askRequired(in, out, form.Field("nombre"), "Nombre: ", 100)
	if !ok {
		return nil, false
	}
	telefono, ok := askOptional(in, out, form.Field("telefono"), "Teléfono (opcional): ", 20)
	if !ok {
		return nil, false
	}
	direccion, ok := askOptional(in, out, form.Field("direccion"), "Dirección (opcional): ", 150)
	if !ok {
		return nil, false
	}
	if !confirm(in, out, "¿Registrar cliente?") {
		return nil, false
	}
	return &api.ClienteRequest{Nombre: nombre, Telefono: telefono, Direccion: direccion}, true
}

// ── Ventas ──

// itemEntry tracks the fields of the line being composed. Switching to a
// different product clears the chosen price variant and unit price, and any
// stock error hanging off cantidad. Switching price clears the stock error
// only.
type itemEntry struct {
	form *forms.Form
}

func newItemEntry() *itemEntry {
	return &itemEntry{form: forms.NewForm("producto", "precio", "precioVenta", "cantidad")}
}

func (e *itemEntry) resetField(name string) {
	f := e.form.Field(name)
	f.Value = ""
	f.Touched = false
	f.Errors = forms.ErrorSet{}
}

func (e *itemEntry) setProduct(nombre string) {
	producto := e.form.Field("producto")
	if producto.Value != "" && !strings.EqualFold(producto.Value, strings.TrimSpace(nombre)) {
		e.resetField("precio")
		e.resetField("precioVenta")
		e.form.Field("cantidad").Errors.Remove(forms.ErrStockInsuficiente)
	}
	producto.SetValue(nombre)
}

func (e *itemEntry) setPrice(id string) {
	precio := e.form.Field("precio")
	if precio.Value != "" && precio.Value != strings.TrimSpace(id) {
		e.form.Field("cantidad").Errors.Remove(forms.ErrStockInsuficiente)
	}
	precio.SetValue(id)
}

func suggestProducts(out io.Writer, catalog *core.Catalogo, term string) {
	matches := catalog.MatchProducts(term, 10)
	if len(matches) == 0 {
		fmt.Fprintln(out, "  Sin coincidencias.")
		return
	}
	for _, m := range matches {
		fmt.Fprintf(out, "  · %s\n", m.NombreProducto)
	}
}

func suggestClients(out io.Writer, catalog *core.Catalogo, term string) {
	matches := catalog.MatchClients(term, 10)
	if len(matches) == 0 {
		fmt.Fprintln(out, "  Sin coincidencias.")
		return
	}
	for _, m := range matches {
		fmt.Fprintf(out, "  · %s\n", m.Nombre)
	}
}

func printVariants(out io.Writer, b *core.SaleBuilder, p api.FiltroProducto) {
	fmt.Fprintf(out, "  Precios de %s:\n", p.NombreProducto)
	for _, v := range p.Precios {
		fmt.Fprintf(out, "    #%-5d compra %10s  disponible %d\n",
			v.ID, v.PrecioCompra.StringFixed(2), b.Remaining(p.NombreProducto, v.ID))
	}
}

// saleWizard composes a sale line by line against the filter catalog.
// In-dialog commands: lista, quitar N, fin, cancelar.
func saleWizard(in *bufio.Reader, out io.Writer, catalog *core.Catalogo) (*api.VentaRequest, bool) {
	fmt.Fprintln(out, "\nNUEVA VENTA")
	fmt.Fprintln(out, "  Comandos: lista · quitar N · fin · cancelar")
	builder := core.NewSaleBuilder(catalog)
	entry := newItemEntry()

	for {
		raw, ok := prompt(in, out, "Producto: ")
		if !ok {
			return nil, false
		}
		switch {
		case raw == "":
			suggestProducts(out, catalog, "")
			continue
		case strings.EqualFold(raw, "lista"):
			printPendingLines(out, builder.Lines(), builder.Total().StringFixed(2))
			continue
		case strings.EqualFold(raw, "fin"):
			if len(builder.Lines()) == 0 {
				fmt.Fprintln(out, "  ✗ No hay artículos en la lista.")
				continue
			}
		case strings.HasPrefix(strings.ToLower(raw), "quitar "):
			n, err := strconv.Atoi(strings.TrimSpace(raw[len("quitar "):]))
			if err != nil || n < 1 || n > len(builder.Lines()) {
				fmt.Fprintln(out, "  ✗ Número de línea inválido.")
				continue
			}
			builder.RemoveLine(n - 1)
			printPendingLines(out, builder.Lines(), builder.Total().StringFixed(2))
			continue
		}

		if !strings.EqualFold(raw, "fin") {
			entry.setProduct(raw)
			producto, found := catalog.Product(raw)
			if !found {
				entry.form.Field("producto").Fail(forms.ErrOptionInvalida, "producto no está en el catálogo")
				printFieldErrors(out, entry.form.Field("producto"))
				suggestProducts(out, catalog, raw)
				continue
			}
			printVariants(out, builder, producto)

			precioRaw, ok := prompt(in, out, "Precio id: ")
			if !ok {
				return nil, false
			}
			entry.setPrice(precioRaw)
			precioID, err := strconv.ParseInt(entry.form.Field("precio").Value, 10, 64)
			if err != nil {
				entry.form.Field("precio").Fail(forms.ErrOptionInvalida, "precio id debe ser numérico")
				printFieldErrors(out, entry.form.Field("precio"))
				continue
			}
			precioVenta, ok := askDecimal(in, out, entry.form.Field("precioVenta"), "Precio de venta: ", decimal.NewFromFloat(0.01))
			if !ok {
				return nil, false
			}
			cantidad, ok := askInt(in, out, entry.form.Field("cantidad"), "Cantidad: ", 1)
			if !ok {
				return nil, false
			}

			err = builder.AddLine(core.LineCandidate{
				ProductoNombre: producto.NombreProducto,
				PrecioID:       precioID,
				PrecioVenta:    precioVenta,
				Cantidad:       cantidad,
			})
			if err != nil {
				cantidadField := entry.form.Field("cantidad")
				if stockErr, insufficient := core.IsStockInsufficient(err); insufficient {
					cantidadField.Fail(forms.ErrStockInsuficiente,
						fmt.Sprintf("solo hay %d unidad(es) disponibles", stockErr.Remaining))
					printFieldErrors(out, cantidadField)
				} else if errors.Is(err, core.ErrStockExhausted) {
					cantidadField.Fail(forms.ErrStockInsuficiente, "no hay unidades disponibles para este precio")
					printFieldErrors(out, cantidadField)
				} else {
					entry.form.Field("precio").Fail(forms.ErrOptionInvalida, "selección inválida: "+err.Error())
					printFieldErrors(out, entry.form.Field("precio"))
				}
				continue
			}
			fmt.Fprintf(out, "  + %s · %d x %s  (total %s)\n",
				producto.NombreProducto, cantidad, precioVenta.StringFixed(2), builder.Total().StringFixed(2))
			entry = newItemEntry()
			continue
		}

		// fin: close the line list and collect client and payment mode.
		break
	}

	outer := forms.NewForm("cliente", "tipoVenta")
	var cliente api.FiltroCliente
	ok := askField(in, out, outer.Field("cliente"), "Cliente: ", func(f *forms.Field) bool {
		if !f.Require() {
			return false
		}
		c, found := catalog.Client(f.Value)
		if !found {
			f.Fail(forms.ErrOptionInvalida, "cliente no está en el catálogo")
			suggestClients(out, catalog, f.Value)
			return false
		}
		f.Errors.Remove(forms.ErrOptionInvalida)
		cliente = c
		return true
	})
	if !ok {
		return nil, false
	}

	var tipo api.TipoVenta
	for {
		v, ok := promptDefault(in, out, "Tipo (CONTADO/CREDITO)", string(api.VentaContado))
		if !ok {
			return nil, false
		}
		tipo = api.TipoVenta(strings.ToUpper(v))
		if tipo == api.VentaContado || tipo == api.VentaCredito {
			break
		}
		fmt.Fprintln(out, "  ✗ Tipo debe ser CONTADO o CREDITO.")
	}

	req, err := builder.Build(cliente.Nombre, tipo)
	if err != nil {
		fmt.Fprintf(out, "  ✗ %v\n", err)
		return nil, false
	}

	printPendingLines(out, builder.Lines(), builder.Total().StringFixed(2))
	fmt.Fprintf(out, "  Cliente: %s · Tipo: %s\n", cliente.Nombre, tipo)
	if !confirm(in, out, "¿Registrar venta?") {
		return nil, false
	}
	return req, true
}

func annulWizard(in *bufio.Reader, out io.Writer, ventaID int64) (*api.VentaAnulacionRequest, bool) {
	fmt.Fprintf(out, "\nANULAR VENTA #%d (escribe \"cancelar\" para salir)\n", ventaID)
	form := forms.NewForm("motivo")
	motivo, ok := askRequired(in, out, form.Field("motivo"), "Motivo: ", 255)
	if !ok {
		return nil, false
	}
	if !confirm(in, out, "¿Anular la venta? Se revierten stock y capital.") {
		return nil, false
	}
	return &api.VentaAnulacionRequest{Motivo: motivo}, true
}

// ── Capital ──

func injectionWizard(in *bufio.Reader, out io.Writer) (*api.CapitalInyeccionRequest, bool) {
	fmt.Fprintln(out, "\nINYECCIÓN DE CAPITAL (escribe \"cancelar\" para salir)")
	form := forms.NewForm("monto", "descripcion")

	monto, ok := askDecimal(in, out, form.Field("monto"), "Monto: ", decimal.NewFromInt(1))
	if !ok {
		return nil, false
	}
	descripcion, ok := askOptional(in, out, form.Field("descripcion"), "Descripción (opcional): ", 255)
	if !ok {
		return nil, false
	}
	if !confirm(in, out, fmt.Sprintf("¿Registrar inyección de %s?", monto.StringFixed(2))) {
		return nil, false
	}
	return &api.CapitalInyeccionRequest{Monto: monto, Descripcion: descripcion}, true
}

// ── Cartera ──

func abonoWizard(in *bufio.Reader, out io.Writer, clienteID int64) (*api.CarteraAbonoRequest, bool) {
	fmt.Fprintf(out, "\nREGISTRAR ABONO · cliente #%d (escribe \"cancelar\" para salir)\n", clienteID)
	form := forms.NewForm("monto", "observacion")

	monto, ok := askDecimal(in, out, form.Field("monto"), "Monto: ", decimal.NewFromInt(1))
	if !ok {
		return nil, false
	}
	observacion, ok := askOptional(in, out, form.Field("observacion"), "Observación (opcional): ", 255)
	if !ok {
		return nil, false
	}
	if !confirm(in, out, fmt.Sprintf("¿Registrar abono de %s?", monto.StringFixed(2))) {
		return nil, false
	}
	return &api.CarteraAbonoRequest{Monto: monto, Observacion: observacion}, true
}

func deleteAbonoWizard(in *bufio.Reader, out io.Writer, movimientoID int64) (*api.CarteraAbonoRequest, bool) {
	fmt.Fprintf(out, "\nELIMINAR ABONO · movimiento #%d (escribe \"cancelar\" para salir)\n", movimientoID)
	form := forms.NewForm("observacion")
	motivo, ok := askRequired(in, out, form.Field("observacion"), "Motivo: ", 255)
	if !ok {
		return nil, false
	}
	if !confirm(in, out, "¿Eliminar el abono? El saldo del cliente vuelve a subir.") {
		return nil, false
	}
	return &api.CarteraAbonoRequest{Observacion: &motivo}, true
}
