package repl

import (
	"fmt"
	"io"
	"strings"

	"sicoil-cli/internal/api"
	"sicoil-cli/internal/app"
	"sicoil-cli/internal/core"
)

func rule(w io.Writer, ch string, n int) {
	fmt.Fprintln(w, strings.Repeat(ch, n))
}

func pageFooter[T any](w io.Writer, snap app.Snapshot[T], width int) {
	rule(w, "-", width)
	fmt.Fprintf(w, "  Página %d de %d — %d registro(s)\n", snap.Page+1, max(snap.TotalPages, 1), snap.TotalElements)
	rule(w, "=", width)
}

func trunc(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func printProductos(w io.Writer, snap app.Snapshot[api.ProductoAgrupado]) {
	fmt.Fprintln(w)
	rule(w, "=", 72)
	fmt.Fprintln(w, "  PRODUCTOS")
	rule(w, "=", 72)
	if len(snap.Items) == 0 {
		fmt.Fprintln(w, "  No hay productos.")
		rule(w, "=", 72)
		return
	}
	fmt.Fprintf(w, "  %-28s %10s %8s\n", "NOMBRE", "STOCK", "X CAJA")
	rule(w, "-", 72)
	for _, p := range snap.Items {
		fmt.Fprintf(w, "  %-28s %10d %8d\n", trunc(p.Nombre, 28), p.StockTotal, p.CantidadPorCajas)
		for _, v := range p.Variantes {
			fmt.Fprintf(w, "    · precio #%-5d compra %10s  stock %d\n", v.ID, v.PrecioCompra.StringFixed(2), v.Stock)
		}
	}
	pageFooter(w, snap, 72)
}

func printClientes(w io.Writer, clientes []api.Cliente) {
	fmt.Fprintln(w)
	rule(w, "=", 72)
	fmt.Fprintln(w, "  CLIENTES")
	rule(w, "=", 72)
	if len(clientes) == 0 {
		fmt.Fprintln(w, "  No hay clientes.")
		rule(w, "=", 72)
		return
	}
	fmt.Fprintf(w, "  %-5s %-25s %-15s %s\n", "ID", "NOMBRE", "TELÉFONO", "DIRECCIÓN")
	rule(w, "-", 72)
	for _, c := range clientes {
		fmt.Fprintf(w, "  %-5d %-25s %-15s %s\n", c.ID, trunc(c.Nombre, 25), deref(c.Telefono), trunc(deref(c.Direccion), 24))
	}
	rule(w, "=", 72)
}

func printVentas(w io.Writer, snap app.Snapshot[api.VentaListado]) {
	fmt.Fprintln(w)
	rule(w, "=", 84)
	fmt.Fprintln(w, "  VENTAS")
	rule(w, "=", 84)
	if len(snap.Items) == 0 {
		fmt.Fprintln(w, "  No hay ventas.")
		rule(w, "=", 84)
		return
	}
	fmt.Fprintf(w, "  %-6s %-20s %-9s %-8s %12s %-12s %s\n", "ID", "CLIENTE", "TIPO", "ESTADO", "TOTAL", "USUARIO", "FECHA")
	rule(w, "-", 84)
	for _, v := range snap.Items {
		estado := "activa"
		if !v.Activa {
			estado = "anulada"
		}
		fmt.Fprintf(w, "  %-6d %-20s %-9s %-8s %12s %-12s %s\n",
			v.VentaID, trunc(v.ClienteNombre, 20), v.TipoVenta, estado,
			v.TotalVenta.StringFixed(2), trunc(v.UsuarioNombre, 12), v.FechaRegistro)
		for _, item := range v.Items {
			fmt.Fprintf(w, "    · %-28s x%-4d venta %10s compra %10s\n",
				trunc(item.ProductoNombre, 28), item.Cantidad,
				item.PrecioVenta.StringFixed(2), item.PrecioCompra.StringFixed(2))
		}
		if motivo := deref(v.MotivoAnulacion); motivo != "" {
			fmt.Fprintf(w, "    anulada: %s\n", motivo)
		}
	}
	pageFooter(w, snap, 84)
}

func printVentaDetalle(w io.Writer, v *api.Venta) {
	fmt.Fprintln(w)
	rule(w, "-", 60)
	fmt.Fprintf(w, "  Venta:    #%d (%s)\n", v.ID, v.TipoVenta)
	fmt.Fprintf(w, "  Cliente:  %s\n", v.ClienteNombre)
	fmt.Fprintf(w, "  Usuario:  %s\n", v.UsuarioNombre)
	fmt.Fprintf(w, "  Fecha:    %s\n", v.FechaRegistro)
	rule(w, "-", 60)
	for _, d := range v.Detalles {
		fmt.Fprintf(w, "  %-32s x%-4d %12s\n", trunc(d.Producto, 32), d.Cantidad, d.Subtotal.StringFixed(2))
	}
	rule(w, "-", 60)
	fmt.Fprintf(w, "  %-38s %12s\n", "TOTAL", v.Total.StringFixed(2))
	rule(w, "-", 60)
}

func printMovimientosCapital(w io.Writer, snap app.Snapshot[api.CapitalMovimiento]) {
	fmt.Fprintln(w)
	rule(w, "=", 84)
	fmt.Fprintln(w, "  MOVIMIENTOS DE CAPITAL")
	rule(w, "=", 84)
	if len(snap.Items) == 0 {
		fmt.Fprintln(w, "  No hay movimientos.")
		rule(w, "=", 84)
		return
	}
	fmt.Fprintf(w, "  %-6s %-10s %-7s %12s %-8s %-14s %s\n", "ID", "ORIGEN", "REF", "MONTO", "CRÉDITO", "USUARIO", "DESCRIPCIÓN")
	rule(w, "-", 84)
	for _, m := range snap.Items {
		ref := "-"
		if m.ReferenciaID != nil {
			ref = fmt.Sprintf("%d", *m.ReferenciaID)
		}
		credito := "no"
		if m.EsCredito {
			credito = "sí"
		}
		fmt.Fprintf(w, "  %-6d %-10s %-7s %12s %-8s %-14s %s\n",
			m.ID, m.Origen, ref, m.Monto.StringFixed(2), credito,
			trunc(m.UsuarioNombre, 14), trunc(deref(m.Descripcion), 22))
	}
	pageFooter(w, snap, 84)
}

// shareBar renders cumulative participation segments as a fixed-width bar,
// one glyph run per segment.
func shareBar(segments []core.ShareSegment, width int) string {
	glyphs := []rune{'█', '▓', '▒', '░'}
	var b strings.Builder
	for i, seg := range segments {
		n := int(seg.End*float64(width)/100+0.5) - int(seg.Start*float64(width)/100+0.5)
		for j := 0; j < n; j++ {
			b.WriteRune(glyphs[i%len(glyphs)])
		}
	}
	return b.String()
}

func printResumenCapital(w io.Writer, r *api.CapitalResumen) {
	fmt.Fprintln(w)
	rule(w, "=", 72)
	fmt.Fprintln(w, "  RESUMEN DE CAPITAL")
	rule(w, "=", 72)
	fmt.Fprintf(w, "  %-26s %14s\n", "Saldo real", r.SaldoReal.StringFixed(2))
	fmt.Fprintf(w, "  %-26s %14s\n", "Entradas", r.TotalEntradas.StringFixed(2))
	fmt.Fprintf(w, "  %-26s %14s\n", "Salidas", r.TotalSalidas.StringFixed(2))
	fmt.Fprintf(w, "  %-26s %14s\n", "Crédito pendiente", r.TotalCreditoPendiente.StringFixed(2))
	fmt.Fprintf(w, "  %-26s %14s\n", "Crédito total", r.TotalCredito.StringFixed(2))
	fmt.Fprintf(w, "  %-26s %14s\n", "Capital neto", r.CapitalNeto.StringFixed(2))
	fmt.Fprintf(w, "  %-26s %14s\n", "Ganancias", r.TotalGanancias.StringFixed(2))
	fmt.Fprintf(w, "  %-26s %14s\n", "Abonos", r.TotalAbonos.StringFixed(2))
	fmt.Fprintf(w, "  %-26s %14d\n", "Unidades vendidas", r.TotalUnidadesVendidas)
	fmt.Fprintf(w, "  %-26s %14d\n", "Cajas vendidas", r.TotalCajasVendidas)

	if len(r.TopProductos) > 0 {
		rule(w, "-", 72)
		fmt.Fprintln(w, "  TOP PRODUCTOS")
		labels := make([]string, len(r.TopProductos))
		shares := make([]float64, len(r.TopProductos))
		for i, p := range r.TopProductos {
			labels[i] = p.ProductoNombre
			shares[i] = p.ParticipacionPorcentaje
		}
		segments := core.ShareSegments(labels, shares)
		fmt.Fprintf(w, "  [%s]\n", shareBar(segments, 50))
		for _, seg := range segments {
			fmt.Fprintf(w, "  %-30s %6.2f%%\n", trunc(seg.Label, 30), seg.Share)
		}
	}
	if len(r.TopClientes) > 0 {
		rule(w, "-", 72)
		fmt.Fprintln(w, "  TOP CLIENTES")
		for _, c := range r.TopClientes {
			fmt.Fprintf(w, "  %-26s %5d venta(s) %12s %6.2f%%\n",
				trunc(c.ClienteNombre, 26), c.TotalVentas, c.MontoComprado.StringFixed(2), c.ParticipacionPorcentaje)
		}
	}
	rule(w, "=", 72)
}

func printCarteraPendientes(w io.Writer, pendientes []api.CarteraResumen) {
	fmt.Fprintln(w)
	rule(w, "=", 80)
	fmt.Fprintln(w, "  CARTERA — SALDOS PENDIENTES")
	rule(w, "=", 80)
	if len(pendientes) == 0 {
		fmt.Fprintln(w, "  No hay saldos pendientes.")
		rule(w, "=", 80)
		return
	}
	fmt.Fprintf(w, "  %-6s %-24s %12s %12s %12s %s\n", "ID", "CLIENTE", "PENDIENTE", "ABONOS", "CRÉDITOS", "ACTUALIZADO")
	rule(w, "-", 80)
	for _, p := range pendientes {
		fmt.Fprintf(w, "  %-6d %-24s %12s %12s %12s %s\n",
			p.ClienteID, trunc(p.ClienteNombre, 24),
			p.SaldoPendiente.StringFixed(2), p.TotalAbonos.StringFixed(2),
			p.TotalCreditos.StringFixed(2), p.UltimaActualizacion)
	}
	rule(w, "=", 80)
}

func printAbonos(w io.Writer, abonos []api.CarteraAbono) {
	fmt.Fprintln(w)
	rule(w, "=", 76)
	fmt.Fprintln(w, "  ABONOS")
	rule(w, "=", 76)
	if len(abonos) == 0 {
		fmt.Fprintln(w, "  No hay abonos registrados.")
		rule(w, "=", 76)
		return
	}
	fmt.Fprintf(w, "  %-6s %12s %-22s %-14s %s\n", "MOV", "MONTO", "FECHA", "USUARIO", "OBSERVACIÓN")
	rule(w, "-", 76)
	for _, a := range abonos {
		fmt.Fprintf(w, "  %-6d %12s %-22s %-14s %s\n",
			a.MovimientoID, a.Monto.StringFixed(2), a.Fecha,
			trunc(a.UsuarioNombre, 14), trunc(deref(a.Observacion), 18))
	}
	rule(w, "=", 76)
}

func printCreditos(w io.Writer, creditos []api.CarteraCredito) {
	fmt.Fprintln(w)
	rule(w, "=", 76)
	fmt.Fprintln(w, "  CRÉDITOS")
	rule(w, "=", 76)
	if len(creditos) == 0 {
		fmt.Fprintln(w, "  No hay créditos registrados.")
		rule(w, "=", 76)
		return
	}
	fmt.Fprintf(w, "  %-6s %-7s %12s %-22s %s\n", "MOV", "VENTA", "MONTO", "FECHA", "USUARIO")
	rule(w, "-", 76)
	for _, c := range creditos {
		fmt.Fprintf(w, "  %-6d %-7d %12s %-22s %s\n",
			c.MovimientoID, c.VentaID, c.Monto.StringFixed(2), c.Fecha, trunc(c.UsuarioNombre, 16))
	}
	rule(w, "=", 76)
}

func printKardex(w io.Writer, snap app.Snapshot[api.KardexMovimiento]) {
	fmt.Fprintln(w)
	rule(w, "=", 84)
	fmt.Fprintln(w, "  KARDEX")
	rule(w, "=", 84)
	if len(snap.Items) == 0 {
		fmt.Fprintln(w, "  No hay movimientos.")
		rule(w, "=", 84)
		return
	}
	fmt.Fprintf(w, "  %-6s %-24s %-9s %8s %-14s %s\n", "ID", "PRODUCTO", "TIPO", "CANT", "USUARIO", "FECHA")
	rule(w, "-", 84)
	for _, k := range snap.Items {
		fmt.Fprintf(w, "  %-6d %-24s %-9s %8d %-14s %s\n",
			k.ID, trunc(k.ProductoNombre, 24), k.Tipo, k.Cantidad,
			trunc(k.UsuarioNombre, 14), k.FechaRegistro)
		if comentario := deref(k.Comentario); comentario != "" {
			fmt.Fprintf(w, "    %s\n", comentario)
		}
	}
	pageFooter(w, snap, 84)
}

func printPendingLines(w io.Writer, lines []core.PendingLine, total string) {
	fmt.Fprintln(w)
	rule(w, "-", 68)
	if len(lines) == 0 {
		fmt.Fprintln(w, "  La lista está vacía.")
		rule(w, "-", 68)
		return
	}
	fmt.Fprintf(w, "  %-3s %-24s %-8s %8s %12s\n", "#", "PRODUCTO", "PRECIO", "CANT", "SUBTOTAL")
	rule(w, "-", 68)
	for i, l := range lines {
		fmt.Fprintf(w, "  %-3d %-24s #%-7d %8d %12s\n",
			i+1, trunc(l.ProductoNombre, 24), l.PrecioID, l.Cantidad, l.Subtotal.StringFixed(2))
	}
	rule(w, "-", 68)
	fmt.Fprintf(w, "  %-45s %12s\n", "TOTAL", total)
	rule(w, "-", 68)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "SICOIL — COMANDOS")
	rule(w, "=", 70)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  SESIÓN")
	fmt.Fprintln(w, "  /login                       Iniciar sesión")
	fmt.Fprintln(w, "  /registro                    Crear una cuenta nueva (diálogo)")
	fmt.Fprintln(w, "  /logout                      Cerrar sesión")
	fmt.Fprintln(w, "  /quien                       Usuario actual")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PRODUCTOS")
	fmt.Fprintln(w, "  /productos [term] [page=N]   Listado agrupado con variantes")
	fmt.Fprintln(w, "  /nuevo-producto              Registrar producto (diálogo)")
	fmt.Fprintln(w, "  /editar-producto <nombre>    Cambiar nombre / cajas (diálogo)")
	fmt.Fprintln(w, "  /ingreso                     Ingreso de stock en lote (diálogo)")
	fmt.Fprintln(w, "  /salida <precio-id>          Salida de stock (diálogo)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  CLIENTES")
	fmt.Fprintln(w, "  /clientes [term]             Listado")
	fmt.Fprintln(w, "  /nuevo-cliente               Registrar cliente (diálogo)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  VENTAS")
	fmt.Fprintln(w, "  /ventas [k=v ...]            page, cliente, usuario, tipo,")
	fmt.Fprintln(w, "                               estado=activas|anuladas, desde, hasta")
	fmt.Fprintln(w, "  /nueva-venta                 Registrar venta (diálogo)")
	fmt.Fprintln(w, "  /anular <venta-id>           Anular venta (diálogo)")
	fmt.Fprintln(w, "  /comprobante <venta-id>      Descargar comprobante a un archivo")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  CAPITAL")
	fmt.Fprintln(w, "  /capital [k=v ...]           page, origen, credito, ref, desc, desde, hasta")
	fmt.Fprintln(w, "  /resumen [desde=] [hasta=]   Resumen con top productos/clientes")
	fmt.Fprintln(w, "  /inyeccion                   Registrar inyección (diálogo)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  CARTERA")
	fmt.Fprintln(w, "  /cartera [cliente=]          Saldos pendientes")
	fmt.Fprintln(w, "  /abonos <cliente-id>         Historial de abonos")
	fmt.Fprintln(w, "  /creditos <cliente-id>       Historial de créditos")
	fmt.Fprintln(w, "  /abonar <cliente-id>         Registrar abono (diálogo)")
	fmt.Fprintln(w, "  /eliminar-abono <cid> <mov>  Eliminar abono (diálogo)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  KARDEX")
	fmt.Fprintln(w, "  /kardex [k=v ...]            page, producto, tipo, desde, hasta")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  /help  /exit")
	rule(w, "=", 70)
}
