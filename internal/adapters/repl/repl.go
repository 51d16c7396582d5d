package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"sicoil-cli/internal/api"
	"sicoil-cli/internal/app"
	"sicoil-cli/internal/core"
	"sicoil-cli/internal/session"
)

// REPL is the interactive shell over the SICOIL backend. One controller per
// paginated resource keeps the last filter so follow-up page commands reuse
// it.
type REPL struct {
	api      *api.Client
	session  *session.Store
	log      *logrus.Logger
	in       *bufio.Reader
	out      io.Writer
	pageSize int

	productos *app.ListController[api.ProductoFiltro, api.ProductoAgrupado]
	ventas    *app.ListController[api.VentaFiltro, api.VentaListado]
	capital   *app.ListController[api.CapitalMovimientoFiltro, api.CapitalMovimiento]
	kardex    *app.ListController[api.KardexFiltro, api.KardexMovimiento]
}

func New(client *api.Client, store *session.Store, log *logrus.Logger, in io.Reader, out io.Writer, pageSize int) *REPL {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &REPL{
		api:       client,
		session:   store,
		log:       log,
		in:        bufio.NewReader(in),
		out:       out,
		pageSize:  pageSize,
		productos: app.NewListController(client.ListarProductos, log),
		ventas:    app.NewListController(client.ListarVentas, log),
		capital:   app.NewListController(client.ListarMovimientosCapital, log),
		kardex:    app.NewListController(client.ListarKardex, log),
	}
}

// Run reads commands until /exit or EOF.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "SICOIL — escribe /help para ver los comandos")
	for {
		fmt.Fprintf(r.out, "\n%s> ", r.promptLabel())
		line, err := r.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			if err != nil {
				fmt.Fprintln(r.out)
				return nil
			}
			continue
		}

		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]
		if cmd == "/exit" || cmd == "/salir" {
			fmt.Fprintln(r.out, "Hasta luego.")
			return nil
		}
		if cmdErr := r.dispatch(ctx, cmd, args); cmdErr != nil {
			r.printError(cmdErr)
		}
		if err != nil {
			fmt.Fprintln(r.out)
			return nil
		}
	}
}

func (r *REPL) promptLabel() string {
	if u := r.session.Current(); u != nil {
		return u.Usuario
	}
	return "sicoil"
}

func (r *REPL) printError(err error) {
	if api.IsUnauthorized(err) {
		fmt.Fprintln(r.out, "✗ Sesión expirada. Usa /login para entrar de nuevo.")
		return
	}
	fmt.Fprintf(r.out, "✗ %v\n", err)
}

// ensureAuth redirects to the login dialog when there is no session. It
// reports whether the caller may proceed.
func (r *REPL) ensureAuth(ctx context.Context) bool {
	if r.session.Authenticated() {
		return true
	}
	fmt.Fprintln(r.out, "Necesitas iniciar sesión.")
	if err := r.login(ctx); err != nil {
		r.printError(err)
	}
	return r.session.Authenticated()
}

func (r *REPL) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "/help", "/ayuda":
		printHelp(r.out)
		return nil
	case "/login":
		return r.login(ctx)
	case "/registro":
		return r.cmdRegistro(ctx)
	case "/quien":
		if u := r.session.Current(); u != nil {
			fmt.Fprintf(r.out, "Sesión de %s (id %d)\n", u.Usuario, u.ID)
		} else {
			fmt.Fprintln(r.out, "Sin sesión activa.")
		}
		return nil
	}

	if _, known := protectedCommands[cmd]; !known {
		fmt.Fprintf(r.out, "Comando desconocido: %s (usa /help)\n", cmd)
		return nil
	}
	if !r.ensureAuth(ctx) {
		return nil
	}

	switch cmd {
	case "/logout":
		return r.logout(ctx)
	case "/productos":
		return r.cmdProductos(ctx, args)
	case "/nuevo-producto":
		return r.cmdNuevoProducto(ctx)
	case "/editar-producto":
		return r.cmdEditarProducto(ctx, args)
	case "/ingreso":
		return r.cmdIngreso(ctx)
	case "/salida":
		return r.cmdSalida(ctx, args)
	case "/clientes":
		return r.cmdClientes(ctx, args)
	case "/nuevo-cliente":
		return r.cmdNuevoCliente(ctx)
	case "/ventas":
		return r.cmdVentas(ctx, args)
	case "/nueva-venta":
		return r.cmdNuevaVenta(ctx)
	case "/anular":
		return r.cmdAnular(ctx, args)
	case "/comprobante":
		return r.cmdComprobante(ctx, args)
	case "/capital":
		return r.cmdCapital(ctx, args)
	case "/resumen":
		return r.cmdResumen(ctx, args)
	case "/inyeccion":
		return r.cmdInyeccion(ctx)
	case "/cartera":
		return r.cmdCartera(ctx, args)
	case "/abonos":
		return r.cmdAbonos(ctx, args)
	case "/creditos":
		return r.cmdCreditos(ctx, args)
	case "/abonar":
		return r.cmdAbonar(ctx, args)
	case "/eliminar-abono":
		return r.cmdEliminarAbono(ctx, args)
	case "/kardex":
		return r.cmdKardex(ctx, args)
	}
	return nil
}

var protectedCommands = map[string]struct{}{
	"/logout": {}, "/productos": {}, "/nuevo-producto": {}, "/editar-producto": {},
	"/ingreso": {}, "/salida": {}, "/clientes": {}, "/nuevo-cliente": {},
	"/ventas": {}, "/nueva-venta": {}, "/anular": {}, "/comprobante": {},
	"/capital": {}, "/resumen": {}, "/inyeccion": {}, "/cartera": {},
	"/abonos": {}, "/creditos": {}, "/abonar": {}, "/eliminar-abono": {},
	"/kardex": {},
}

// parseArgs splits key=value tokens from positional ones.
func parseArgs(args []string) (map[string]string, []string) {
	kv := make(map[string]string)
	var rest []string
	for _, a := range args {
		if i := strings.IndexByte(a, '='); i > 0 {
			kv[a[:i]] = a[i+1:]
		} else {
			rest = append(rest, a)
		}
	}
	return kv, rest
}

func argInt64(args []string, pos int) (int64, error) {
	if pos >= len(args) {
		return 0, fmt.Errorf("falta un argumento numérico")
	}
	n, err := strconv.ParseInt(args[pos], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("argumento inválido %q: se espera un número", args[pos])
	}
	return n, nil
}

// showList runs one synchronous search against a controller and renders the
// outcome.
func showList[F, T any](ctx context.Context, out io.Writer, ctrl *app.ListController[F, T], filtro F, render func(io.Writer, app.Snapshot[T])) error {
	<-ctrl.Search(ctx, filtro)
	snap := ctrl.Snapshot()
	if snap.State == app.StateError {
		return snap.Err
	}
	render(out, snap)
	return nil
}

// ── Sesión ──

func (r *REPL) login(ctx context.Context) error {
	fmt.Fprintln(r.out, "\nINICIAR SESIÓN (escribe \"cancelar\" para salir)")
	usuario, ok := prompt(r.in, r.out, "Usuario: ")
	if !ok {
		return nil
	}
	contrasena, ok := prompt(r.in, r.out, "Contraseña: ")
	if !ok {
		return nil
	}
	resp, err := r.api.Login(ctx, api.LoginRequest{Usuario: usuario, Contrasena: contrasena})
	if err != nil {
		return fmt.Errorf("inicio de sesión: %w", err)
	}
	if err := r.session.Set(session.Usuario{ID: resp.ID, Usuario: resp.Usuario}); err != nil {
		return fmt.Errorf("guardando la sesión: %w", err)
	}
	fmt.Fprintf(r.out, "Bienvenido, %s.\n", resp.Usuario)
	return nil
}

// cmdRegistro creates an account. Registration is for new users only; with a
// session active it points at the current one instead.
func (r *REPL) cmdRegistro(ctx context.Context) error {
	if u := r.session.Current(); u != nil {
		fmt.Fprintf(r.out, "Ya tienes una sesión activa como %s. Usa /logout primero.\n", u.Usuario)
		return nil
	}
	req, ok := userWizard(r.in, r.out)
	if !ok {
		fmt.Fprintln(r.out, "Cancelado.")
		return nil
	}
	u, err := r.api.CrearUsuario(ctx, *req)
	if err != nil {
		return fmt.Errorf("creando el usuario: %w", err)
	}
	fmt.Fprintf(r.out, "Usuario #%d creado: %s. Usa /login para entrar.\n", u.ID, u.Usuario)
	return nil
}

func (r *REPL) logout(ctx context.Context) error {
	if err := r.api.Logout(ctx); err != nil && !api.IsUnauthorized(err) {
		r.log.WithError(err).Warn("logout request failed")
	}
	r.session.Clear()
	fmt.Fprintln(r.out, "Sesión cerrada.")
	return nil
}

// ── Productos ──

func (r *REPL) cmdProductos(ctx context.Context, args []string) error {
	kv, rest := parseArgs(args)
	filtro := api.ProductoFiltro{Nombre: kv["nombre"]}
	if filtro.Nombre == "" && len(rest) > 0 {
		filtro.Nombre = strings.Join(rest, " ")
	}
	if page, err := strconv.Atoi(kv["page"]); err == nil {
		filtro.Page = page
	}
	return showList(ctx, r.out, r.productos, filtro, printProductos)
}

func (r *REPL) cmdNuevoProducto(ctx context.Context) error {
	req, ok := productWizard(r.in, r.out)
	if !ok {
		fmt.Fprintln(r.out, "Cancelado.")
		return nil
	}
	p, err := r.api.CrearProducto(ctx, *req)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Producto #%d registrado: %s\n", p.ID, p.Nombre)
	return nil
}

func (r *REPL) cmdEditarProducto(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "Uso: /editar-producto <nombre>")
		return nil
	}
	nombre := strings.Join(args, " ")
	req, ok := editProductWizard(r.in, r.out, nombre)
	if !ok {
		fmt.Fprintln(r.out, "Cancelado.")
		return nil
	}
	actualizado, err := r.api.ActualizarProducto(ctx, nombre, *req)
	if err != nil {
		return err
	}
	if !actualizado {
		fmt.Fprintf(r.out, "No existe un producto llamado %q.\n", nombre)
		return nil
	}
	fmt.Fprintln(r.out, "Producto actualizado.")
	return nil
}

func (r *REPL) cmdIngreso(ctx context.Context) error {
	exists := func(nombre string) (bool, error) {
		page, err := r.api.ListarProductos(ctx, api.ProductoFiltro{Nombre: nombre, Size: 5})
		if err != nil {
			return false, err
		}
		for _, p := range page.Content {
			if strings.EqualFold(p.Nombre, nombre) {
				return true, nil
			}
		}
		return false, nil
	}
	lineas, ok := stockEntryWizard(r.in, r.out, exists)
	if !ok {
		fmt.Fprintln(r.out, "Cancelado.")
		return nil
	}
	actualizados, err := r.api.RegistrarIngresos(ctx, lineas)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Ingreso registrado: %d producto(s) afectado(s).\n", len(actualizados))
	return nil
}

func (r *REPL) cmdSalida(ctx context.Context, args []string) error {
	precioID, err := argInt64(args, 0)
	if err != nil {
		fmt.Fprintln(r.out, "Uso: /salida <precio-id>")
		return nil
	}
	req, ok := removeStockWizard(r.in, r.out)
	if !ok {
		fmt.Fprintln(r.out, "Cancelado.")
		return nil
	}
	p, err := r.api.EliminarStock(ctx, precioID, *req)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Salida registrada. %s queda con stock %d en ese precio.\n", p.Nombre, p.Stock)
	return nil
}

// ── Clientes ──

func (r *REPL) cmdClientes(ctx context.Context, args []string) error {
	clientes, err := r.api.ListarClientes(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	printClientes(r.out, clientes)
	return nil
}

func (r *REPL) cmdNuevoCliente(ctx context.Context) error {
	req, ok := clientWizard(r.in, r.out)
	if !ok {
		fmt.Fprintln(r.out, "Cancelado.")
		return nil
	}
	c, err := r.api.CrearCliente(ctx, *req)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Cliente #%d registrado: %s\n", c.ID, c.Nombre)
	return nil
}

// ── Ventas ──

func (r *REPL) cmdVentas(ctx context.Context, args []string) error {
	kv, _ := parseArgs(args)
	filtro := api.VentaFiltro{
		Size:          r.pageSize,
		TipoVenta:     api.TipoVenta(strings.ToUpper(kv["tipo"])),
		NombreCliente: kv["cliente"],
		NombreUsuario: kv["usuario"],
		Desde:         kv["desde"],
		Hasta:         kv["hasta"],
	}
	if page, err := strconv.Atoi(kv["page"]); err == nil {
		filtro.Page = page
	}
	switch kv["estado"] {
	case "activas":
		activa := true
		filtro.Activa = &activa
	case "anuladas":
		activa := false
		filtro.Activa = &activa
	}
	return showList(ctx, r.out, r.ventas, filtro, printVentas)
}

// loadCatalog pulls the sale catalog, retrying once when the first attempt
// fails.
func (r *REPL) loadCatalog(ctx context.Context) (*core.Catalogo, error) {
	filtros, err := r.api.ObtenerFiltros(ctx)
	if err != nil {
		r.log.WithError(err).Warn("catalog fetch failed, retrying")
		filtros, err = r.api.ObtenerFiltros(ctx)
		if err != nil {
			return nil, fmt.Errorf("cargando el catálogo de venta: %w", err)
		}
	}
	return core.NewCatalogo(filtros), nil
}

func (r *REPL) cmdNuevaVenta(ctx context.Context) error {
	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return err
	}
	req, ok := saleWizard(r.in, r.out, catalog)
	if !ok {
		fmt.Fprintln(r.out, "Cancelado.")
		return nil
	}
	venta, err := r.api.CrearVenta(ctx, *req)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Venta #%d registrada.\n", venta.ID)
	printVentaDetalle(r.out, venta)
	return nil
}

func (r *REPL) cmdAnular(ctx context.Context, args []string) error {
	ventaID, err := argInt64(args, 0)
	if err != nil {
		fmt.Fprintln(r.out, "Uso: /anular <venta-id>")
		return nil
	}
	req, ok := annulWizard(r.in, r.out, ventaID)
	if !ok {
		fmt.Fprintln(r.out, "Cancelado.")
		return nil
	}
	venta, err := r.api.AnularVenta(ctx, ventaID, *req)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Venta #%d anulada.\n", venta.ID)
	return nil
}

func (r *REPL) cmdComprobante(ctx context.Context, args []string) error {
	ventaID, err := argInt64(args, 0)
	if err != nil {
		fmt.Fprintln(r.out, "Uso: /comprobante <venta-id> [archivo]")
		return nil
	}
	archivo := fmt.Sprintf("venta-%d.pdf", ventaID)
	if len(args) > 1 {
		archivo = args[1]
	}
	data, err := r.api.DescargarComprobante(ctx, ventaID)
	if err != nil {
		return err
	}
	if err := os.WriteFile(archivo, data, 0o644); err != nil {
		return fmt.Errorf("guardando el comprobante: %w", err)
	}
	fmt.Fprintf(r.out, "Comprobante guardado en %s (%d bytes).\n", archivo, len(data))
	return nil
}

// ── Capital ──

func (r *REPL) cmdCapital(ctx context.Context, args []string) error {
	kv, _ := parseArgs(args)
	filtro := api.CapitalMovimientoFiltro{
		Size:        r.pageSize,
		Origen:      api.CapitalOrigen(strings.ToUpper(kv["origen"])),
		Descripcion: kv["desc"],
		Desde:       kv["desde"],
		Hasta:       kv["hasta"],
	}
	if page, err := strconv.Atoi(kv["page"]); err == nil {
		filtro.Page = page
	}
	if ref, err := strconv.ParseInt(kv["ref"], 10, 64); err == nil {
		filtro.ReferenciaID = ref
	}
	switch kv["credito"] {
	case "si", "sí":
		credito := true
		filtro.EsCredito = &credito
	case "no":
		credito := false
		filtro.EsCredito = &credito
	}
	return showList(ctx, r.out, r.capital, filtro, printMovimientosCapital)
}

func (r *REPL) cmdResumen(ctx context.Context, args []string) error {
	kv, _ := parseArgs(args)
	resumen, err := r.api.ObtenerResumenCapital(ctx, api.CapitalResumenFiltro{Desde: kv["desde"], Hasta: kv["hasta"]})
	if err != nil {
		return err
	}
	printResumenCapital(r.out, resumen)
	return nil
}

func (r *REPL) cmdInyeccion(ctx context.Context) error {
	req, ok := injectionWizard(r.in, r.out)
	if !ok {
		fmt.Fprintln(r.out, "Cancelado.")
		return nil
	}
	mov, err := r.api.RegistrarInyeccion(ctx, *req)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Inyección registrada (movimiento #%d).\n", mov.ID)
	return nil
}

// ── Cartera ──

func (r *REPL) cmdCartera(ctx context.Context, args []string) error {
	kv, _ := parseArgs(args)
	pendientes, err := r.api.ListarPendientes(ctx, api.CarteraPendienteFiltro{
		Cliente: kv["cliente"],
		Desde:   kv["desde"],
		Hasta:   kv["hasta"],
	})
	if err != nil {
		return err
	}
	printCarteraPendientes(r.out, pendientes)
	return nil
}

func (r *REPL) cmdAbonos(ctx context.Context, args []string) error {
	clienteID, err := argInt64(args, 0)
	if err != nil {
		fmt.Fprintln(r.out, "Uso: /abonos <cliente-id> [desde=] [hasta=]")
		return nil
	}
	kv, _ := parseArgs(args[1:])
	abonos, err := r.api.ListarAbonos(ctx, clienteID, api.CarteraFechaFiltro{Desde: kv["desde"], Hasta: kv["hasta"]})
	if err != nil {
		return err
	}
	printAbonos(r.out, abonos)
	return nil
}

func (r *REPL) cmdCreditos(ctx context.Context, args []string) error {
	clienteID, err := argInt64(args, 0)
	if err != nil {
		fmt.Fprintln(r.out, "Uso: /creditos <cliente-id> [desde=] [hasta=]")
		return nil
	}
	kv, _ := parseArgs(args[1:])
	creditos, err := r.api.ListarCreditos(ctx, clienteID, api.CarteraFechaFiltro{Desde: kv["desde"], Hasta: kv["hasta"]})
	if err != nil {
		return err
	}
	printCreditos(r.out, creditos)
	return nil
}

func (r *REPL) cmdAbonar(ctx context.Context, args []string) error {
	clienteID, err := argInt64(args, 0)
	if err != nil {
		fmt.Fprintln(r.out, "Uso: /abonar <cliente-id>")
		return nil
	}
	req, ok := abonoWizard(r.in, r.out, clienteID)
	if !ok {
		fmt.Fprintln(r.out, "Cancelado.")
		return nil
	}
	abonos, err := r.api.RegistrarAbono(ctx, clienteID, *req)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, "Abono registrado.")
	printAbonos(r.out, abonos)
	return nil
}

func (r *REPL) cmdEliminarAbono(ctx context.Context, args []string) error {
	clienteID, err := argInt64(args, 0)
	if err != nil {
		fmt.Fprintln(r.out, "Uso: /eliminar-abono <cliente-id> <movimiento-id>")
		return nil
	}
	movimientoID, err := argInt64(args, 1)
	if err != nil {
		fmt.Fprintln(r.out, "Uso: /eliminar-abono <cliente-id> <movimiento-id>")
		return nil
	}
	req, ok := deleteAbonoWizard(r.in, r.out, movimientoID)
	if !ok {
		fmt.Fprintln(r.out, "Cancelado.")
		return nil
	}
	if err := r.api.EliminarAbono(ctx, clienteID, movimientoID, *req); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "Abono eliminado.")
	return nil
}

// ── Kardex ──

func (r *REPL) cmdKardex(ctx context.Context, args []string) error {
	kv, _ := parseArgs(args)
	filtro := api.KardexFiltro{
		NombreProducto: kv["producto"],
		Tipo:           api.MovimientoTipo(strings.ToUpper(kv["tipo"])),
		Desde:          kv["desde"],
		Hasta:          kv["hasta"],
	}
	if page, err := strconv.Atoi(kv["page"]); err == nil {
		filtro.Page = page
	}
	if id, err := strconv.ParseInt(kv["usuario"], 10, 64); err == nil {
		filtro.UsuarioID = id
	}
	return showList(ctx, r.out, r.kardex, filtro, printKardex)
}
