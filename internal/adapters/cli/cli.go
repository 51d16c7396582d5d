// Package cli exposes a one-shot command surface for scripting: each
// subcommand logs in against the persisted session, performs one request and
// prints a plain table.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"sicoil-cli/internal/api"
	"sicoil-cli/internal/session"
)

type Deps struct {
	API      *api.Client
	Session  *session.Store
	Log      *logrus.Logger
	In       io.Reader
	Out      io.Writer
	PageSize int
}

var errNoSession = errors.New("no hay sesión activa: ejecuta `sicoil login` primero")

func (d Deps) requireSession() error {
	if !d.Session.Authenticated() {
		return errNoSession
	}
	return nil
}

// Commands returns the one-shot subcommands mounted on the root app.
func Commands(d Deps) []*cli.Command {
	return []*cli.Command{
		loginCommand(d),
		logoutCommand(d),
		productosCommand(d),
		ventasCommand(d),
		resumenCommand(d),
		comprobanteCommand(d),
	}
}

func loginCommand(d Deps) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "inicia sesión y guarda el marcador local",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "usuario", Aliases: []string{"u"}},
			&cli.StringFlag{Name: "contrasena", Aliases: []string{"p"}},
		},
		Action: func(c *cli.Context) error {
			usuario := c.String("usuario")
			contrasena := c.String("contrasena")
			in := bufio.NewReader(d.In)
			if usuario == "" {
				fmt.Fprint(d.Out, "Usuario: ")
				line, err := in.ReadString('\n')
				if err != nil && strings.TrimSpace(line) == "" {
					return err
				}
				usuario = strings.TrimSpace(line)
			}
			if contrasena == "" {
				fmt.Fprint(d.Out, "Contraseña: ")
				line, err := in.ReadString('\n')
				if err != nil && strings.TrimSpace(line) == "" {
					return err
				}
				contrasena = strings.TrimSpace(line)
			}
			resp, err := d.API.Login(c.Context, api.LoginRequest{Usuario: usuario, Contrasena: contrasena})
			if err != nil {
				return fmt.Errorf("inicio de sesión: %w", err)
			}
			if err := d.Session.Set(session.Usuario{ID: resp.ID, Usuario: resp.Usuario}); err != nil {
				return fmt.Errorf("guardando la sesión: %w", err)
			}
			fmt.Fprintf(d.Out, "Sesión iniciada como %s.\n", resp.Usuario)
			return nil
		},
	}
}

func logoutCommand(d Deps) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "cierra la sesión y borra el marcador local",
		Action: func(c *cli.Context) error {
			if err := d.API.Logout(c.Context); err != nil && !api.IsUnauthorized(err) {
				d.Log.WithError(err).Warn("logout request failed")
			}
			d.Session.Clear()
			fmt.Fprintln(d.Out, "Sesión cerrada.")
			return nil
		},
	}
}

func productosCommand(d Deps) *cli.Command {
	return &cli.Command{
		Name:  "productos",
		Usage: "lista los productos agrupados con sus variantes de precio",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "nombre"},
			&cli.IntFlag{Name: "page"},
		},
		Action: func(c *cli.Context) error {
			if err := d.requireSession(); err != nil {
				return err
			}
			page, err := d.API.ListarProductos(c.Context, api.ProductoFiltro{
				Nombre: c.String("nombre"),
				Page:   c.Int("page"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(d.Out, strings.Repeat("=", 64))
			fmt.Fprintf(d.Out, "%-30s %10s %8s\n", "NOMBRE", "STOCK", "X CAJA")
			fmt.Fprintln(d.Out, strings.Repeat("-", 64))
			for _, p := range page.Content {
				fmt.Fprintf(d.Out, "%-30s %10d %8d\n", p.Nombre, p.StockTotal, p.CantidadPorCajas)
				for _, v := range p.Variantes {
					fmt.Fprintf(d.Out, "  precio #%-5d compra %10s stock %d\n", v.ID, v.PrecioCompra.StringFixed(2), v.Stock)
				}
			}
			fmt.Fprintln(d.Out, strings.Repeat("-", 64))
			fmt.Fprintf(d.Out, "página %d de %d, %d registro(s)\n", page.Number+1, page.TotalPages, page.TotalElements)
			return nil
		},
	}
}

func ventasCommand(d Deps) *cli.Command {
	return &cli.Command{
		Name:  "ventas",
		Usage: "lista ventas con sus artículos",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "cliente"},
			&cli.StringFlag{Name: "tipo", Usage: "CONTADO o CREDITO"},
			&cli.StringFlag{Name: "estado", Usage: "activas o anuladas"},
			&cli.StringFlag{Name: "desde"},
			&cli.StringFlag{Name: "hasta"},
			&cli.IntFlag{Name: "page"},
		},
		Action: func(c *cli.Context) error {
			if err := d.requireSession(); err != nil {
				return err
			}
			filtro := api.VentaFiltro{
				Size:          d.PageSize,
				Page:          c.Int("page"),
				TipoVenta:     api.TipoVenta(strings.ToUpper(c.String("tipo"))),
				NombreCliente: c.String("cliente"),
				Desde:         c.String("desde"),
				Hasta:         c.String("hasta"),
			}
			switch c.String("estado") {
			case "activas":
				activa := true
				filtro.Activa = &activa
			case "anuladas":
				activa := false
				filtro.Activa = &activa
			}
			page, err := d.API.ListarVentas(c.Context, filtro)
			if err != nil {
				return err
			}
			fmt.Fprintln(d.Out, strings.Repeat("=", 76))
			fmt.Fprintf(d.Out, "%-6s %-22s %-9s %-8s %12s %s\n", "ID", "CLIENTE", "TIPO", "ESTADO", "TOTAL", "FECHA")
			fmt.Fprintln(d.Out, strings.Repeat("-", 76))
			for _, v := range page.Content {
				estado := "activa"
				if !v.Activa {
					estado = "anulada"
				}
				fmt.Fprintf(d.Out, "%-6d %-22s %-9s %-8s %12s %s\n",
					v.VentaID, v.ClienteNombre, v.TipoVenta, estado, v.TotalVenta.StringFixed(2), v.FechaRegistro)
			}
			fmt.Fprintln(d.Out, strings.Repeat("-", 76))
			fmt.Fprintf(d.Out, "página %d de %d, %d registro(s)\n", page.Number+1, page.TotalPages, page.TotalElements)
			return nil
		},
	}
}

func resumenCommand(d Deps) *cli.Command {
	return &cli.Command{
		Name:  "resumen",
		Usage: "imprime el resumen de capital",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "desde"},
			&cli.StringFlag{Name: "hasta"},
		},
		Action: func(c *cli.Context) error {
			if err := d.requireSession(); err != nil {
				return err
			}
			r, err := d.API.ObtenerResumenCapital(c.Context, api.CapitalResumenFiltro{
				Desde: c.String("desde"),
				Hasta: c.String("hasta"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(d.Out, strings.Repeat("=", 46))
			fmt.Fprintf(d.Out, "%-26s %14s\n", "Saldo real", r.SaldoReal.StringFixed(2))
			fmt.Fprintf(d.Out, "%-26s %14s\n", "Entradas", r.TotalEntradas.StringFixed(2))
			fmt.Fprintf(d.Out, "%-26s %14s\n", "Salidas", r.TotalSalidas.StringFixed(2))
			fmt.Fprintf(d.Out, "%-26s %14s\n", "Crédito pendiente", r.TotalCreditoPendiente.StringFixed(2))
			fmt.Fprintf(d.Out, "%-26s %14s\n", "Capital neto", r.CapitalNeto.StringFixed(2))
			fmt.Fprintf(d.Out, "%-26s %14s\n", "Ganancias", r.TotalGanancias.StringFixed(2))
			fmt.Fprintln(d.Out, strings.Repeat("=", 46))
			return nil
		},
	}
}

func comprobanteCommand(d Deps) *cli.Command {
	return &cli.Command{
		Name:      "comprobante",
		Usage:     "descarga el comprobante de una venta",
		ArgsUsage: "<venta-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "salida", Aliases: []string{"o"}, Usage: "archivo de destino"},
		},
		Action: func(c *cli.Context) error {
			if err := d.requireSession(); err != nil {
				return err
			}
			ventaID, err := strconv.ParseInt(c.Args().First(), 10, 64)
			if err != nil {
				return fmt.Errorf("se espera un id de venta numérico, recibí %q", c.Args().First())
			}
			data, err := d.API.DescargarComprobante(c.Context, ventaID)
			if err != nil {
				return err
			}
			archivo := c.String("salida")
			if archivo == "" {
				archivo = fmt.Sprintf("venta-%d.pdf", ventaID)
			}
			if err := os.WriteFile(archivo, data, 0o644); err != nil {
				return fmt.Errorf("guardando el comprobante: %w", err)
			}
			fmt.Fprintf(d.Out, "Comprobante guardado en %s (%d bytes).\n", archivo, len(data))
			return nil
		},
	}
}
