package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sicoil-cli/internal/api"
)

func newTestClient(t *testing.T, handler http.Handler) (*api.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := api.NewClient(server.URL+"/api", server.URL+"/auth", nil)
	require.NoError(t, err)
	return client, server
}

func TestClient_LoginSharesSessionCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "admin", req.Usuario)
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc123", Path: "/"})
		json.NewEncoder(w).Encode(api.LoginResponse{ID: 7, Usuario: "admin"})
	})
	mux.HandleFunc("/api/clientes", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("JSESSIONID")
		require.NoError(t, err, "session cookie must ride along on API calls")
		assert.Equal(t, "abc123", cookie.Value)
		fmt.Fprint(w, "[]")
	})
	client, _ := newTestClient(t, mux)

	resp, err := client.Login(context.Background(), api.LoginRequest{Usuario: "admin", Contrasena: "secreto"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)

	_, err = client.ListarClientes(context.Background(), "")
	require.NoError(t, err)
}

func TestClient_RequestHeaders(t *testing.T) {
	var gotRequestID, gotAccept, gotContentType string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/clientes", func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":1,"nombre":"Taller"}`)
	})
	client, _ := newTestClient(t, mux)

	_, err := client.CrearCliente(context.Background(), api.ClienteRequest{Nombre: "Taller"})
	require.NoError(t, err)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "application/json", gotContentType)
}

func TestClient_UnauthorizedFiresHook(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ventas", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"sesión expirada"}`)
	})
	client, _ := newTestClient(t, mux)

	fired := 0
	client.OnUnauthorized(func() { fired++ })

	_, err := client.ListarVentas(context.Background(), api.VentaFiltro{})
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.Equal(t, 1, fired)
}

func TestClient_LoginRejectionDoesNotFireHook(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"credenciales inválidas"}`)
	})
	client, _ := newTestClient(t, mux)

	fired := 0
	client.OnUnauthorized(func() { fired++ })

	_, err := client.Login(context.Background(), api.LoginRequest{Usuario: "x", Contrasena: "y"})
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err), "the caller still sees the 401")
	assert.Equal(t, 0, fired, "bad credentials must not clear the session")
}

func TestClient_ErrorMessageDecoding(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		wantMsg string
	}{
		{"message envelope", `{"message":"stock insuficiente"}`, http.StatusConflict, "stock insuficiente"},
		{"error envelope", `{"error":"producto duplicado"}`, http.StatusBadRequest, "producto duplicado"},
		{"plain text", "Bad Gateway\n", http.StatusBadGateway, "Bad Gateway"},
		{"empty body", "", http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			_, err := client.ListarClientes(context.Background(), "")
			require.Error(t, err)
			var apiErr *api.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestClient_QueryParams(t *testing.T) {
	var got map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ventas", func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		fmt.Fprint(w, `{"content":[],"totalElements":0,"totalPages":0,"page":0,"size":10}`)
	})
	client, _ := newTestClient(t, mux)

	activa := true
	_, err := client.ListarVentas(context.Background(), api.VentaFiltro{
		Page:          2,
		TipoVenta:     api.VentaCredito,
		NombreCliente: "Norte",
		Activa:        &activa,
		Desde:         "2026-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, got["page"])
	assert.Equal(t, []string{"10"}, got["size"], "zero size falls back to the default")
	assert.Equal(t, []string{"CREDITO"}, got["tipoVenta"])
	assert.Equal(t, []string{"Norte"}, got["nombreCliente"])
	assert.Equal(t, []string{"true"}, got["activa"])
	assert.Equal(t, []string{"2026-01-01"}, got["desde"])
	assert.NotContains(t, got, "hasta")
}

func TestPage_AcceptsBothIndexSpellings(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/productos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content":[{"nombre":"Aceite","stockTotal":5,"cantidadPorCajas":12,"variantes":[]}],"totalElements":31,"totalPages":4,"page":3,"size":10}`)
	})
	mux.HandleFunc("/api/kardex", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content":[],"totalElements":0,"totalPages":0,"number":2,"size":20}`)
	})
	client, _ := newTestClient(t, mux)

	productos, err := client.ListarProductos(context.Background(), api.ProductoFiltro{})
	require.NoError(t, err)
	assert.Equal(t, 3, productos.Number)
	assert.Equal(t, int64(31), productos.TotalElements)
	require.Len(t, productos.Content, 1)
	assert.Equal(t, "Aceite", productos.Content[0].Nombre)

	kardex, err := client.ListarKardex(context.Background(), api.KardexFiltro{})
	require.NoError(t, err)
	assert.Equal(t, 2, kardex.Number)
}

func TestClient_DescargarComprobante(t *testing.T) {
	pdf := []byte("%PDF-1.4 contenido")
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ventas/42/comprobante", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	})
	client, _ := newTestClient(t, mux)

	data, err := client.DescargarComprobante(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, pdf, data)
}

func TestClient_EmptyWriteReply(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ventas/9/anular", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	client, _ := newTestClient(t, mux)

	_, err := client.AnularVenta(context.Background(), 9, api.VentaAnulacionRequest{Motivo: "duplicada"})
	require.NoError(t, err)
}

func TestClient_ActualizarProductoBoolReply(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/productos/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/productos/Aceite%2020W50", r.URL.EscapedPath())
		fmt.Fprint(w, "true")
	})
	client, _ := newTestClient(t, mux)

	ok, err := client.ActualizarProducto(context.Background(), "Aceite 20W50", api.ProductoActualizarRequest{
		Nombre:           "Aceite 20W-50",
		CantidadPorCajas: 12,
	})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestClient_CrearUsuario(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/usuarios", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req api.UsuarioRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "vendedor", req.Usuario)
		assert.Equal(t, "secreto1", req.Contrasena)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":7,"usuario":"vendedor"}`)
	})
	client, _ := newTestClient(t, mux)

	u, err := client.CrearUsuario(context.Background(), api.UsuarioRequest{Usuario: "vendedor", Contrasena: "secreto1"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "vendedor", u.Usuario)
}
