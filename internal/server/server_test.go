package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventario-backend/internal/config"
	"inventario-backend/internal/inventory"
	"inventario-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestApp(t *testing.T) (*fiber.App, *Deps) {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:       testSecret,
		JWTExpiration:   time.Hour,
		CORSOrigins:     "*",
		DefaultCategory: "Medicamento",
		AlertWindowDays: 30,
		SeedDemoData:    true,
	}
	d, err := Build(cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	d.Users.WithCost(bcrypt.MinCost)
	return New(d), d
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func register(t *testing.T, app *fiber.App, document string, role models.UserRole) string {
	t.Helper()
	status, body := do(t, app, fiber.MethodPost, "/api/auth/register", "", map[string]any{
		"document": document, "name": "Usuario " + document, "password": "clave123", "role": role,
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))

	status, body = do(t, app, fiber.MethodPost, "/api/auth/login", "", map[string]string{
		"document": document, "password": "clave123",
	})
	require.Equal(t, fiber.StatusOK, status, string(body))
	return decode[struct {
		Token string `json:"token"`
	}](t, body).Token
}

func errorMessage(t *testing.T, body []byte) string {
	return decode[map[string]string](t, body)["error"]
}

func TestHealthAndMetrics(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, fiber.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	status, body = do(t, app, fiber.MethodGet, "/metrics", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), "inventario_http_requests_total")
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, fiber.MethodGet, "/api/productos", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.NotEmpty(t, errorMessage(t, body))
}

func TestAuthFlow(t *testing.T) {
	app, _ := newTestApp(t)
	token := register(t, app, "1000", models.RoleAdmin)

	status, body := do(t, app, fiber.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	me := decode[models.User](t, body)
	assert.Equal(t, "1000", me.Document)
	assert.Empty(t, me.PasswordHash)
	assert.Equal(t, 6, me.ID, "ids continue after the seeded users")

	status, _ = do(t, app, fiber.MethodPost, "/api/auth/register", "", map[string]any{
		"document": "2000", "name": "Otro", "password": "x", "role": "admin",
	})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = do(t, app, fiber.MethodPost, "/api/auth/login", "", map[string]string{"document": "1000", "password": "mala"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, fiber.MethodPost, "/api/auth/register", "", map[string]any{
		"document": "1000", "name": "Repetido", "password": "x",
	})
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestProductSearchAndUpdate(t *testing.T) {
	app, _ := newTestApp(t)
	token := register(t, app, "1000", models.RoleUser)

	status, body := do(t, app, fiber.MethodGet, "/api/productos", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]models.Product](t, body), 2)

	status, body = do(t, app, fiber.MethodGet, "/api/productos?q=MATERIAL", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	found := decode[[]models.Product](t, body)
	require.Len(t, found, 1)
	assert.Equal(t, "Producto B", found[0].Name)

	status, body = do(t, app, fiber.MethodPut, "/api/productos/Producto%20A", token, map[string]any{"status": "Inactive"})
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.Equal(t, "Inactive", decode[models.Product](t, body).Status)

	status, _ = do(t, app, fiber.MethodPut, "/api/productos/Nada", token, map[string]any{"status": "Inactive"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = do(t, app, fiber.MethodPost, "/api/productos", token, map[string]any{"category": "Fruta"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, errorMessage(t, body), "name")

	status, _ = do(t, app, fiber.MethodPost, "/api/productos", token, map[string]any{"name": "Producto A"})
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestStockMovements(t *testing.T) {
	app, d := newTestApp(t)
	token := register(t, app, "1000", models.RoleUser)

	status, body := do(t, app, fiber.MethodPost, "/api/movimientos", token, map[string]any{
		"type": "in", "product": "ProdX", "quantity": 10, "expiry": "2025-01-01", "provider": "Juan Pérez",
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	res := decode[inventory.StockResult](t, body)
	assert.True(t, res.Created)
	assert.Equal(t, models.Product{Name: "ProdX", Category: "Medicamento", Stock: 10, Expiry: "2025-01-01", Status: models.StatusActive}, res.Product)
	assert.Equal(t, "Usuario 1000", res.Movement.Responsible)

	status, body = do(t, app, fiber.MethodPost, "/api/movimientos", token, map[string]any{
		"type": "salida", "product": "ProdX", "quantity": 20,
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, errorMessage(t, body), "Disponible: 10")
	p, err := d.Inventory.Product("ProdX")
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock)

	status, _ = do(t, app, fiber.MethodPost, "/api/movimientos", token, map[string]any{"type": "out", "product": "Fantasma", "quantity": 1})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = do(t, app, fiber.MethodPost, "/api/movimientos", token, map[string]any{"type": "ajuste", "product": "ProdX", "quantity": 1})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = do(t, app, fiber.MethodPost, "/api/movimientos", token, map[string]any{"type": "out", "product": "ProdX", "quantity": 4, "reason": "venta"})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	assert.Equal(t, 6, decode[inventory.StockResult](t, body).Product.Stock)

	status, body = do(t, app, fiber.MethodGet, "/api/movimientos?type=out", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]models.Movement](t, body), 1)

	status, body = do(t, app, fiber.MethodGet, "/api/proveedores/0/informe", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[{"name":"ProdX","quantity":10}]`, string(decode[map[string]json.RawMessage](t, body)["products"]))

	status, body = do(t, app, fiber.MethodGet, "/api/reportes?q=salida", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, body), 1)
}

func TestOrdersLifecycle(t *testing.T) {
	app, _ := newTestApp(t)
	token := register(t, app, "1000", models.RoleUser)

	status, body := do(t, app, fiber.MethodPost, "/api/ordenes", token, map[string]any{"product": "Cacao", "quantity": 5})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	order := decode[models.Order](t, body)
	assert.Equal(t, "ORD-003", order.ID)
	assert.Equal(t, models.StatusPending, order.Status)

	status, body = do(t, app, fiber.MethodDelete, "/api/ordenes", token, map[string]any{"keys": []string{"ORD-001", "ORD-003", "ORD-404"}})
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"deleted":2}`, string(body))

	status, body = do(t, app, fiber.MethodDelete, "/api/ordenes", token, map[string]any{"keys": []string{"ORD-001", "ORD-003", "ORD-404"}})
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"deleted":0}`, string(body))

	status, body = do(t, app, fiber.MethodPost, "/api/ordenes", token, map[string]any{"product": "Mora", "quantity": 1})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "ORD-004", decode[models.Order](t, body).ID)

	status, body = do(t, app, fiber.MethodGet, "/api/reportes/historial?accion=delete", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]models.AuditEntry](t, body), 2)
}

func TestProvidersByPosition(t *testing.T) {
	app, _ := newTestApp(t)
	token := register(t, app, "1000", models.RoleUser)

	status, body := do(t, app, fiber.MethodGet, "/api/proveedores?q=garc%C3%ADa", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"index":1`)

	status, body = do(t, app, fiber.MethodPut, "/api/proveedores/1", token, map[string]any{"phone": "555"})
	require.Equal(t, fiber.StatusOK, status, string(body))

	status, _ = do(t, app, fiber.MethodPut, "/api/proveedores/9", token, map[string]any{"phone": "555"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = do(t, app, fiber.MethodDelete, "/api/proveedores", token, map[string]any{"indexes": []int{0}})
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"deleted":1}`, string(body))
}

func TestUserAdministrationRequiresAdmin(t *testing.T) {
	app, _ := newTestApp(t)
	admin := register(t, app, "1000", models.RoleAdmin)
	user := register(t, app, "2000", models.RoleUser)

	status, _ := do(t, app, fiber.MethodGet, "/api/usuarios", user, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := do(t, app, fiber.MethodGet, "/api/usuarios?q=supervisor", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	list := decode[[]models.User](t, body)
	require.Len(t, list, 1)
	assert.Equal(t, "Carlos Ramírez", list[0].Name)

	status, body = do(t, app, fiber.MethodPut, "/api/usuarios/4", admin, map[string]any{"password": "nueva", "role": "moderator"})
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.NotContains(t, string(body), "password_hash")

	status, _ = do(t, app, fiber.MethodPost, "/api/auth/login", "", map[string]string{"document": "741852963", "password": "nueva"})
	assert.Equal(t, fiber.StatusOK, status)

	status, body = do(t, app, fiber.MethodDelete, "/api/usuarios", admin, map[string]any{"keys": []int{2, 5}})
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"deleted":2}`, string(body))
}

func TestAlertsAndExport(t *testing.T) {
	app, _ := newTestApp(t)
	token := register(t, app, "1000", models.RoleUser)

	status, body := do(t, app, fiber.MethodGet, "/api/alertas?tipo=expired", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	alerts := decode[[]inventory.Alert](t, body)
	require.Len(t, alerts, 2, "both seeded products are past their expiry")

	req := httptest.NewRequest(fiber.MethodGet, "/api/reportes/exportar", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), ".xlsx")
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get(fiber.HeaderContentType))
}

func TestRoleAndStatusChangesApplyToIssuedTokens(t *testing.T) {
	app, _ := newTestApp(t)
	admin := register(t, app, "1000", models.RoleAdmin)
	user := register(t, app, "2000", models.RoleUser)

	status, _ := do(t, app, fiber.MethodGet, "/api/usuarios", user, nil)
	require.Equal(t, fiber.StatusForbidden, status)

	status, body := do(t, app, fiber.MethodPut, "/api/usuarios/7", admin, map[string]any{"role": "admin"})
	require.Equal(t, fiber.StatusOK, status, string(body))
	status, _ = do(t, app, fiber.MethodGet, "/api/usuarios", user, nil)
	assert.Equal(t, fiber.StatusOK, status, "promotion applies without a new login")

	status, body = do(t, app, fiber.MethodPut, "/api/usuarios/7", admin, map[string]any{"role": "user"})
	require.Equal(t, fiber.StatusOK, status, string(body))
	status, _ = do(t, app, fiber.MethodGet, "/api/usuarios", user, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = do(t, app, fiber.MethodPut, "/api/usuarios/7", admin, map[string]any{"status": "Inactivo"})
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.Equal(t, models.StatusInactive, decode[models.User](t, body).Status)
	status, body = do(t, app, fiber.MethodGet, "/api/productos", user, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Usuario inactivo", errorMessage(t, body))

	status, _ = do(t, app, fiber.MethodPut, "/api/usuarios/7", admin, map[string]any{"status": "foo"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, fiber.MethodDelete, "/api/usuarios", admin, map[string]any{"keys": []int{7}})
	require.Equal(t, fiber.StatusOK, status)
	status, body = do(t, app, fiber.MethodGet, "/api/productos", user, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Usuario no encontrado", errorMessage(t, body))
}

func TestChangeOwnPassword(t *testing.T) {
	app, d := newTestApp(t)
	token := register(t, app, "1000", models.RoleUser)

	status, body := do(t, app, fiber.MethodPut, "/api/auth/me/password", token, map[string]string{
		"current_password": "mala", "new_password": "nueva123",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Contraseña actual incorrecta", errorMessage(t, body))

	status, body = do(t, app, fiber.MethodPut, "/api/auth/me/password", token, map[string]string{
		"current_password": "clave123", "new_password": "nueva123",
	})
	require.Equal(t, fiber.StatusOK, status, string(body))

	status, _ = do(t, app, fiber.MethodPost, "/api/auth/login", "", map[string]string{"document": "1000", "password": "clave123"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = do(t, app, fiber.MethodPost, "/api/auth/login", "", map[string]string{"document": "1000", "password": "nueva123"})
	assert.Equal(t, fiber.StatusOK, status)

	entries := d.Audit.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, models.AuditActionUpdate, entries[len(entries)-1].Action)
	assert.NotContains(t, entries[len(entries)-1].AfterData, "nueva123")
}

func TestProductNamesMustBeAddressable(t *testing.T) {
	app, _ := newTestApp(t)
	token := register(t, app, "1000", models.RoleUser)

	status, body := do(t, app, fiber.MethodPost, "/api/productos", token, map[string]any{"name": "Harina 1/2 kg"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, errorMessage(t, body), "name")

	status, body = do(t, app, fiber.MethodPost, "/api/productos", token, map[string]any{"name": "Harina medio kg", "status": "inactivo"})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	assert.Equal(t, models.StatusInactive, decode[models.Product](t, body).Status)

	status, _ = do(t, app, fiber.MethodPut, "/api/productos/Harina%20medio%20kg", token, map[string]any{"name": "Harina/kg"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, fiber.MethodPut, "/api/productos/Harina%20medio%20kg", token, map[string]any{"status": "foo"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestBatchExpiryViews(t *testing.T) {
	app, _ := newTestApp(t)
	token := register(t, app, "1000", models.RoleUser)

	soon := time.Now().AddDate(0, 0, 5).Format(models.DateLayout)
	status, body := do(t, app, fiber.MethodPost, "/api/lotes", token, map[string]any{"product": "Mora", "expiry": soon})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	created := decode[models.Batch](t, body)
	assert.Equal(t, models.ExpiryExpiring, created.ExpiryState)

	status, body = do(t, app, fiber.MethodGet, "/api/lotes/proximos-vencer?dias=10", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	expiring := decode[[]models.Batch](t, body)
	require.Len(t, expiring, 1)
	assert.Equal(t, created.ID, expiring[0].ID)

	status, _ = do(t, app, fiber.MethodGet, "/api/lotes/proximos-vencer?dias=0", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = do(t, app, fiber.MethodGet, "/api/lotes/vencidos", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	expired := decode[[]models.Batch](t, body)
	require.Len(t, expired, 1, "the inactive seeded batch is left out")
	assert.Equal(t, "ORD-001", expired[0].ID)

	status, body = do(t, app, fiber.MethodPost, "/api/lotes/actualizar-estados", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"updated":1}`, string(body))
}

func TestOrderSummaryRoute(t *testing.T) {
	app, _ := newTestApp(t)
	token := register(t, app, "1000", models.RoleUser)

	status, body := do(t, app, fiber.MethodGet, "/api/ordenes/resumen", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"total":2,"by_status":{"Pending":1,"Processing":0,"Completed":1,"Cancelled":0}}`, string(body))
}

func TestMaterials(t *testing.T) {
	app, _ := newTestApp(t)
	admin := register(t, app, "1000", models.RoleAdmin)
	user := register(t, app, "2000", models.RoleUser)

	status, body := do(t, app, fiber.MethodGet, "/api/materiales?tipo=botellas", user, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]models.Material](t, body), 2)

	status, body = do(t, app, fiber.MethodGet, "/api/materiales/tipos", user, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `["Botellas","Empaque"]`, string(body))

	status, _ = do(t, app, fiber.MethodPost, "/api/materiales", user, map[string]any{"name": "Aluminio", "type": "Latas"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = do(t, app, fiber.MethodPost, "/api/materiales", admin, map[string]any{"name": "Aluminio", "type": "Latas", "quantity": 30, "unit": "kg"})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	m := decode[models.Material](t, body)
	assert.Equal(t, 4, m.ID)

	status, _ = do(t, app, fiber.MethodPost, "/api/materiales", admin, map[string]any{"name": "Vidrio", "type": "Botellas"})
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = do(t, app, fiber.MethodPost, "/api/materiales/4/asignar/7", admin, nil)
	require.Equal(t, fiber.StatusOK, status, string(body))
	assert.Equal(t, 7, decode[models.Material](t, body).AssignedUserID)

	status, _ = do(t, app, fiber.MethodPost, "/api/materiales/4/asignar/99", admin, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = do(t, app, fiber.MethodGet, "/api/materiales/4/usuarios-asignados", user, nil)
	require.Equal(t, fiber.StatusOK, status)
	assigned := decode[[]models.User](t, body)
	require.Len(t, assigned, 1)
	assert.Equal(t, "2000", assigned[0].Document)
	assert.Empty(t, assigned[0].PasswordHash)

	status, _ = do(t, app, fiber.MethodDelete, "/api/materiales/4", user, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = do(t, app, fiber.MethodDelete, "/api/materiales", admin, map[string]any{"keys": []int{1, 4, 42}})
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"deleted":2}`, string(body))

	status, _ = do(t, app, fiber.MethodGet, "/api/materiales/4", user, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
