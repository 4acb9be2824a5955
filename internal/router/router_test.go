package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"pet-supply-store/internal/domain/auth"
	"pet-supply-store/internal/router"
)

const dogCatalog = `{
	"dog_products": [
		{"id": 1, "name": "Chew Toy", "price": 9.99, "category": "toys", "rating": 4.2, "inStock": true},
		{"id": 2, "name": "Premium Kibble", "price": 54.99, "category": "food", "rating": 4.8, "inStock": true},
		{"id": 3, "name": "Rope Ball", "price": 6.5, "category": "toys", "rating": 3.9, "inStock": true}
	]
}`

// fakeUsersAPI reemplaza al backend mock de usuarios en los tests.
type fakeUsersAPI struct {
	users  []auth.User
	nextID int
}

func (a *fakeUsersAPI) ListUsers(ctx context.Context) ([]auth.User, error) {
	out := make([]auth.User, len(a.users))
	copy(out, a.users)
	return out, nil
}

func (a *fakeUsersAPI) CreateUser(ctx context.Context, u auth.User) (auth.User, error) {
	a.nextID++
	u.ID = a.nextID
	a.users = append(a.users, u)
	return u, nil
}

func (a *fakeUsersAPI) AssignToken(ctx context.Context, userID int, token string) error {
	for i := range a.users {
		if a.users[i].ID == userID {
			a.users[i].Token = token
			return nil
		}
	}
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeUsersAPI) {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "dog.json"), []byte(dogCatalog), 0o644); err != nil {
		t.Fatalf("write catalog fixture: %v", err)
	}

	api := &fakeUsersAPI{}
	h, sessions, err := router.New(router.Options{
		CatalogDir: dir,
		UsersAPI:   api,
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	t.Cleanup(sessions.Close)

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts, api
}

func TestHTTP_EndToEnd_CatalogCartCheckout(t *testing.T) {
	ts, _ := newTestServer(t)
	sid := "shopper-1"

	// 1) Health
	{
		st, _ := doReq(t, ts.URL, "GET", "/health", sid, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 health, got %d", st)
		}
	}

	// 2) Catálogo filtrado + ordenado
	{
		st, body := doReq(t, ts.URL, "GET", "/catalog/dog?category=toys&sort=price-low", sid, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 browse, got %d body=%s", st, string(body))
		}
		var resp struct {
			Products []struct {
				ID int `json:"id"`
			} `json:"products"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Products) != 2 || resp.Products[0].ID != 3 || resp.Products[1].ID != 1 {
			t.Fatalf("expected toys sorted by price [3 1], got %+v", resp.Products)
		}
	}

	// 3) Especie desconocida => 404
	{
		st, _ := doReq(t, ts.URL, "GET", "/catalog/unicorn", sid, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown species, got %d", st)
		}
	}

	// 4) Agregar dos veces el mismo producto => una línea, cantidad 2
	product := map[string]any{"id": 1, "name": "Chew Toy", "price": 9.99, "category": "toys"}
	addToCart(t, ts.URL, sid, product)
	{
		body := addToCart(t, ts.URL, sid, product)
		var resp struct {
			Lines []struct {
				ID       int `json:"id"`
				Quantity int `json:"quantity"`
			} `json:"lines"`
			Count int `json:"count"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Lines) != 1 || resp.Lines[0].Quantity != 2 || resp.Count != 2 {
			t.Fatalf("expected one line qty 2 count 2, got %s", string(body))
		}
	}

	// 5) Badge agregado
	{
		st, body := doReq(t, ts.URL, "GET", "/cart/count", sid, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 badge, got %d", st)
		}
		var resp struct {
			Count int `json:"count"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Count != 2 {
			t.Fatalf("expected badge 2, got %d", resp.Count)
		}
	}

	// 6) Otra sesión no ve este carrito
	{
		st, body := doReq(t, ts.URL, "GET", "/cart/dog/", "shopper-2", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 cart for fresh session, got %d", st)
		}
		var resp struct {
			Count int `json:"count"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Count != 0 {
			t.Fatalf("sessions must be isolated, got count %d", resp.Count)
		}
	}

	// 7) Buy-now no toca el carrito regular
	{
		st, body := doReq(t, ts.URL, "POST", "/cart/dog/buy-now", sid, map[string]any{
			"product": map[string]any{"id": 2, "name": "Premium Kibble", "price": 54.99, "category": "food"},
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 buy-now, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/cart/count", sid, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 badge, got %d", st)
		}
		var resp struct {
			Count int `json:"count"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Count != 2 {
			t.Fatalf("buy-now must not change the badge, got %d", resp.Count)
		}
	}

	// 8) Checkout desde el slot buy-now: cantidad 2 => 54.99*2 + 5, envío gratis
	{
		st, body := doReq(t, ts.URL, "POST", "/checkout", sid, map[string]any{"species": "dog"})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 start checkout, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/checkout/quantity", sid, map[string]any{"quantity": 2})
		if st != http.StatusOK {
			t.Fatalf("expected 200 set quantity, got %d body=%s", st, string(body))
		}
		var resp struct {
			Totals struct {
				Subtotal       float64 `json:"subtotal"`
				DeliveryCharge float64 `json:"deliveryCharge"`
				Total          float64 `json:"total"`
			} `json:"totals"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Totals.Subtotal != 109.98 || resp.Totals.DeliveryCharge != 0 || resp.Totals.Total != 114.98 {
			t.Fatalf("unexpected totals %+v", resp.Totals)
		}
	}

	// 9) Elegir método antes de continuar => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/checkout/payment", sid, map[string]any{"method": "cod"})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 payment before continue, got %d", st)
		}
	}

	// 10) Continuar, pagar con tarjeta, submit
	{
		st, body := doReq(t, ts.URL, "POST", "/checkout/continue", sid, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 continue, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/checkout/payment", sid, map[string]any{
			"method":     "card",
			"cardNumber": "4111111111111111",
			"expiryDate": "12/27",
			"cvv":        "123",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 payment, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/checkout/submit", sid, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 submit, got %d body=%s", st, string(body))
		}
		var conf struct {
			OrderID string `json:"orderId"`
			Message string `json:"message"`
			Totals  struct {
				Total float64 `json:"total"`
			} `json:"totals"`
		}
		_ = json.Unmarshal(body, &conf)
		if conf.OrderID == "" || conf.Message != "Payment successful!" || conf.Totals.Total != 114.98 {
			t.Fatalf("unexpected confirmation %s", string(body))
		}
	}

	// 11) Flujo y slot consumidos: GET /checkout => 404
	{
		st, _ := doReq(t, ts.URL, "GET", "/checkout", sid, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after submit, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/checkout", sid, map[string]any{"species": "dog"})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 restarting without buy-now, got %d", st)
		}
	}

	// 12) El carrito regular sobrevivió al checkout completo
	{
		st, body := doReq(t, ts.URL, "GET", "/cart/dog/", sid, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 cart, got %d", st)
		}
		var resp struct {
			Count int `json:"count"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Count != 2 {
			t.Fatalf("regular cart must survive checkout, got count %d", resp.Count)
		}
	}
}

func TestHTTP_EndToEnd_Auth(t *testing.T) {
	ts, api := newTestServer(t)
	sid := "shopper-auth"

	// 1) Registro
	{
		st, body := doReq(t, ts.URL, "POST", "/auth/register", sid, map[string]any{
			"fullname": "Ana",
			"email":    "ana@mail.com",
			"password": "secret",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 register, got %d body=%s", st, string(body))
		}
	}

	// 2) Email duplicado => 409 y la lista queda igual
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/register", sid, map[string]any{
			"fullname": "Ana Dos",
			"email":    "ana@mail.com",
			"password": "other",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate email, got %d", st)
		}
		if len(api.users) != 1 {
			t.Fatalf("user list must stay unchanged, got %d", len(api.users))
		}
	}

	// 3) Credenciales malas => 401, sesión sigue deslogueada
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/login", sid, map[string]any{
			"email":    "ana@mail.com",
			"password": "wrong",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 bad credentials, got %d", st)
		}
	}
	{
		_, body := doReq(t, ts.URL, "GET", "/auth/session", sid, nil)
		var snap struct {
			IsLogin bool `json:"isLogin"`
		}
		_ = json.Unmarshal(body, &snap)
		if snap.IsLogin {
			t.Fatal("expected isLogin false after failed login")
		}
	}

	// 4) Login correcto
	{
		st, body := doReq(t, ts.URL, "POST", "/auth/login", sid, map[string]any{
			"email":    "ana@mail.com",
			"password": "secret",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
		}
	}
	{
		_, body := doReq(t, ts.URL, "GET", "/auth/session", sid, nil)
		var snap struct {
			IsLogin bool `json:"isLogin"`
			Session *struct {
				Name string `json:"name"`
			} `json:"session"`
		}
		_ = json.Unmarshal(body, &snap)
		if !snap.IsLogin || snap.Session == nil || snap.Session.Name != "Ana" {
			t.Fatalf("unexpected session snapshot %s", string(body))
		}
	}

	// 5) El login de una sesión no afecta a otra
	{
		_, body := doReq(t, ts.URL, "GET", "/auth/session", "shopper-other", nil)
		var snap struct {
			IsLogin bool `json:"isLogin"`
		}
		_ = json.Unmarshal(body, &snap)
		if snap.IsLogin {
			t.Fatal("auth state must be per session")
		}
	}

	// 6) Logout: verificable inmediatamente
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/logout", sid, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 logout, got %d", st)
		}
	}
	{
		_, body := doReq(t, ts.URL, "GET", "/auth/session", sid, nil)
		var snap struct {
			IsLogin bool            `json:"isLogin"`
			Signin  map[string]any  `json:"signin"`
			Session json.RawMessage `json:"session"`
		}
		_ = json.Unmarshal(body, &snap)
		if snap.IsLogin || len(snap.Session) > 0 {
			t.Fatalf("expected clean session after logout, got %s", string(body))
		}
		if snap.Signin["status"] != "idle" {
			t.Fatalf("expected idle signin after logout, got %v", snap.Signin)
		}
	}
}

func TestHTTP_MintsSessionWhenMissing(t *testing.T) {
	ts, _ := newTestServer(t)

	// Sin header ni cookie: el server acuña sesión y la devuelve.
	res, err := http.Get(ts.URL + "/cart/count")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if res.Header.Get("X-Session-ID") == "" {
		t.Fatal("expected minted session id in response header")
	}
	var hasCookie bool
	for _, c := range res.Cookies() {
		if c.Name == "session_id" && c.Value != "" {
			hasCookie = true
		}
	}
	if !hasCookie {
		t.Fatal("expected session cookie to be set")
	}
}

func addToCart(t *testing.T, baseURL, sid string, product map[string]any) []byte {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/cart/dog/items", sid, map[string]any{"product": product})
	if st != http.StatusOK {
		t.Fatalf("expected 200 add to cart, got %d body=%s", st, string(body))
	}
	return body
}

func doReq(t *testing.T, baseURL, method, path, sessionID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
