package kernel_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/diagnocare/app/models"
	"github.com/shashiranjanraj/diagnocare/internal/kernel"
	"github.com/shashiranjanraj/diagnocare/pkg/auth"
	"github.com/shashiranjanraj/diagnocare/pkg/payment"
	"github.com/shashiranjanraj/diagnocare/pkg/store"
)

type stubProcessor struct {
	mu     sync.Mutex
	secret string
	err    error
	amount int64
}

func (p *stubProcessor) CreatePaymentIntent(_ context.Context, amount int64, _ string, _ []string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.amount = amount
	return p.secret, p.err
}

func (p *stubProcessor) fail(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

func (p *stubProcessor) lastAmount() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.amount
}

type harness struct {
	t       *testing.T
	srv     *httptest.Server
	k       *kernel.Kernel
	db      *store.Memory
	payment *stubProcessor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := store.NewMemory(store.WithUnique(models.Users, "email"))
	proc := &stubProcessor{secret: "pi_123_secret_abc"}
	k := kernel.New(kernel.Deps{
		DB:       db,
		Tokens:   auth.NewTokenService("test-secret", time.Hour),
		Payments: payment.NewAdapter(proc, "usd"),
	})
	srv := httptest.NewServer(k.Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = k.Shutdown(context.Background())
	})
	return &harness{t: t, srv: srv, k: k, db: db, payment: proc}
}

func (h *harness) do(method, path, token string, body any) (int, []byte) {
	h.t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, h.srv.URL+path, rd)
	require.NoError(h.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.srv.Client().Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp.StatusCode, out
}

func (h *harness) token(email string) string {
	h.t.Helper()
	code, body := h.do(http.MethodPost, "/jwt", "", map[string]any{"email": email})
	require.Equal(h.t, http.StatusOK, code, string(body))
	var out struct{ Token string }
	require.NoError(h.t, json.Unmarshal(body, &out))
	require.NotEmpty(h.t, out.Token)
	return out.Token
}

// admin registers email, promotes it and returns a token for it.
func (h *harness) admin(email string) string {
	h.t.Helper()
	code, _ := h.do(http.MethodPost, "/users", "", map[string]any{"email": email, "name": "Admin"})
	require.Equal(h.t, http.StatusOK, code)
	require.NoError(h.t, h.k.Auth.Promote(context.Background(), email))
	return h.token(email)
}

func (h *harness) insertTest(admin string, doc map[string]any) string {
	h.t.Helper()
	code, body := h.do(http.MethodPost, "/tests", admin, doc)
	require.Equal(h.t, http.StatusOK, code, string(body))
	var out struct {
		InsertedID string `json:"insertedId"`
	}
	require.NoError(h.t, json.Unmarshal(body, &out))
	return out.InsertedID
}

func message(t *testing.T, body []byte) string {
	t.Helper()
	var out struct{ Message string }
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out.Message
}

// ─── Tests ────────────────────────────────────────────────────────────────────

func TestLiveness(t *testing.T) {
	h := newHarness(t)
	code, body := h.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "DiagnoCare Server is running", string(body))

	code, body = h.do(http.MethodGet, "/tests", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body))

	code, body = h.do(http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not found", message(t, body))
}

func TestRegisterTwiceKeepsFirstUser(t *testing.T) {
	h := newHarness(t)

	code, body := h.do(http.MethodPost, "/users", "", map[string]any{"email": "a@x.io", "name": "A", "role": "admin"})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), `"acknowledged":true`)

	code, body = h.do(http.MethodPost, "/users", "", map[string]any{"email": "a@x.io", "name": "B"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User already exists", message(t, body))

	users, err := h.db.Collection(models.Users).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "A", users[0]["name"])
	assert.Equal(t, models.RoleDefault, users[0]["role"])
}

func TestTokenRoundTrip(t *testing.T) {
	h := newHarness(t)
	tok := h.token("u@x.io")

	code, _ := h.do(http.MethodGet, "/recommend", tok, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body := h.do(http.MethodGet, "/recommend", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Unauthorized access", message(t, body))

	code, _ = h.do(http.MethodGet, "/recommend", tok+"x", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = h.do(http.MethodPost, "/jwt", "", map[string]any{"name": "no email"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestTokenRejectsNonStringEmail(t *testing.T) {
	h := newHarness(t)

	for _, email := range []any{42, true, map[string]any{"a": "b"}} {
		code, body := h.do(http.MethodPost, "/jwt", "", map[string]any{"email": email})
		assert.Equal(t, http.StatusUnprocessableEntity, code, string(body))
		assert.NotContains(t, string(body), "auth:")
	}
}

func TestStatusUpdateKeepsEmailUnique(t *testing.T) {
	h := newHarness(t)
	admin := h.admin("boss@x.io")

	code, _ := h.do(http.MethodPost, "/users", "", map[string]any{"email": "a@x.co"})
	require.Equal(t, http.StatusOK, code)
	code, body := h.do(http.MethodPost, "/users", "", map[string]any{"email": "b@x.co", "status": "inactive"})
	require.Equal(t, http.StatusOK, code)
	var out struct {
		InsertedID string `json:"insertedId"`
	}
	require.NoError(t, json.Unmarshal(body, &out))

	code, body = h.do(http.MethodPatch, "/statusUpdate/"+out.InsertedID, admin,
		map[string]any{"email": "a@x.co", "status": "active"})
	require.Equal(t, http.StatusOK, code, string(body))

	users := h.db.Collection(models.Users)
	taken, err := users.FindMany(context.Background(), store.Document{"email": "a@x.co"})
	require.NoError(t, err)
	assert.Len(t, taken, 1)

	b, err := users.FindOne(context.Background(), store.Document{"email": "b@x.co"})
	require.NoError(t, err)
	assert.Equal(t, "active", b["status"])

	code, _ = h.do(http.MethodPatch, "/statusUpdate/"+out.InsertedID, admin, map[string]any{"email": "a@x.co"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestAdminGate(t *testing.T) {
	h := newHarness(t)

	// Token for an unregistered user.
	ghost := h.token("ghost@x.io")
	code, body := h.do(http.MethodGet, "/users", ghost, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "unauthorized access", message(t, body))

	// Registered, but not an admin.
	h.do(http.MethodPost, "/users", "", map[string]any{"email": "plain@x.io"})
	plain := h.token("plain@x.io")
	code, _ = h.do(http.MethodPost, "/tests", plain, map[string]any{"name": "CBC"})
	assert.Equal(t, http.StatusUnauthorized, code)

	admin := h.admin("root@x.io")
	code, body = h.do(http.MethodGet, "/users", admin, nil)
	assert.Equal(t, http.StatusOK, code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(body, &users))
	assert.Len(t, users, 2)
}

func TestUpdateMissingResources(t *testing.T) {
	h := newHarness(t)
	admin := h.admin("root@x.io")
	missing := "65f000000000000000000001"

	code, body := h.do(http.MethodPatch, "/update-test/"+missing, admin, map[string]any{"price": 10})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Update not found", message(t, body))

	code, body = h.do(http.MethodPatch, "/update-slots/"+missing, admin, map[string]any{"slots": 3})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Booking not found", message(t, body))

	code, body = h.do(http.MethodGet, "/testDetails/not-an-id", admin, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid id", message(t, body))

	code, body = h.do(http.MethodDelete, "/test/"+missing, admin, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"acknowledged":true,"deletedCount":0}`, string(body))
}

func TestUpdateSlotsIncrementsBookings(t *testing.T) {
	h := newHarness(t)
	admin := h.admin("root@x.io")
	id := h.insertTest(admin, map[string]any{"name": "CBC", "slots": 10, "bookings": 2})

	code, body := h.do(http.MethodPatch, "/update-slots/"+id, admin, map[string]any{"slots": 9})
	require.Equal(t, http.StatusOK, code, string(body))
	assert.JSONEq(t, `{"acknowledged":true,"matchedCount":1,"modifiedCount":1}`, string(body))

	code, body = h.do(http.MethodGet, "/testDetails/"+id, admin, nil)
	require.Equal(t, http.StatusOK, code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.EqualValues(t, 9, doc["slots"])
	assert.EqualValues(t, 3, doc["bookings"])
}

func TestFeaturedTopThree(t *testing.T) {
	h := newHarness(t)
	admin := h.admin("root@x.io")
	for _, tc := range []struct {
		name     string
		bookings int
	}{{"a", 5}, {"b", 1}, {"c", 9}, {"d", 3}} {
		h.insertTest(admin, map[string]any{"name": tc.name, "bookings": tc.bookings})
	}

	code, body := h.do(http.MethodGet, "/featured-tests", "", nil)
	require.Equal(t, http.StatusOK, code)
	var featured []map[string]any
	require.NoError(t, json.Unmarshal(body, &featured))

	names := make([]string, 0, len(featured))
	for _, f := range featured {
		names = append(names, f["name"].(string))
	}
	assert.Equal(t, []string{"c", "a", "d"}, names)
}

func TestBookRollsBackOnMissingTest(t *testing.T) {
	h := newHarness(t)
	tok := h.token("u@x.io")

	code, body := h.do(http.MethodPost, "/bookings", tok, map[string]any{
		"testId":  "65f000000000000000000001",
		"slots":   4,
		"booking": map[string]any{"email": "u@x.io", "testName": "CBC"},
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Booking not found", message(t, body))

	bookings, err := h.db.Collection(models.Bookings).ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestBookCommitsBoth(t *testing.T) {
	h := newHarness(t)
	admin := h.admin("root@x.io")
	id := h.insertTest(admin, map[string]any{"name": "CBC", "slots": 5})
	tok := h.token("u@x.io")

	code, body := h.do(http.MethodPost, "/bookings", tok, map[string]any{
		"testId":  id,
		"slots":   4,
		"booking": map[string]any{"email": "u@x.io", "bookingId": "bk-1"},
	})
	require.Equal(t, http.StatusOK, code, string(body))

	code, body = h.do(http.MethodGet, "/booking/u@x.io", tok, nil)
	require.Equal(t, http.StatusOK, code)
	var mine []map[string]any
	require.NoError(t, json.Unmarshal(body, &mine))
	assert.Len(t, mine, 1)

	code, body = h.do(http.MethodGet, "/bookings/test/bk-1", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), `"bookingId":"bk-1"`)
}

func TestPaymentIntent(t *testing.T) {
	h := newHarness(t)
	tok := h.token("u@x.io")

	code, body := h.do(http.MethodPost, "/create-payment-intent", tok, map[string]any{"price": 19.999})
	require.Equal(t, http.StatusOK, code, string(body))
	assert.JSONEq(t, `{"clientSecret":"pi_123_secret_abc"}`, string(body))
	assert.EqualValues(t, 1999, h.payment.lastAmount())

	for _, price := range []any{0, -3} {
		code, body = h.do(http.MethodPost, "/create-payment-intent", tok, map[string]any{"price": price})
		assert.Equal(t, http.StatusBadRequest, code, "price %v", price)
		assert.Equal(t, "Invalid price", message(t, body))
	}

	code, _ = h.do(http.MethodPost, "/create-payment-intent", tok, map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	h.payment.fail(errors.New("card_declined"))
	code, body = h.do(http.MethodPost, "/create-payment-intent", tok, map[string]any{"price": 5})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Failed to create payment intent", message(t, body))
}

func TestRouteTableCoversApi(t *testing.T) {
	k := kernel.New(kernel.Deps{DB: store.NewMemory(), Tokens: auth.NewTokenService("s", time.Hour)})
	defer k.Shutdown(context.Background()) //nolint:errcheck

	names := map[string]bool{}
	for _, ri := range k.Application().RouteTable() {
		names[ri.Name] = true
	}
	for _, want := range []string{"home", "metrics", "auth.token", "tests.featured", "bookings.book", "reservations.cancel"} {
		assert.True(t, names[want], want)
	}
}
