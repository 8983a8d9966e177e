package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vivotour/vivotour/internal/domain"
	"github.com/vivotour/vivotour/internal/repository"
	"github.com/vivotour/vivotour/internal/server"
	"golang.org/x/crypto/bcrypt"
)

// TestGoldenPath walks the whole booking funnel: admin catalogue setup,
// availability lookups, quoting, booking, double-booking rejection, payment
// confirmation and the dashboard aggregate.
func TestGoldenPath(t *testing.T) {
	// 1. Setup Infrastructure
	db, cleanupDB := SetupTestDB(t)
	defer cleanupDB()

	redisClient, cleanupRedis := SetupTestRedis(t)
	defer cleanupRedis()

	cfg := TestConfig()

	app := server.NewApp(server.AppDependencies{
		Config:      cfg,
		MongoDB:     db,
		RedisClient: redisClient,
	})

	// Helper for requests
	request := func(method, path, token, correlationID string, body interface{}) *http.Response {
		var bodyReader io.Reader
		if body != nil {
			jsonBytes, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(jsonBytes)
		}
		req, _ := http.NewRequest(method, path, bodyReader)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		if correlationID != "" {
			req.Header.Set("X-Correlation-ID", correlationID)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	decode := func(resp *http.Response) map[string]interface{} {
		var out map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	// ==========================================
	// STEP 1: Seed admin and log in
	// ==========================================
	// Registration only hands out the customer role, so the first admin is
	// seeded directly, same as cmd/seed/admin does.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass-123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	userRepo := repository.NewMongoUserRepository(db)
	require.NoError(t, userRepo.Create(context.Background(), &domain.User{
		Email:        "admin@vivotour.test",
		Name:         "Administrador",
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleAdmin},
	}))

	resp := request("POST", "/v1/auth/login", "", "", map[string]string{
		"email":    "admin@vivotour.test",
		"password": "admin-pass-123",
	})
	require.Equal(t, 200, resp.StatusCode)

	loginData := decode(resp)
	adminToken := loginData["token"].(string)
	require.NotEmpty(t, adminToken)

	fmt.Println("✓ Admin logged in")

	// Admin routes are closed without a token
	resp = request("GET", "/v1/admin/reservations", "", "", nil)
	assert.Equal(t, 401, resp.StatusCode)

	// ==========================================
	// STEP 2: Build the catalogue
	// ==========================================
	resp = request("POST", "/v1/admin/accommodations", adminToken, "", map[string]string{
		"name": "Cabaña Fénix",
		"kind": "cabin",
	})
	require.Equal(t, 201, resp.StatusCode)
	accID := decode(resp)["data"].(map[string]interface{})["id"].(string)

	resp = request("POST", "/v1/admin/plans", adminToken, "", map[string]interface{}{
		"title":        "Noche romántica Cabaña Fénix",
		"description":  "Una noche para dos",
		"price":        600000,
		"price_type":   "per_couple",
		"capacity":     map[string]int{"min": 2, "max": 2},
		"fixed_nights": 1,
		"addons": []map[string]interface{}{
			{"key": "desayuno_especial", "label": "Desayuno especial", "price_per_person": 25000},
		},
		"accommodation_id": accID,
		"is_active":        true,
	})
	require.Equal(t, 201, resp.StatusCode)
	planID := decode(resp)["data"].(map[string]interface{})["id"].(string)

	resp = request("POST", "/v1/admin/extras", adminToken, "", map[string]interface{}{
		"key":       "fotografia",
		"label":     "Fotografía",
		"price":     85000,
		"is_active": true,
	})
	require.Equal(t, 201, resp.StatusCode)

	fmt.Println("✓ Catalogue created:", planID)

	// Plan shows up on the public catalogue
	resp = request("GET", "/v1/plans", "", "", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Len(t, decode(resp)["data"], 1)

	// ==========================================
	// STEP 3: Blackout period blocks availability
	// ==========================================
	day := func(offset int) string {
		return domain.Today().AddDate(0, 0, offset).Format(domain.DateLayout)
	}

	resp = request("POST", "/v1/admin/plans/"+planID+"/blackouts", adminToken, "", map[string]string{
		"start":  day(40),
		"end":    day(42),
		"reason": "Mantenimiento anual",
	})
	require.Equal(t, 201, resp.StatusCode)

	resp = request("GET", "/v1/plans/"+planID+"/availability?from="+day(41)+"&to="+day(42), "", "", nil)
	require.Equal(t, 200, resp.StatusCode)
	avail := decode(resp)["data"].(map[string]interface{})
	assert.False(t, avail["available"].(bool))
	assert.Equal(t, "Mantenimiento anual", avail["reason"])

	resp = request("GET", "/v1/plans/"+planID+"/availability?from="+day(60)+"&to="+day(61), "", "", nil)
	require.Equal(t, 200, resp.StatusCode)
	avail = decode(resp)["data"].(map[string]interface{})
	assert.True(t, avail["available"].(bool))

	fmt.Println("✓ Availability reflects blackout")

	// ==========================================
	// STEP 4: Quote
	// ==========================================
	bookingBody := map[string]interface{}{
		"plan_id":    planID,
		"start":      day(60),
		"end":        day(61),
		"adults":     2,
		"addon_keys": []string{"desayuno_especial"},
		"extra_keys": []string{"fotografia"},
		"guest": map[string]string{
			"name":  "Laura Gómez",
			"email": "laura@example.com",
			"phone": "+57 300 000 0000",
		},
	}

	resp = request("POST", "/v1/bookings/quote", "", "", bookingBody)
	require.Equal(t, 200, resp.StatusCode)
	draft := decode(resp)["data"].(map[string]interface{})
	breakdown := draft["breakdown"].(map[string]interface{})

	// 600000 base + 2x25000 addon + 85000 extra = 735000, plus 10% insurance
	assert.EqualValues(t, 600000, breakdown["plan_base"])
	assert.EqualValues(t, 135000, breakdown["addons_total"])
	assert.EqualValues(t, 735000, breakdown["subtotal"])
	assert.EqualValues(t, 73500, breakdown["insurance"])
	assert.EqualValues(t, 808500, breakdown["total"])

	fmt.Println("✓ Quote priced correctly")

	// ==========================================
	// STEP 5: Book
	// ==========================================
	resp = request("POST", "/v1/bookings", "", "booking-attempt-1", bookingBody)
	require.Equal(t, 201, resp.StatusCode)
	reservation := decode(resp)["data"].(map[string]interface{})
	reference := reservation["reference"].(string)
	require.NotEmpty(t, reference)
	assert.Equal(t, "pending", reservation["status"])

	fmt.Println("✓ Reservation created:", reference)

	// Retrying the same submission replays the original response
	require.Eventually(t, func() bool {
		retry := request("POST", "/v1/bookings", "", "booking-attempt-1", bookingBody)
		if retry.Header.Get("X-Idempotent-Replay") != "true" {
			return false
		}
		replayed := decode(retry)["data"].(map[string]interface{})
		return replayed["reference"] == reference
	}, 3*time.Second, 100*time.Millisecond, "retried booking should be replayed from cache")

	fmt.Println("✓ Idempotent retry absorbed")

	// A second guest trying the same cabin and dates is turned away
	conflicting := map[string]interface{}{}
	for k, v := range bookingBody {
		conflicting[k] = v
	}
	conflicting["guest"] = map[string]string{
		"name":  "Pedro Pérez",
		"email": "pedro@example.com",
	}
	resp = request("POST", "/v1/bookings", "", "booking-attempt-2", conflicting)
	require.Equal(t, 409, resp.StatusCode)
	assert.Equal(t, "RESERVADO", decode(resp)["error"])

	fmt.Println("✓ Double booking rejected")

	// ==========================================
	// STEP 6: Checkout and payment webhook
	// ==========================================
	resp = request("POST", "/v1/payments/checkout", "", "", map[string]string{
		"reference": reference,
	})
	require.Equal(t, 201, resp.StatusCode)
	session := decode(resp)["data"].(map[string]interface{})
	require.NotEmpty(t, session["checkout_url"])

	// Gateway amount must match the quoted total
	resp = request("POST", "/v1/payments/webhook/epayco", "", "", map[string]interface{}{
		"x_ref_payco":         "999001",
		"x_transaction_id":    "tx-1",
		"x_id_invoice":        reference,
		"x_amount":            100,
		"x_currency_code":     "COP",
		"x_transaction_state": "Aceptada",
	})
	assert.Equal(t, 400, resp.StatusCode)

	resp = request("POST", "/v1/payments/webhook/epayco", "", "", map[string]interface{}{
		"x_ref_payco":         "999001",
		"x_transaction_id":    "tx-1",
		"x_id_invoice":        reference,
		"x_amount":            808500,
		"x_currency_code":     "COP",
		"x_transaction_state": "Aceptada",
	})
	require.Equal(t, 200, resp.StatusCode)

	fmt.Println("✓ Payment confirmed")

	// ==========================================
	// STEP 7: Reservation is confirmed, dates stay blocked
	// ==========================================
	resp = request("GET", "/v1/admin/reservations", adminToken, "", nil)
	require.Equal(t, 200, resp.StatusCode)
	reservations := decode(resp)["data"].([]interface{})
	require.Len(t, reservations, 1)
	confirmed := reservations[0].(map[string]interface{})
	assert.Equal(t, "confirmed", confirmed["status"])
	assert.EqualValues(t, 808500, confirmed["amount_paid"])

	resp = request("GET", "/v1/plans/"+planID+"/availability?from="+day(60)+"&to="+day(61), "", "", nil)
	require.Equal(t, 200, resp.StatusCode)
	avail = decode(resp)["data"].(map[string]interface{})
	assert.False(t, avail["available"].(bool))
	assert.Equal(t, "RESERVADO", avail["reason"])

	fmt.Println("✓ Reservation confirmed and blocking")

	// ==========================================
	// STEP 8: Dashboard aggregate
	// ==========================================
	resp = request("GET", "/v1/admin/dashboard/summary", adminToken, "", nil)
	require.Equal(t, 200, resp.StatusCode)
	summary := decode(resp)["data"].(map[string]interface{})
	assert.EqualValues(t, 1, summary["active_plans"])
	assert.EqualValues(t, 1, summary["confirmed_reservations"])
	assert.EqualValues(t, 0, summary["pending_reservations"])
	assert.EqualValues(t, 808500, summary["revenue_cop"])

	fmt.Println("✓ Dashboard summary verified")

	// ==========================================
	// STEP 9: Customer registration
	// ==========================================
	resp = request("POST", "/v1/auth/register", "", "", map[string]string{
		"email":    "cliente@example.com",
		"name":     "Cliente Nuevo",
		"password": "cliente-pass-123",
	})
	require.Equal(t, 201, resp.StatusCode)
	registered := decode(resp)
	customerToken := registered["token"].(string)
	require.NotEmpty(t, customerToken)

	// Customers cannot reach the admin surface
	resp = request("GET", "/v1/admin/reservations", customerToken, "", nil)
	assert.Equal(t, 403, resp.StatusCode)

	fmt.Println("✓ Customer registration and role guard verified")
}
