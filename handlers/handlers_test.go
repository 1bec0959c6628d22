package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devlabsolutionlimited/poramorshok-web-sub000/database"
	"github.com/devlabsolutionlimited/poramorshok-web-sub000/handlers"
	"github.com/devlabsolutionlimited/poramorshok-web-sub000/models"
	"github.com/devlabsolutionlimited/poramorshok-web-sub000/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "handler-test-secret"

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.PaymentMethod{},
		&models.Session{},
		&models.SessionActivity{},
		&models.StudentPayment{},
		&models.Earning{},
		&models.Withdrawal{},
		&models.RefundReconciliation{},
	))

	database.DB = db
	handlers.InitServices(db)

	app := fiber.New()
	routes.MentorRoutes(app)
	routes.SessionRoutes(app)
	routes.AdminRoutes(app)
	return app, db
}

func signToken(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createMentor(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := models.User{
		FullName: "Farhana Rahman",
		Email:    uuid.NewString() + "@example.com",
		Password: "hashed",
		Role:     "mentor",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestMentorRoutesRequireAuth(t *testing.T) {
	app, _ := setupApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/mentor/balance", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Signed with the wrong key.
	bad := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uuid.NewString(), "role": "mentor",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	forged, err := bad.SignedString([]byte("someone-elses-secret"))
	require.NoError(t, err)
	resp = doRequest(t, app, http.MethodGet, "/api/v1/mentor/balance", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMentorRoutesRejectOtherRoles(t *testing.T) {
	app, _ := setupApp(t)
	token := signToken(t, uuid.New(), "student")

	resp := doRequest(t, app, http.MethodGet, "/api/v1/mentor/balance", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestBalanceEndpoint(t *testing.T) {
	app, db := setupApp(t)
	mentor := createMentor(t, db)

	session := models.Session{
		MentorID: mentor.ID, StudentID: uuid.New(),
		ScheduledDate: time.Now(), ExpectedDurationMinutes: 60,
		Status: models.SessionStatusCompleted, VerificationCode: "XYZ234",
	}
	require.NoError(t, db.Create(&session).Error)
	require.NoError(t, db.Create(&models.Earning{
		OwnerID: mentor.ID, SessionID: session.ID,
		GrossAmount: 1500, PlatformFee: 300, NetAmount: 1200,
		Status: models.EarningStatusCompleted,
	}).Error)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/mentor/balance", signToken(t, mentor.ID, "mentor"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, 1200.0, body["available_balance"])
	assert.Equal(t, 0.0, body["pending_amount"])
}

func TestAddPaymentMethodEndpoint(t *testing.T) {
	app, db := setupApp(t)
	mentor := createMentor(t, db)
	token := signToken(t, mentor.ID, "mentor")

	resp := doRequest(t, app, http.MethodPost, "/api/v1/mentor/payment-methods", token, fiber.Map{
		"kind":            "mobile_wallet",
		"wallet_provider": "bKash",
		"wallet_number":   "+8801712345678",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["is_default"])

	// Malformed wallet number is rejected before anything is stored.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/mentor/payment-methods", token, fiber.Map{
		"kind":            "mobile_wallet",
		"wallet_provider": "bKash",
		"wallet_number":   "12345",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.PaymentMethod{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRequestWithdrawalEndpointConflict(t *testing.T) {
	app, db := setupApp(t)
	mentor := createMentor(t, db)
	token := signToken(t, mentor.ID, "mentor")

	provider := "Nagad"
	number := "01812345678"
	method := models.PaymentMethod{
		OwnerID: mentor.ID, Kind: models.PaymentMethodMobileWallet,
		WalletProvider: &provider, WalletNumber: &number, IsDefault: true,
	}
	require.NoError(t, db.Create(&method).Error)

	// No completed earnings yet, so any amount above the minimum conflicts.
	resp := doRequest(t, app, http.MethodPost, "/api/v1/mentor/withdrawals/request", token, fiber.Map{
		"amount":            1000,
		"payment_method_id": method.ID.String(),
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestVerifySessionEndpoint(t *testing.T) {
	app, db := setupApp(t)
	mentor := createMentor(t, db)
	student := models.User{
		FullName: "Test Student", Email: uuid.NewString() + "@example.com",
		Password: "hashed", Role: "student",
	}
	require.NoError(t, db.Create(&student).Error)

	session := models.Session{
		MentorID: mentor.ID, StudentID: student.ID,
		ScheduledDate: time.Now().Add(-2 * time.Hour), ExpectedDurationMinutes: 60,
		Status: models.SessionStatusConfirmed, VerificationCode: "ABC234",
	}
	require.NoError(t, db.Create(&session).Error)

	start := time.Now().Add(-90 * time.Minute)
	for _, entry := range []models.SessionActivity{
		{SessionID: session.ID, ActorID: mentor.ID, Action: models.ActivityActionJoin, Timestamp: start},
		{SessionID: session.ID, ActorID: student.ID, Action: models.ActivityActionJoin, Timestamp: start.Add(2 * time.Minute)},
		{SessionID: session.ID, ActorID: mentor.ID, Action: models.ActivityActionLeave, Timestamp: start.Add(61 * time.Minute)},
		{SessionID: session.ID, ActorID: student.ID, Action: models.ActivityActionLeave, Timestamp: start.Add(63 * time.Minute)},
	} {
		e := entry
		require.NoError(t, db.Create(&e).Error)
	}

	// Outsiders cannot even see the session.
	resp := doRequest(t, app, http.MethodPost, "/api/v1/sessions/"+session.ID.String()+"/verify",
		signToken(t, uuid.New(), "student"), fiber.Map{"code": "ABC234"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/v1/sessions/"+session.ID.String()+"/verify",
		signToken(t, student.ID, "student"), fiber.Map{"code": "ABC234"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, models.SessionStatusCompleted, body["status"])
	assert.Equal(t, true, body["is_verified"])
}
