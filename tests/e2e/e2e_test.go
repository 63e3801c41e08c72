package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"servicemarket/internal/database"
	"servicemarket/internal/domain"
	"servicemarket/internal/events"
	"servicemarket/internal/middleware"
	"servicemarket/internal/modules/auth"
	"servicemarket/internal/modules/booking"
	"servicemarket/internal/modules/catalog"
	"servicemarket/internal/modules/notification"
	"servicemarket/internal/modules/payment"
	"servicemarket/internal/modules/wallet"
	"servicemarket/internal/paystack"
	jwtsvc "servicemarket/internal/pkg/jwt"
	"servicemarket/internal/pkg/mailer"
	"servicemarket/internal/repository"
)

const gatewaySecret = "sk_test_e2e"

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
	gateway    *fakeGatewayServer
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// fakeGatewayServer stands in for the payment provider. Initialize always
// succeeds; verify answers from the references map.
type fakeGatewayServer struct {
	srv        *httptest.Server
	references map[string]int64 // reference -> amount in minor units
}

func newFakeGateway() *fakeGatewayServer {
	g := &fakeGatewayServer{references: make(map[string]int64)}
	g.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/transaction/initialize":
			var req paystack.InitializeRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			g.references[req.Reference] = req.Amount
			fmt.Fprintf(w, `{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.example/%s","reference":"%s"}}`, req.Reference, req.Reference)
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/transaction/verify/"):
			ref := strings.TrimPrefix(r.URL.Path, "/transaction/verify/")
			amount, ok := g.references[ref]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"status":false,"message":"Transaction reference not found"}`)
				return
			}
			fmt.Fprintf(w, `{"status":true,"data":{"status":"success","reference":"%s","amount":%d,"channel":"card"}}`, ref, amount)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return g
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, database.Migrate(db))

	gw := newFakeGateway()
	t.Cleanup(gw.srv.Close)

	userRepo := repository.NewUserRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	hub := events.NewHub()
	gateway := paystack.NewClient(gatewaySecret, paystack.WithBaseURL(gw.srv.URL))

	notifService := notification.NewService(notificationRepo)
	fanout := notification.NewFanout(notifService, hub, mailer.NewDevConsoleMailer(false), userRepo)

	authHandler := auth.NewHandler(auth.NewService(userRepo, userRepo, jwtService))
	catalogHandler := catalog.NewHandler(catalog.NewService(serviceRepo))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, serviceRepo, nil, fanout))
	walletHandler := wallet.NewHandler(wallet.NewService(db, transactionRepo, gateway, fanout), db)
	paymentHandler := payment.NewHandler(payment.NewService(bookingRepo, userRepo, gateway, fanout, gatewaySecret))
	notifHandler := notification.NewHandler(notifService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")

	authHandler.RegisterPublicRoutes(v1)
	catalogHandler.RegisterPublicRoutes(v1)
	paymentHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("/")
	protected.Use(middleware.Auth(jwtService))
	{
		authHandler.RegisterProtectedRoutes(protected)
		bookingHandler.RegisterRoutes(protected)
		walletHandler.RegisterRoutes(protected)
		paymentHandler.RegisterProtectedRoutes(protected)
		notifHandler.RegisterRoutes(protected)

		agents := protected.Group("/")
		agents.Use(middleware.AgentOnly())
		{
			catalogHandler.RegisterAgentRoutes(agents)
		}
	}

	return &E2ETestSuite{router: r, db: db, jwtService: jwtService, gateway: gw}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Status: %d, Body: %s", w.Code, w.Body.String())
	return &resp
}

func (s *E2ETestSuite) registerClient(t *testing.T, email string) string {
	t.Helper()
	w := s.makeRequest("POST", "/api/v1/auth/register/client", map[string]interface{}{
		"email":    email,
		"name":     "Test Client",
		"password": "Password123!",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return parseResponse(t, w).Data["token"].(string)
}

func (s *E2ETestSuite) registerAgent(t *testing.T, email string) string {
	t.Helper()
	w := s.makeRequest("POST", "/api/v1/auth/register/agent", map[string]interface{}{
		"email":     email,
		"name":      "Test Agent",
		"phone":     "+2348012345678",
		"password":  "Password123!",
		"skills":    "plumbing",
		"years_exp": 5,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return parseResponse(t, w).Data["token"].(string)
}

func (s *E2ETestSuite) createListing(t *testing.T, agentToken string, price float64) int64 {
	t.Helper()
	w := s.makeRequest("POST", "/api/v1/services", map[string]interface{}{
		"category":   "plumbing",
		"title":      "Pipe repair",
		"base_price": price,
	}, agentToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	svc := parseResponse(t, w).Data["service"].(map[string]interface{})
	return int64(svc["id"].(float64))
}

func (s *E2ETestSuite) createBooking(t *testing.T, clientToken string, serviceID int64) int64 {
	t.Helper()
	w := s.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
		"service_id":   serviceID,
		"scheduled_at": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"address":      "12 Marina Road, Lagos",
	}, clientToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	b := parseResponse(t, w).Data["booking"].(map[string]interface{})
	return int64(b["id"].(float64))
}

func (s *E2ETestSuite) setBalance(t *testing.T, email string, amount int64) {
	t.Helper()
	err := s.db.Model(&domain.User{}).
		Where("email = ?", email).
		Update("balance", decimal.NewFromInt(amount)).Error
	require.NoError(t, err)
}

func TestFlow1_RegistrationAndAuth(t *testing.T) {
	suite := setupTestSuite(t)

	token := suite.registerClient(t, "client@test.com")

	t.Run("POST /auth/login", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "client@test.com",
			"password": "Password123!",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Data["token"])
	})

	t.Run("GET /users/me", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/users/me", nil, token)
		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		user := resp.Data["user"].(map[string]interface{})
		assert.Equal(t, "client@test.com", user["email"])
		assert.Equal(t, "CLIENT", user["role"])
	})

	t.Run("GET /users/me without token", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/users/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/auth/register/client", map[string]interface{}{
			"email":    "client@test.com",
			"name":     "Someone Else",
			"password": "Password123!",
		}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestFlow2_CatalogAndBookingLifecycle(t *testing.T) {
	suite := setupTestSuite(t)

	clientToken := suite.registerClient(t, "client2@test.com")
	agentToken := suite.registerAgent(t, "agent2@test.com")
	serviceID := suite.createListing(t, agentToken, 5000)

	t.Run("GET /services", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/services", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.Len(t, resp.Data["services"], 1)
	})

	t.Run("client cannot create listing", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/services", map[string]interface{}{
			"category":   "plumbing",
			"title":      "Not an agent",
			"base_price": 1000,
		}, clientToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	bookingID := suite.createBooking(t, clientToken, serviceID)

	t.Run("booking starts PENDING with listing price", func(t *testing.T) {
		w := suite.makeRequest("GET", fmt.Sprintf("/api/v1/bookings/%d", bookingID), nil, clientToken)
		assert.Equal(t, http.StatusOK, w.Code)
		b := parseResponse(t, w).Data["booking"].(map[string]interface{})
		assert.Equal(t, "PENDING", b["status"])
		assert.Equal(t, "5000", fmt.Sprint(b["total_price"]))
	})

	t.Run("agent accepts booking", func(t *testing.T) {
		w := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/bookings/%d/status", bookingID),
			map[string]interface{}{"status": "accepted"}, agentToken)
		assert.Equal(t, http.StatusOK, w.Code)
		b := parseResponse(t, w).Data["booking"].(map[string]interface{})
		assert.Equal(t, "ACCEPTED", b["status"])
	})

	t.Run("agent cannot cancel", func(t *testing.T) {
		w := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/bookings/%d/status", bookingID),
			map[string]interface{}{"status": "cancelled"}, agentToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("client cancels accepted booking", func(t *testing.T) {
		w := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/bookings/%d/status", bookingID),
			map[string]interface{}{"status": "cancelled"}, clientToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("stranger cannot read booking", func(t *testing.T) {
		strangerToken := suite.registerClient(t, "stranger@test.com")
		w := suite.makeRequest("GET", fmt.Sprintf("/api/v1/bookings/%d", bookingID), nil, strangerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("GET /bookings lists own", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/bookings", nil, clientToken)
		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.Len(t, resp.Data["bookings"], 1)
	})
}

func TestFlow3_WalletPayment(t *testing.T) {
	suite := setupTestSuite(t)

	clientToken := suite.registerClient(t, "payer@test.com")
	agentToken := suite.registerAgent(t, "agent3@test.com")
	serviceID := suite.createListing(t, agentToken, 5000)
	bookingID := suite.createBooking(t, clientToken, serviceID)

	suite.setBalance(t, "payer@test.com", 10000)

	t.Run("POST /bookings/:id/pay", func(t *testing.T) {
		w := suite.makeRequest("POST", fmt.Sprintf("/api/v1/bookings/%d/pay", bookingID), nil, clientToken)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("balance debited, booking accepted", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/wallet", nil, clientToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5000", fmt.Sprint(parseResponse(t, w).Data["balance"]))

		w = suite.makeRequest("GET", fmt.Sprintf("/api/v1/bookings/%d", bookingID), nil, clientToken)
		b := parseResponse(t, w).Data["booking"].(map[string]interface{})
		assert.Equal(t, "ACCEPTED", b["status"])
	})

	t.Run("second pay rejected", func(t *testing.T) {
		w := suite.makeRequest("POST", fmt.Sprintf("/api/v1/bookings/%d/pay", bookingID), nil, clientToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GET /wallet/transactions", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/wallet/transactions", nil, clientToken)
		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.Len(t, resp.Data["transactions"], 1)
	})

	t.Run("client sees a notification", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/notifications", nil, clientToken)
		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.NotEmpty(t, resp.Data["notifications"])
	})
}

func TestFlow4_WalletFunding(t *testing.T) {
	suite := setupTestSuite(t)

	clientToken := suite.registerClient(t, "funder@test.com")

	var reference string
	t.Run("POST /wallet/fund", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/wallet/fund", map[string]interface{}{
			"amount": 2500,
		}, clientToken)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := parseResponse(t, w)
		reference = resp.Data["reference"].(string)
		assert.NotEmpty(t, reference)
		assert.NotNil(t, resp.Data["checkout"])
	})

	t.Run("POST /wallet/fund/verify credits once", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/wallet/fund/verify", map[string]interface{}{
			"reference": reference,
		}, clientToken)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, true, parseResponse(t, w).Data["credited"])

		// redelivery is a no-op
		w = suite.makeRequest("POST", "/api/v1/wallet/fund/verify", map[string]interface{}{
			"reference": reference,
		}, clientToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, parseResponse(t, w).Data["credited"])

		w = suite.makeRequest("GET", "/api/v1/wallet", nil, clientToken)
		assert.Equal(t, "2500", fmt.Sprint(parseResponse(t, w).Data["balance"]))
	})

	t.Run("unknown reference", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/wallet/fund/verify", map[string]interface{}{
			"reference": "WF-0-0",
		}, clientToken)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestFlow5_GatewayPaymentAndWebhook(t *testing.T) {
	suite := setupTestSuite(t)

	clientToken := suite.registerClient(t, "cardpayer@test.com")
	agentToken := suite.registerAgent(t, "agent5@test.com")
	serviceID := suite.createListing(t, agentToken, 4200)
	bookingID := suite.createBooking(t, clientToken, serviceID)

	t.Run("POST /bookings/:id/pay/gateway", func(t *testing.T) {
		w := suite.makeRequest("POST", fmt.Sprintf("/api/v1/bookings/%d/pay/gateway", bookingID), nil, clientToken)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.NotNil(t, parseResponse(t, w).Data["checkout"])
	})

	webhookBody, _ := json.Marshal(map[string]interface{}{
		"event": "charge.success",
		"data": map[string]interface{}{
			"reference": fmt.Sprintf("BK-%d-1", bookingID),
			"status":    "success",
			"amount":    420000,
			"metadata":  map[string]interface{}{"booking_id": bookingID, "user_id": 1},
		},
	})

	t.Run("webhook with bad signature rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/payments/webhook", bytes.NewReader(webhookBody))
		req.Header.Set(paystack.SignatureHeader, "deadbeef")
		w := httptest.NewRecorder()
		suite.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		wr := suite.makeRequest("GET", fmt.Sprintf("/api/v1/bookings/%d", bookingID), nil, clientToken)
		b := parseResponse(t, wr).Data["booking"].(map[string]interface{})
		assert.Equal(t, "PENDING", b["status"])
	})

	t.Run("signed webhook accepts booking", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/payments/webhook", bytes.NewReader(webhookBody))
		req.Header.Set(paystack.SignatureHeader, paystack.Sign(gatewaySecret, webhookBody))
		w := httptest.NewRecorder()
		suite.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

		wr := suite.makeRequest("GET", fmt.Sprintf("/api/v1/bookings/%d", bookingID), nil, clientToken)
		b := parseResponse(t, wr).Data["booking"].(map[string]interface{})
		assert.Equal(t, "ACCEPTED", b["status"])
	})
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}
