package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/estate-service/internal/api/http/handlers"
	"github.com/spec-kit/estate-service/internal/auth"
	"github.com/spec-kit/estate-service/internal/config"
	"github.com/spec-kit/estate-service/internal/domain"
	"github.com/spec-kit/estate-service/internal/events"
	"github.com/spec-kit/estate-service/internal/observability"
	"github.com/spec-kit/estate-service/internal/payments"
	"github.com/spec-kit/estate-service/internal/repository"
	"github.com/spec-kit/estate-service/internal/service"
)

const testSecret = "test-secret"

type testServer struct {
	app        *fiber.App
	tokens     *auth.TokenManager
	users      repository.UserRepository
	properties repository.PropertyRepository
	metrics    *observability.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		App:  config.AppConfig{Name: "estate-test", RequestTimeoutSeconds: 5},
		Auth: config.AuthConfig{JWTSecret: testSecret, TokenTTLMinutes: 60, BcryptCost: 4},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		Payment: config.PaymentConfig{
			Currency:         "usd",
			IntentTTLMinutes: 30,
		},
	}
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	store := repository.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()

	userRepo := repository.NewUserRepository(store)
	propertyRepo := repository.NewPropertyRepository(store)
	offerRepo := repository.NewOfferRepository(store)

	tokens := auth.NewTokenManager(testSecret, cfg.Auth.TokenTTL())
	access := auth.NewAccessControl(tokens, auth.NewPrincipalResolver(userRepo), logger, metrics)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{UserRepo: userRepo, TokenManager: tokens})
	paymentService := service.NewPaymentService(cfg.Payment, service.PaymentDependencies{
		OfferRepo:   offerRepo,
		PaymentRepo: repository.NewPaymentRepository(store),
		Intents:     payments.NewMemoryIntentStore(),
		Gateway:     payments.NewLocalGateway(logger),
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	app := NewApp(cfg, logger, metrics)
	RegisterRoutes(app, RouteConfig{
		Access: access,
		Health: handlers.NewHealthHandler(cfg.App.Name, "test", store, nil),
		Users:  handlers.NewUsersHandler(authService, service.NewUserService(userRepo)),
		Properties: handlers.NewPropertiesHandler(service.NewPropertyService(service.PropertyDependencies{
			PropertyRepo: propertyRepo,
			Dispatcher:   dispatcher,
		})),
		Wishlist: handlers.NewWishlistHandler(service.NewWishlistService(repository.NewWishlistRepository(store), propertyRepo)),
		Reviews:  handlers.NewReviewsHandler(service.NewReviewService(repository.NewReviewRepository(store), propertyRepo)),
		Offers: handlers.NewOffersHandler(service.NewOfferService(service.OfferDependencies{
			OfferRepo:    offerRepo,
			PropertyRepo: propertyRepo,
			Dispatcher:   dispatcher,
		})),
		Payments: handlers.NewPaymentsHandler(paymentService),
		Metrics:  handlers.MetricsHandler(metrics),
	})

	return &testServer{app: app, tokens: tokens, users: userRepo, properties: propertyRepo, metrics: metrics}
}

func (s *testServer) user(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{Name: email, Email: email, Role: role}
	if err := s.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (s *testServer) token(t *testing.T, email string) string {
	t.Helper()
	tok, _, err := s.tokens.Issue(email)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func (s *testServer) listing(t *testing.T, agent string, status domain.PropertyStatus) *domain.Property {
	t.Helper()
	p := &domain.Property{PropertyTitle: "House of " + agent, Location: "Springfield", MinPrice: 100, MaxPrice: 200, AgentEmail: agent, Status: status}
	if err := s.properties.Create(context.Background(), p); err != nil {
		t.Fatalf("create property: %v", err)
	}
	return p
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func TestRoot(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/", "", nil)
	if status != http.StatusOK || string(body) != "Server is running" {
		t.Fatalf("GET / = %d %q", status, body)
	}
}

func TestHealthReady_MemoryStore(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/health/ready", "", nil)
	if status != http.StatusOK {
		t.Fatalf("ready = %d %s", status, body)
	}
}

func TestMetricsExposed(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/properties", "", nil)
	status, body := s.do(t, http.MethodGet, "/metrics", "", nil)
	if status != http.StatusOK || !bytes.Contains(body, []byte("http_requests_total")) {
		t.Fatalf("metrics = %d, missing http_requests_total", status)
	}
}

func TestUnknownRoute_JSONNotFound(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(t, http.MethodGet, "/nope", "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("status = %d", status)
	}
	if e := decode[errorBody](t, body); e.Error.Code != "NOT_FOUND" {
		t.Errorf("code = %q", e.Error.Code)
	}
}
