package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	financeapp "github.com/cecagem/backoffice/internal/application/finance"
	"github.com/cecagem/backoffice/internal/domain/finance"
	"github.com/cecagem/backoffice/internal/domain/shared/valueobject"
	"github.com/cecagem/backoffice/internal/infrastructure/auth"
	"github.com/cecagem/backoffice/internal/infrastructure/cache"
	"github.com/cecagem/backoffice/internal/infrastructure/config"
	"github.com/cecagem/backoffice/internal/infrastructure/event"
	"github.com/cecagem/backoffice/internal/infrastructure/persistence"
	"github.com/cecagem/backoffice/internal/interfaces/http/dto"
	"github.com/cecagem/backoffice/internal/interfaces/http/middleware"
	"github.com/cecagem/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSecret = "handler-test-secret-at-least-32-chars"

var (
	testNow   = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	testAdmin = finance.Actor{ID: uuid.MustParse("3b0c6a1e-7d4f-4c2a-9e8b-1f2a3b4c5d6e"), Name: "Ana Torres"}
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testServer is the full HTTP stack over an in-memory sqlite database.
type testServer struct {
	engine    *gin.Engine
	db        *persistence.Database
	contracts *persistence.GormContractRepository
	payments  *persistence.GormPaymentRepository
	companies *persistence.GormCompanyRepository
	stats     *cache.PortfolioCache
	bus       *event.InMemoryEventBus
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := persistence.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate())

	store := cache.NewInMemoryStore(time.Minute)
	t.Cleanup(func() {
		_ = store.Close()
		_ = db.Close()
	})

	s := &testServer{
		db:        db,
		contracts: persistence.NewGormContractRepository(db.DB, time.UTC),
		payments:  persistence.NewGormPaymentRepository(db.DB),
		companies: persistence.NewGormCompanyRepository(db.DB),
		stats:     cache.NewPortfolioCache(store, "test:", time.Minute),
		bus:       event.NewInMemoryEventBus(nil),
	}
	installments := persistence.NewGormInstallmentRepository(db.DB)
	engine := finance.NewReconciliationEngine(finance.WithClock(func() time.Time { return testNow }))

	s.bus.Subscribe(financeapp.NewInstallmentStatusHandler(installments, engine, s.stats, nil))
	paymentSvc := financeapp.NewPaymentValidationService(s.payments, installments, s.bus, engine, nil)
	querySvc := financeapp.NewReconciliationQueryService(s.contracts, s.companies, engine, s.stats, nil)

	verifier := auth.NewVerifier(config.JWTConfig{Secret: testSecret},
		auth.WithTimeFunc(func() time.Time { return testNow }))

	s.engine = gin.New()
	s.engine.Use(middleware.RequestID())

	contractHandler := NewContractHandler(querySvc, time.UTC)
	contractHandler.now = func() time.Time { return testNow }
	systemHandler := NewSystemHandler(db, "cecagem-backoffice", "test")
	systemHandler.now = func() time.Time { return testNow }

	r := router.NewRouter(s.engine).Use(middleware.JWTAuthMiddleware(verifier))
	r.Register(ContractRoutes(contractHandler)).
		Register(PaymentRoutes(NewPaymentHandler(paymentSvc), nil)...).
		Register(CompanyRoutes(NewCompanyHandler(querySvc))).
		Register(DashboardRoutes(NewDashboardHandler(querySvc))).
		Register(SystemRoutes(systemHandler)...)
	r.Setup()

	return s
}

func token(t *testing.T, actor finance.Actor, role string) string {
	t.Helper()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
		},
		Name: actor.Name,
		Role: role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func adminToken(t *testing.T) string {
	return token(t, testAdmin, auth.RoleAdmin)
}

func collaboratorToken(t *testing.T) string {
	return token(t, finance.Actor{ID: uuid.New(), Name: "Luis Quispe"}, auth.RoleCollaborator)
}

// do performs a request with the given bearer token ("" for none) and JSON
// body (nil for none).
func (s *testServer) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+bearer)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func performRequest(engine http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

// envelope is the response shape with data left raw for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func pen(amount string) valueobject.Money {
	return valueobject.MustMoney(amount, valueobject.PEN)
}

// seedContract stores a 3 x 1000 PEN contract: first installment paid, second
// past due with a rejected payment, third due in 30 days.
func (s *testServer) seedContract(t *testing.T, title string) *finance.Contract {
	t.Helper()
	ctx := t.Context()
	c, err := finance.NewContract(title, finance.PaymentTypeInstallments, pen("3000"),
		uuid.New(), []uuid.UUID{uuid.New()}, testNow.AddDate(0, -2, 0), testNow.AddDate(0, 4, 0))
	require.NoError(t, err)
	c.Status = finance.ContractStatusInProgress
	for _, offset := range []int{-30, -5, 30} {
		_, err := c.AddInstallment(pen("1000"), testNow.AddDate(0, 0, offset))
		require.NoError(t, err)
	}
	require.NoError(t, s.contracts.Save(ctx, c))

	paid := s.seedPayment(t, c.Installments[0].ID, "1000")
	require.NoError(t, paid.Validate(testAdmin, "", testNow.AddDate(0, 0, -29)))
	require.NoError(t, s.payments.SaveTransition(ctx, paid))

	failed := s.seedPayment(t, c.Installments[1].ID, "1000")
	require.NoError(t, failed.Reject(testAdmin, "voucher ilegible", testNow.AddDate(0, 0, -4)))
	require.NoError(t, s.payments.SaveTransition(ctx, failed))

	stored, err := s.contracts.FindByID(ctx, c.ID)
	require.NoError(t, err)
	return stored
}

func (s *testServer) seedPayment(t *testing.T, installmentID uuid.UUID, amount string) *finance.Payment {
	t.Helper()
	p, err := finance.NewPayment(installmentID, pen(amount), finance.PaymentMethodYape, "OP-1", testNow.AddDate(0, 0, -31))
	require.NoError(t, err)
	p.ClearDomainEvents()
	require.NoError(t, s.payments.Create(t.Context(), p))

	stored, err := s.payments.FindByID(t.Context(), p.ID)
	require.NoError(t, err)
	return stored
}
