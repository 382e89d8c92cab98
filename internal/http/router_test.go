package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"

	auditservice "github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/auth"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/accounts"
	"github.com/mrlokans/library/internal/database/catalog"
	"github.com/mrlokans/library/internal/database/checkouts"
	"github.com/mrlokans/library/internal/database/settings"
	"github.com/mrlokans/library/internal/library"
	"github.com/mrlokans/library/internal/metrics"
	"github.com/mrlokans/library/internal/settingsstore"
)

const (
	testAdminEmail    = "admin@library.local"
	testAdminPassword = "admin-secret"
)

type routerFixture struct {
	router *gin.Engine
	now    time.Time
	audit  *auditservice.Service
}

// client returns a cookie-replaying client for one browser session.
func (f *routerFixture) client(t *testing.T) *testClient {
	return &testClient{t: t, router: f.router, cookies: map[string]*http.Cookie{}}
}

func setupRouter(t *testing.T, csrfSecret []byte) *routerFixture {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "library.db"), database.Options{LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	authCfg := config.Auth{
		SessionLifetime: 24 * time.Hour,
		BcryptCost:      bcrypt.MinCost,
	}
	ledgerCfg := config.Ledger{LoanPeriod: config.DefaultLoanPeriod, DailyLateFee: 1.00}

	catalogRepo := catalog.NewRepository(db.DB)
	accountRepo := accounts.NewRepository(db.DB)
	checkoutRepo := checkouts.NewRepository(db.DB)

	authService := auth.NewService(accountRepo, authCfg)
	_, err = authService.EnsureAdmin(testAdminEmail, testAdminPassword)
	require.NoError(t, err)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sessionManager, err := auth.NewSessionManager(sqlDB, authCfg)
	require.NoError(t, err)

	auditService := auditservice.NewService(auditrepo.NewRepository(db.DB))
	t.Cleanup(auditService.Wait)

	m := metrics.New()
	m.RegisterOpenCheckouts(func() (int64, error) {
		return checkoutRepo.CountOpen(context.Background())
	})

	f := &routerFixture{
		now:   time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		audit: auditService,
	}
	f.router = NewRouter(RouterConfig{
		Version:        "test",
		Database:       db,
		Catalog:        library.NewCatalog(catalogRepo, false),
		Ledger:         library.NewLedger(checkoutRepo, catalogRepo, accountRepo, ledgerCfg.LoanPeriod),
		Settings:       settingsstore.New(settings.NewRepository(db.DB), ledgerCfg),
		Clock:          func() time.Time { return f.now },
		AuthService:    authService,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		Audit:          auditService,
		Metrics:        m,
	})
	return f
}

// testClient replays the latest cookies on every request.
type testClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
	header  http.Header
}

func (tc *testClient) do(method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	tc.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, values := range tc.header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	for _, c := range tc.cookies {
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	tc.router.ServeHTTP(rr, req)
	for _, c := range rr.Result().Cookies() {
		tc.cookies[c.Name] = c
	}

	var decoded map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &decoded)
	return rr, decoded
}

func (tc *testClient) login(email, password string) {
	tc.t.Helper()
	rr, _ := tc.do(http.MethodPost, "/api/login", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(tc.t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestRouter_HealthAndPing(t *testing.T) {
	f := setupRouter(t, nil)
	c := f.client(t)

	rr, body := c.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "healthy", body["status"])

	rr, body = c.do(http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", body["message"])
}

func TestRouter_AccessControl(t *testing.T) {
	f := setupRouter(t, nil)
	anon := f.client(t)

	rr, _ := anon.do(http.MethodGet, "/api/books", "")
	assert.Equal(t, http.StatusOK, rr.Code, "catalog is public")

	rr, _ = anon.do(http.MethodPost, "/api/checkouts/111", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, _ = anon.do(http.MethodPost, "/api/admin/books", `{"title":"Dune","isbn":"111"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	member := f.client(t)
	rr, _ = member.do(http.MethodPost, "/api/accounts", `{"email":"alice@x.com","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	member.login("alice@x.com", "pw")

	rr, _ = member.do(http.MethodGet, "/api/checkouts", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	for _, path := range []string{"/api/admin/accounts", "/api/admin/checkouts", "/api/admin/settings", "/api/admin/audit"} {
		rr, _ = member.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusForbidden, rr.Code, path)
	}
}

func TestRouter_LateReturnScenario(t *testing.T) {
	f := setupRouter(t, nil)

	admin := f.client(t)
	admin.login(testAdminEmail, testAdminPassword)
	rr, body := admin.do(http.MethodPost, "/api/admin/books", `{"title":"Dune","author":"Herbert","isbn":"111"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Added Dune (111) to the catalog", body["message"])

	alice := f.client(t)
	rr, _ = alice.do(http.MethodPost, "/api/accounts", `{"email":"alice@x.com","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	alice.login("alice@x.com", "pw")

	rr, body = alice.do(http.MethodPost, "/api/checkouts/111", "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "Checked out Dune, due 2024-01-15", body["message"])

	rr, body = alice.do(http.MethodPost, "/api/checkouts/111", "")
	require.Equal(t, http.StatusOK, rr.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["already_checked_out"])

	rr, body = alice.do(http.MethodGet, "/api/checkouts", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(1), body["count"])

	f.now = f.now.Add(20 * 24 * time.Hour)

	rr, body = alice.do(http.MethodGet, "/api/checkouts", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "6.00", body["accrued_total"])

	rr, body = alice.do(http.MethodPost, "/api/checkouts/111/return", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Returned Dune, late fee 6.00", body["message"])
	data = body["data"].(map[string]any)
	assert.Equal(t, "6.00", data["late_fee"])
	assert.Equal(t, float64(6), data["days_late"])

	rr, body = alice.do(http.MethodGet, "/api/checkouts", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(0), body["count"])

	rr, _ = alice.do(http.MethodPost, "/api/checkouts/111/return", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	_, body = alice.do(http.MethodGet, "/api/session", "")
	assert.Equal(t, "Returned Dune, late fee 6.00", body["flash"])

	f.audit.Wait()
	rr, body = admin.do(http.MethodGet, "/api/admin/audit?actor=alice@x.com&type=return", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(1), body["total"])

	rr, _ = admin.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `library_checkouts_total{outcome="created"} 1`)
	assert.Contains(t, rr.Body.String(), `library_checkouts_total{outcome="already_held"} 1`)
	assert.Contains(t, rr.Body.String(), "library_late_fees_cents_total 600")
	assert.Contains(t, rr.Body.String(), "library_open_checkouts 0")
}

func TestRouter_LateFeeOverride(t *testing.T) {
	f := setupRouter(t, nil)
	admin := f.client(t)
	admin.login(testAdminEmail, testAdminPassword)

	rr, body := admin.do(http.MethodPut, "/api/admin/settings/late-fee", `{"daily_rate":"0.25"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Daily late fee set to 0.25", body["message"])

	_, body = admin.do(http.MethodGet, "/api/admin/settings/late-fee", "")
	assert.Equal(t, "0.25", body["daily_rate"])
	assert.Equal(t, settingsstore.SourceDatabase, body["source"])

	rr, _ = admin.do(http.MethodPut, "/api/admin/settings/late-fee", `{"daily_rate":"-1"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, body = admin.do(http.MethodDelete, "/api/admin/settings/late-fee", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Daily late fee reset to 1.00", body["message"])
}

func TestRouter_RemoveAccountEndsAccess(t *testing.T) {
	f := setupRouter(t, nil)

	alice := f.client(t)
	rr, _ := alice.do(http.MethodPost, "/api/accounts", `{"email":"alice@x.com","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	alice.login("alice@x.com", "pw")

	admin := f.client(t)
	admin.login(testAdminEmail, testAdminPassword)

	rr, _ = admin.do(http.MethodDelete, "/api/admin/accounts/"+testAdminEmail, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code, "admins cannot remove themselves")

	rr, _ = admin.do(http.MethodDelete, "/api/admin/accounts/alice@x.com", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr, _ = admin.do(http.MethodDelete, "/api/admin/accounts/alice@x.com", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = alice.do(http.MethodGet, "/api/checkouts", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_CSRFProtectsMutations(t *testing.T) {
	f := setupRouter(t, []byte("0123456789abcdef0123456789abcdef"))
	c := f.client(t)

	rr, _ := c.do(http.MethodPost, "/api/accounts", `{"email":"alice@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, body := c.do(http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, rr.Code)
	token, _ := body["csrf_token"].(string)
	require.NotEmpty(t, token)

	c.header = http.Header{}
	c.header.Set(auth.CSRFTokenHeader, token)
	rr, _ = c.do(http.MethodPost, "/api/accounts", `{"email":"alice@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}
