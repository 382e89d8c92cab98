package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/auth"
	"github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
	"github.com/mrlokans/library/internal/settingsstore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter runs every request as who.
func newTestRouter(who library.Identity) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		auth.SetIdentity(c, who)
		c.Next()
	})
	return router
}

var (
	aliceID = library.Identity{Email: "alice@x.com"}
	adminID = library.Identity{Email: "admin@library.local", IsAdmin: true}
)

type mockCatalog struct {
	books     map[string]entities.Book
	removed   []string
	searchErr error
}

func newMockCatalog(books ...entities.Book) *mockCatalog {
	m := &mockCatalog{books: make(map[string]entities.Book)}
	for _, b := range books {
		m.books[b.ISBN] = b
	}
	return m
}

func (m *mockCatalog) AddBook(ctx context.Context, title, author, isbn string) (*entities.Book, error) {
	normalized, err := library.NormalizeISBN(isbn)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, library.ErrTitleRequired
	}
	book := entities.Book{ISBN: normalized, Title: title, Author: author}
	m.books[normalized] = book
	return &book, nil
}

func (m *mockCatalog) RemoveBook(ctx context.Context, isbn string) error {
	if _, ok := m.books[isbn]; !ok {
		return library.ErrBookNotFound
	}
	delete(m.books, isbn)
	m.removed = append(m.removed, isbn)
	return nil
}

func (m *mockCatalog) SearchBooks(ctx context.Context, query string) ([]entities.Book, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	var result []entities.Book
	for _, b := range m.books {
		if strings.Contains(b.Title, query) || strings.Contains(b.Author, query) || strings.Contains(b.ISBN, query) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *mockCatalog) GetBook(ctx context.Context, isbn string) (*entities.Book, error) {
	b, ok := m.books[isbn]
	if !ok {
		return nil, library.ErrBookNotFound
	}
	return &b, nil
}

func (m *mockCatalog) ListBooks(ctx context.Context) ([]entities.Book, error) {
	result := make([]entities.Book, 0, len(m.books))
	for _, b := range m.books {
		result = append(result, b)
	}
	return result, nil
}

// mockLedger records the arguments of the last call and returns canned results.
type mockLedger struct {
	checkoutResult *library.CheckoutResult
	receipt        *library.ReturnReceipt
	open           []library.OpenCheckout
	err            error

	gotWho         library.Identity
	gotISBN        string
	gotNow         time.Time
	gotRate        library.Cents
	gotOverdueOnly bool
}

func (m *mockLedger) CheckOut(ctx context.Context, who library.Identity, isbn string, now time.Time) (*library.CheckoutResult, error) {
	m.gotWho, m.gotISBN, m.gotNow = who, isbn, now
	return m.checkoutResult, m.err
}

func (m *mockLedger) ReturnBook(ctx context.Context, who library.Identity, isbn string, now time.Time, dailyRate library.Cents) (*library.ReturnReceipt, error) {
	m.gotWho, m.gotISBN, m.gotNow, m.gotRate = who, isbn, now, dailyRate
	return m.receipt, m.err
}

func (m *mockLedger) ListOpenCheckouts(ctx context.Context, who library.Identity, now time.Time, dailyRate library.Cents) ([]library.OpenCheckout, error) {
	m.gotWho, m.gotNow, m.gotRate = who, now, dailyRate
	return m.open, m.err
}

func (m *mockLedger) ListAllOpenCheckouts(ctx context.Context, now time.Time, dailyRate library.Cents, overdueOnly bool) ([]library.OpenCheckout, error) {
	m.gotNow, m.gotRate, m.gotOverdueOnly = now, dailyRate, overdueOnly
	return m.open, m.err
}

type mockSettings struct {
	rate       library.Cents
	override   bool
	seededAt   *time.Time
	setErr     error
	clearCalls int
}

func (m *mockSettings) LateFeeDailyRate() library.Cents {
	return m.LateFeeInfo().DailyRate
}

func (m *mockSettings) LateFeeInfo() settingsstore.LateFeeInfo {
	if m.override {
		return settingsstore.LateFeeInfo{DailyRate: m.rate, Source: settingsstore.SourceDatabase}
	}
	return settingsstore.LateFeeInfo{DailyRate: 100, Source: settingsstore.SourceDefault}
}

func (m *mockSettings) SetLateFeeDailyRate(rate library.Cents) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.rate, m.override = rate, true
	return nil
}

func (m *mockSettings) ClearLateFeeDailyRate() error {
	m.clearCalls++
	m.override = false
	return nil
}

func (m *mockSettings) CatalogSeededAt() *time.Time {
	return m.seededAt
}

type mockAccounts struct {
	accounts []entities.Account
	removed  []string
}

func (m *mockAccounts) ListAccounts() ([]entities.Account, error) {
	return m.accounts, nil
}

func (m *mockAccounts) RemoveAccount(email string) error {
	for i, a := range m.accounts {
		if a.Email == email {
			m.accounts = append(m.accounts[:i], m.accounts[i+1:]...)
			m.removed = append(m.removed, email)
			return nil
		}
	}
	return library.ErrAccountNotFound
}

// mockAuditor collects the actions it is asked to record.
type mockAuditor struct {
	mu      sync.Mutex
	actions []string
	actors  []string
}

func (m *mockAuditor) record(actor, action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actors = append(m.actors, actor)
	m.actions = append(m.actions, action)
}

func (m *mockAuditor) LogCheckout(actor string, result *library.CheckoutResult) {
	m.record(actor, "checkout")
}

func (m *mockAuditor) LogReturn(actor string, receipt *library.ReturnReceipt) {
	m.record(actor, "return")
}

func (m *mockAuditor) LogCatalog(actor, action, isbn, description string, err error) {
	if err != nil {
		action += "_failed"
	}
	m.record(actor, action)
}

func (m *mockAuditor) LogAccount(actor, action, email, description string) {
	m.record(actor, action)
}

func (m *mockAuditor) LogSettings(actor, action, description string) {
	m.record(actor, action)
}

type mockAuditReader struct {
	events    []entities.AuditEvent
	gotFilter audit.Filter
	gotLimit  int
	gotOffset int
}

func (m *mockAuditReader) GetEvents(filter audit.Filter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	m.gotFilter, m.gotLimit, m.gotOffset = filter, limit, offset
	end := offset + limit
	if end > len(m.events) {
		end = len(m.events)
	}
	if offset > len(m.events) {
		offset = len(m.events)
	}
	return m.events[offset:end], int64(len(m.events)), nil
}

type mockFlasher struct {
	messages []string
}

func (m *mockFlasher) PutFlash(r *http.Request, message string) {
	m.messages = append(m.messages, message)
}
