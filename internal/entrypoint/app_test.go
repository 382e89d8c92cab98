package entrypoint

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		Database: config.Database{Path: filepath.Join(dir, "library.db")},
		Ledger:   config.Ledger{LoanPeriod: config.DefaultLoanPeriod, DailyLateFee: 1.00},
		Admin:    config.Admin{Email: "admin@library.local", Password: "admin-secret"},
		Auth: config.Auth{
			SessionLifetime: time.Hour,
			BcryptCost:      bcrypt.MinCost,
		},
	}
}

func setupApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	db, err := database.Open(cfg.Database.Path, database.Options{LogLevel: logger.Silent})
	require.NoError(t, err)
	app := newApp(cfg, db)
	t.Cleanup(func() { app.Close() })
	return app
}

func TestApp_EnsureAdminOnlyOnce(t *testing.T) {
	cfg := testConfig(t.TempDir())
	app := setupApp(t, cfg)

	require.NoError(t, app.EnsureAdmin())

	cfg.Admin.Password = "changed"
	require.NoError(t, app.EnsureAdmin())

	account, err := app.Auth.Authenticate("admin@library.local", "admin-secret")
	require.NoError(t, err)
	assert.True(t, account.IsAdmin)

	_, err = app.Auth.Authenticate("admin@library.local", "changed")
	assert.Error(t, err)
}

func TestApp_EnsureAdminGeneratesPassword(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Admin.Password = ""
	app := setupApp(t, cfg)

	require.NoError(t, app.EnsureAdmin())
	account, err := app.Auth.GetAccount("admin@library.local")
	require.NoError(t, err)
	assert.True(t, account.IsAdmin)
	assert.NotEmpty(t, account.PasswordHash)

	// A second start finds the account and leaves it alone.
	require.NoError(t, app.EnsureAdmin())
	again, err := app.Auth.GetAccount("admin@library.local")
	require.NoError(t, err)
	assert.Equal(t, account.PasswordHash, again.PasswordHash)
}

func TestApp_SeedCatalogOnce(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "books.csv")
	require.NoError(t, os.WriteFile(seedPath, []byte(
		"The Hobbit;J.R.R. Tolkien;9780261102217\n"+
			"Dune;Frank Herbert;9780441013593\n"+
			"broken row\n"+
			"Emma;Jane Austen;not-an-isbn\n",
	), 0o644))

	cfg := testConfig(dir)
	cfg.Catalog.SeedPath = seedPath
	app := setupApp(t, cfg)
	ctx := context.Background()

	require.Nil(t, app.Settings.CatalogSeededAt())
	require.NoError(t, app.SeedCatalogOnce(ctx))

	books, err := app.Catalog.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 2)
	assert.NotNil(t, app.Settings.CatalogSeededAt())

	// Books removed after the first load are not brought back on restart.
	require.NoError(t, app.Catalog.RemoveBook(ctx, "9780441013593"))
	require.NoError(t, app.SeedCatalogOnce(ctx))

	books, err = app.Catalog.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestApp_SeedCatalogMissingFile(t *testing.T) {
	cfg := testConfig(t.TempDir())
	app := setupApp(t, cfg)

	_, err := app.SeedCatalog(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
	assert.Nil(t, app.Settings.CatalogSeededAt())
}

func TestCSRFSecret(t *testing.T) {
	secret, err := csrfSecret("00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff")
	require.NoError(t, err)
	assert.Len(t, secret, 32)

	secret, err = csrfSecret("not hex at all")
	require.NoError(t, err)
	assert.Equal(t, []byte("not hex at all"), secret)

	secret, err = csrfSecret("")
	require.NoError(t, err)
	assert.Len(t, secret, 32)
}
