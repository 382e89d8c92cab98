package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/auth"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/accounts"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/catalog"
	"github.com/mrlokans/library/internal/database/checkouts"
	"github.com/mrlokans/library/internal/database/settings"
	"github.com/mrlokans/library/internal/library"
	"github.com/mrlokans/library/internal/settingsstore"
)

// App is the set of services built over one database. It backs both the
// HTTP server and the administrative CLI commands.
type App struct {
	Config    *config.Config
	DB        *database.Database
	Catalog   *library.Catalog
	Ledger    *library.Ledger
	Auth      *auth.Service
	Settings  *settingsstore.SettingsStore
	Audit     *audit.Service
	Checkouts *checkouts.Repository
}

// NewApp opens the database and wires repositories into services.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, db), nil
}

func newApp(cfg *config.Config, db *database.Database) *App {
	catalogRepo := catalog.NewRepository(db.DB)
	accountRepo := accounts.NewRepository(db.DB)
	checkoutRepo := checkouts.NewRepository(db.DB)

	loanPeriod := cfg.Ledger.LoanPeriod
	if loanPeriod <= 0 {
		loanPeriod = config.DefaultLoanPeriod
	}

	return &App{
		Config:    cfg,
		DB:        db,
		Catalog:   library.NewCatalog(catalogRepo, cfg.Catalog.CaseSensitive),
		Ledger:    library.NewLedger(checkoutRepo, catalogRepo, accountRepo, loanPeriod),
		Auth:      auth.NewService(accountRepo, cfg.Auth),
		Settings:  settingsstore.New(settings.NewRepository(db.DB), cfg.Ledger),
		Audit:     audit.NewService(auditrepo.NewRepository(db.DB)),
		Checkouts: checkoutRepo,
	}
}

// Close flushes pending audit writes and closes the database.
func (a *App) Close() error {
	a.Audit.Wait()
	return a.DB.Close()
}

// EnsureAdmin creates the built-in administrator unless it already exists.
// Without a configured password a random one is generated and logged once.
func (a *App) EnsureAdmin() error {
	email := a.Config.Admin.Email
	if email == "" {
		email = config.DefaultAdminEmail
	}

	password := a.Config.Admin.Password
	generated := false
	if password == "" {
		if _, err := a.Auth.GetAccount(email); err == nil {
			return nil
		} else if !errors.Is(err, library.ErrNotFound) {
			return err
		}
		var err error
		password, err = auth.GeneratePassword()
		if err != nil {
			return fmt.Errorf("failed to generate admin password: %w", err)
		}
		generated = true
	}

	created, err := a.Auth.EnsureAdmin(email, password)
	if err != nil {
		return fmt.Errorf("failed to create administrator %s: %w", email, err)
	}
	if !created {
		return nil
	}

	a.Audit.LogAccount("system", "account_create", auth.NormalizeEmail(email), "Created built-in administrator")
	if generated {
		log.Printf("Created administrator %s with generated password: %s (set ADMIN_PASSWORD to choose one)", email, password)
	} else {
		log.Printf("Created administrator %s", email)
	}
	return nil
}

// SeedCatalog loads a title;author;isbn file into the catalog and records
// the time of the load.
func (a *App) SeedCatalog(ctx context.Context, path string) (*library.SeedReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog seed: %w", err)
	}
	defer f.Close()

	report, err := a.Catalog.Seed(ctx, f)
	if err != nil {
		return report, err
	}

	for _, skipped := range report.Skipped {
		log.Printf("Catalog seed: skipped %s", skipped)
	}
	log.Printf("Catalog seed: loaded %d books from %s (%d skipped)", report.Loaded, path, len(report.Skipped))

	if err := a.Settings.MarkCatalogSeeded(time.Now().UTC()); err != nil {
		log.Printf("Failed to record catalog seed time: %v", err)
	}
	a.Audit.LogCatalog("system", "catalog_seed", "", fmt.Sprintf("Loaded %d books from %s", report.Loaded, path), nil)
	return report, nil
}

// SeedCatalogOnce seeds from the configured path unless a seed has already
// been recorded, so edits made through the API survive restarts.
func (a *App) SeedCatalogOnce(ctx context.Context) error {
	path := a.Config.Catalog.SeedPath
	if path == "" {
		return nil
	}
	if at := a.Settings.CatalogSeededAt(); at != nil {
		log.Printf("Catalog already seeded at %s, skipping %s", at.Format(time.RFC3339), path)
		return nil
	}
	_, err := a.SeedCatalog(ctx, path)
	return err
}
