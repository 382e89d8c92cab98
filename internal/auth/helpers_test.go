package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/accounts"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testAuthConfig() config.Auth {
	return config.Auth{
		SessionLifetime: 24 * time.Hour,
		SecureCookies:   false,
		BcryptCost:      bcrypt.MinCost, // Low cost for faster tests
	}
}

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "auth.db"), database.Options{LogLevel: logger.Silent})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupService(t *testing.T) (*Service, *database.Database) {
	t.Helper()
	db := setupTestDB(t)
	return NewService(accounts.NewRepository(db.DB), testAuthConfig()), db
}

func setupSessionManager(t *testing.T, db *database.Database) *SessionManager {
	t.Helper()
	sqlDB, err := db.DB.DB()
	if err != nil {
		t.Fatalf("failed to get SQL DB: %v", err)
	}
	sm, err := NewSessionManager(sqlDB, testAuthConfig())
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}
