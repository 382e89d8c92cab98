package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "settings.db"), database.Options{LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.DB)
}

func TestRepository_LateFeeOverride(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetSetting(entities.SettingKeyLateFeeDailyRate)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.SetSetting(entities.SettingKeyLateFeeDailyRate, "50"))
	require.NoError(t, repo.SetSetting(entities.SettingKeyLateFeeDailyRate, "75"))

	setting, err := repo.GetSetting(entities.SettingKeyLateFeeDailyRate)
	require.NoError(t, err)
	assert.Equal(t, "75", setting.Value)

	var rows int64
	require.NoError(t, repo.db.Model(&entities.Setting{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows, "overwriting a key keeps a single row")
}

func TestRepository_KeysAreIndependent(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.SetSetting(entities.SettingKeyLateFeeDailyRate, "50"))
	require.NoError(t, repo.SetSetting(entities.SettingKeyCatalogSeededAt, "2024-01-01T10:00:00Z"))

	require.NoError(t, repo.DeleteSetting(entities.SettingKeyLateFeeDailyRate))

	_, err := repo.GetSetting(entities.SettingKeyLateFeeDailyRate)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	seeded, err := repo.GetSetting(entities.SettingKeyCatalogSeededAt)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T10:00:00Z", seeded.Value)
}

func TestRepository_DeleteMissingKey(t *testing.T) {
	repo := setupTestDB(t)
	assert.NoError(t, repo.DeleteSetting(entities.SettingKeyLateFeeDailyRate))
}
