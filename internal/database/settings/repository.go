// Package settings stores runtime overrides as key/value rows. Keys are the
// SettingKey constants in internal/entities; values are plain strings
// interpreted by settingsstore.
package settings

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/library/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSetting returns gorm.ErrRecordNotFound for an unset key.
func (r *Repository) GetSetting(key string) (*entities.Setting, error) {
	var setting entities.Setting
	if err := r.db.Where(&entities.Setting{Key: key}).Take(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// SetSetting writes value under key, replacing any previous value.
func (r *Repository) SetSetting(key, value string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      value,
			"updated_at": time.Now().UTC(),
		}),
	}).Create(&entities.Setting{Key: key, Value: value}).Error
}

// DeleteSetting unsets key. Unsetting a missing key is not an error.
func (r *Repository) DeleteSetting(key string) error {
	return r.db.Where(&entities.Setting{Key: key}).Delete(&entities.Setting{}).Error
}
