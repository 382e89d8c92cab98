package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// SettingKeyLateFeeDailyRate overrides LATE_FEE_DAILY_RATE, stored as integer cents
	SettingKeyLateFeeDailyRate = "late_fee_daily_rate_cents"
	SettingKeyCatalogSeededAt  = "catalog_seeded_at"
)
