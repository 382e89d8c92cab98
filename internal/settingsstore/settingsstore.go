package settingsstore

import (
	"errors"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/library"
)

// Value sources, reported alongside effective values.
const (
	SourceDatabase    = "database"
	SourceEnvironment = "environment"
	SourceDefault     = "default"
)

// Repository is the settings table.
type Repository interface {
	GetSetting(key string) (*entities.Setting, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
}

// Priority: database > environment > default
type SettingsStore struct {
	repo   Repository
	ledger config.Ledger
}

func New(repo Repository, ledger config.Ledger) *SettingsStore {
	return &SettingsStore{repo: repo, ledger: ledger}
}

// LateFeeDailyRate returns the effective daily late fee.
func (s *SettingsStore) LateFeeDailyRate() library.Cents {
	return s.LateFeeInfo().DailyRate
}

type LateFeeInfo struct {
	DailyRate library.Cents `json:"daily_rate"`
	Source    string        `json:"source"` // "database", "environment", or "default"
}

func (s *SettingsStore) LateFeeInfo() LateFeeInfo {
	setting, err := s.repo.GetSetting(entities.SettingKeyLateFeeDailyRate)
	if err == nil && setting.Value != "" {
		if cents, err := strconv.ParseInt(setting.Value, 10, 64); err == nil && library.ValidateDailyRate(library.Cents(cents)) == nil {
			return LateFeeInfo{DailyRate: library.Cents(cents), Source: SourceDatabase}
		}
	}

	source := SourceDefault
	if os.Getenv("LATE_FEE_DAILY_RATE") != "" {
		source = SourceEnvironment
	}

	rate, err := library.CentsFromAmount(s.ledger.DailyLateFee)
	if err != nil {
		rate, _ = library.CentsFromAmount(config.DefaultDailyLateFee)
		source = SourceDefault
	}
	return LateFeeInfo{DailyRate: rate, Source: source}
}

// SetLateFeeDailyRate stores a database override.
func (s *SettingsStore) SetLateFeeDailyRate(rate library.Cents) error {
	if err := library.ValidateDailyRate(rate); err != nil {
		return err
	}
	return s.repo.SetSetting(entities.SettingKeyLateFeeDailyRate, strconv.FormatInt(int64(rate), 10))
}

// ClearLateFeeDailyRate removes the database override.
func (s *SettingsStore) ClearLateFeeDailyRate() error {
	return s.clear(entities.SettingKeyLateFeeDailyRate)
}

// MarkCatalogSeeded records when the catalog seed file was last loaded.
func (s *SettingsStore) MarkCatalogSeeded(at time.Time) error {
	return s.repo.SetSetting(entities.SettingKeyCatalogSeededAt, at.UTC().Format(time.RFC3339))
}

// CatalogSeededAt returns the last seed time, or nil if the catalog was never seeded.
func (s *SettingsStore) CatalogSeededAt() *time.Time {
	setting, err := s.repo.GetSetting(entities.SettingKeyCatalogSeededAt)
	if err != nil || setting.Value == "" {
		return nil
	}
	at, err := time.Parse(time.RFC3339, setting.Value)
	if err != nil {
		return nil
	}
	return &at
}

func (s *SettingsStore) clear(key string) error {
	err := s.repo.DeleteSetting(key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
