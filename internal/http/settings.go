package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/library"
)

type SettingsController struct {
	store   SettingsStore
	auditor Auditor
	flash   Flasher
}

func NewSettingsController(store SettingsStore, auditor Auditor, flash Flasher) *SettingsController {
	return &SettingsController{
		store:   store,
		auditor: auditor,
		flash:   flash,
	}
}

// GetSettings returns the effective runtime settings.
// GET /api/admin/settings
func (sc *SettingsController) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"late_fee":          sc.store.LateFeeInfo(),
		"catalog_seeded_at": sc.store.CatalogSeededAt(),
	})
}

// GET /api/admin/settings/late-fee
func (sc *SettingsController) GetLateFee(c *gin.Context) {
	c.JSON(http.StatusOK, sc.store.LateFeeInfo())
}

type lateFeeRequest struct {
	DailyRate string `json:"daily_rate" form:"daily_rate"`
}

// UpdateLateFee stores a daily rate override, e.g. {"daily_rate": "0.50"}.
// PUT /api/admin/settings/late-fee
func (sc *SettingsController) UpdateLateFee(c *gin.Context) {
	var req lateFeeRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	rate, err := library.ParseCents(req.DailyRate)
	if err != nil {
		respondLibraryError(c, err, "parse late fee")
		return
	}
	if err := sc.store.SetLateFeeDailyRate(rate); err != nil {
		respondLibraryError(c, err, "save late fee")
		return
	}

	message := "Daily late fee set to " + rate.String()
	sc.logSettings(c, "late_fee_update", message)
	respondMessage(c, sc.flash, http.StatusOK, message, sc.store.LateFeeInfo())
}

// ResetLateFee removes the override so the configured rate applies again.
// DELETE /api/admin/settings/late-fee
func (sc *SettingsController) ResetLateFee(c *gin.Context) {
	if err := sc.store.ClearLateFeeDailyRate(); err != nil {
		respondLibraryError(c, err, "reset late fee")
		return
	}

	info := sc.store.LateFeeInfo()
	message := "Daily late fee reset to " + info.DailyRate.String()
	sc.logSettings(c, "late_fee_reset", message)
	respondMessage(c, sc.flash, http.StatusOK, message, info)
}

func (sc *SettingsController) logSettings(c *gin.Context, action, description string) {
	if sc.auditor != nil {
		sc.auditor.LogSettings(identity(c).Email, action, description)
	}
}
