package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/library"
	"github.com/mrlokans/library/internal/metrics"
)

// CheckoutsController serves check-out, return and open loan listings.
// Every call acts on behalf of the identity resolved by the auth middleware.
type CheckoutsController struct {
	ledger  CirculationService
	rates   LateFeeRate
	auditor Auditor
	metrics *metrics.Metrics
	flash   Flasher
	now     func() time.Time
}

func NewCheckoutsController(ledger CirculationService, rates LateFeeRate, auditor Auditor, m *metrics.Metrics, flash Flasher) *CheckoutsController {
	return &CheckoutsController{
		ledger:  ledger,
		rates:   rates,
		auditor: auditor,
		metrics: m,
		flash:   flash,
		now:     time.Now,
	}
}

// CheckOut lends a book to the caller. Checking out a book already held
// returns the existing loan.
// POST /api/checkouts/:isbn
func (cc *CheckoutsController) CheckOut(c *gin.Context) {
	isbn, ok := parseISBNParam(c)
	if !ok {
		return
	}

	who := identity(c)
	result, err := cc.ledger.CheckOut(c.Request.Context(), who, isbn, cc.now())
	if err != nil {
		respondLibraryError(c, err, "check out")
		return
	}

	if cc.auditor != nil {
		cc.auditor.LogCheckout(who.Email, result)
	}
	cc.metrics.ObserveCheckout(result)

	co := result.Checkout
	if result.AlreadyCheckedOut {
		message := "You already have " + co.Book.Title + ", due " + co.DueTime.Format(time.DateOnly)
		respondMessage(c, cc.flash, http.StatusOK, message, result)
		return
	}
	message := "Checked out " + co.Book.Title + ", due " + co.DueTime.Format(time.DateOnly)
	respondMessage(c, cc.flash, http.StatusCreated, message, result)
}

// ReturnBook settles the caller's loan of a book, charging the late fee at
// the current daily rate.
// POST /api/checkouts/:isbn/return
func (cc *CheckoutsController) ReturnBook(c *gin.Context) {
	isbn, ok := parseISBNParam(c)
	if !ok {
		return
	}

	who := identity(c)
	receipt, err := cc.ledger.ReturnBook(c.Request.Context(), who, isbn, cc.now(), cc.rates.LateFeeDailyRate())
	if err != nil {
		respondLibraryError(c, err, "return book")
		return
	}

	if cc.auditor != nil {
		cc.auditor.LogReturn(who.Email, receipt)
	}
	cc.metrics.ObserveReturn(receipt)

	message := "Returned " + receipt.Checkout.Book.Title
	if receipt.Fee > 0 {
		message += ", late fee " + receipt.Fee.String()
	}
	respondMessage(c, cc.flash, http.StatusOK, message, receipt)
}

// ListMine returns the caller's open loans with accrued fees.
// GET /api/checkouts
func (cc *CheckoutsController) ListMine(c *gin.Context) {
	rate := cc.rates.LateFeeDailyRate()
	open, err := cc.ledger.ListOpenCheckouts(c.Request.Context(), identity(c), cc.now(), rate)
	if err != nil {
		respondLibraryError(c, err, "list checkouts")
		return
	}
	c.JSON(http.StatusOK, checkoutsResponse(open, rate))
}

// ListAll returns every open loan. ?overdue=true limits it to overdue ones.
// GET /api/admin/checkouts
func (cc *CheckoutsController) ListAll(c *gin.Context) {
	rate := cc.rates.LateFeeDailyRate()
	overdueOnly := c.Query("overdue") == "true"
	open, err := cc.ledger.ListAllOpenCheckouts(c.Request.Context(), cc.now(), rate, overdueOnly)
	if err != nil {
		respondLibraryError(c, err, "list all checkouts")
		return
	}
	c.JSON(http.StatusOK, checkoutsResponse(open, rate))
}

func checkoutsResponse(open []library.OpenCheckout, rate library.Cents) gin.H {
	var accrued library.Cents
	for _, co := range open {
		accrued += co.AccruedFee
	}
	return gin.H{
		"checkouts":     open,
		"count":         len(open),
		"daily_rate":    rate,
		"accrued_total": accrued,
	}
}
