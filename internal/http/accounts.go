package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/auth"
)

// AccountsController lets administrators list and remove accounts.
type AccountsController struct {
	accounts AccountAdmin
	auditor  Auditor
	flash    Flasher
}

func NewAccountsController(accounts AccountAdmin, auditor Auditor, flash Flasher) *AccountsController {
	return &AccountsController{
		accounts: accounts,
		auditor:  auditor,
		flash:    flash,
	}
}

// GET /api/admin/accounts
func (ac *AccountsController) ListAccounts(c *gin.Context) {
	accounts, err := ac.accounts.ListAccounts()
	if err != nil {
		respondLibraryError(c, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts, "count": len(accounts)})
}

// RemoveAccount deletes an account and its open checkouts. Administrators
// cannot remove themselves.
// DELETE /api/admin/accounts/:email
func (ac *AccountsController) RemoveAccount(c *gin.Context) {
	email := auth.NormalizeEmail(c.Param("email"))
	if email == "" {
		respondBadRequest(c, "email is required")
		return
	}

	actor := identity(c).Email
	if email == actor {
		respondBadRequest(c, "you cannot remove your own account")
		return
	}

	if err := ac.accounts.RemoveAccount(email); err != nil {
		respondLibraryError(c, err, "remove account")
		return
	}

	message := "Removed account " + email
	if ac.auditor != nil {
		ac.auditor.LogAccount(actor, "account_remove", email, message)
	}
	respondMessage(c, ac.flash, http.StatusOK, message, nil)
}
