package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/library"
)

// ContextKeyIdentity is the Gin context key holding the caller's library.Identity.
const ContextKeyIdentity = "auth_identity"

// Middleware resolves the caller of each request and guards protected routes.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager) *Middleware {
	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
	}
}

// Handler resolves the identity for every request. Requests without a
// session, or whose account has since been removed, run as anonymous.
// It never rejects a request; use RequireAuth and RequireAdmin for that.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		SetIdentity(c, m.resolve(c))
		c.Next()
	}
}

func (m *Middleware) resolve(c *gin.Context) library.Identity {
	if m.sessionManager == nil {
		return library.Anonymous
	}

	email := m.sessionManager.SessionEmail(c.Request)
	if email == "" {
		return library.Anonymous
	}

	// Admin rights are re-read from the account on every request so a
	// removed account loses access immediately.
	account, err := m.service.GetAccount(email)
	if err != nil {
		if !errors.Is(err, library.ErrNotFound) {
			log.Printf("Failed to resolve session account %s: %v", email, err)
			return library.Anonymous
		}
		m.sessionManager.Remove(c.Request.Context(), SessionKeyEmail)
		m.sessionManager.Remove(c.Request.Context(), SessionKeyIsAdmin)
		return library.Anonymous
	}

	return IdentityFor(account)
}

// RequireAuth rejects anonymous callers with 401.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetIdentity(c).IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects anonymous callers with 401 and non-admins with 403.
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if !identity.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		if !identity.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// SetIdentity stores the caller in the Gin context.
func SetIdentity(c *gin.Context, identity library.Identity) {
	c.Set(ContextKeyIdentity, identity)
}

// GetIdentity retrieves the caller from the Gin context.
// Returns library.Anonymous when no identity was resolved.
func GetIdentity(c *gin.Context) library.Identity {
	if v, exists := c.Get(ContextKeyIdentity); exists {
		if identity, ok := v.(library.Identity); ok {
			return identity
		}
	}
	return library.Anonymous
}
