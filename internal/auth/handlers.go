package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/library"
)

// Auditor records authentication events.
type Auditor interface {
	LogAuth(email, action, ipAddr, userAgent string, success bool)
}

// AuthController serves account creation, login, logout and session state.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	auditor        Auditor
}

// NewAuthController creates a new authentication controller.
// sessionManager and auditor may be nil.
func NewAuthController(service *Service, sessionManager *SessionManager, auditor Auditor) *AuthController {
	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		auditor:        auditor,
	}
}

// RegisterRoutes registers authentication routes on the API group.
func (ac *AuthController) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/accounts", ac.Register)
	api.POST("/login", ac.Login)
	api.POST("/logout", ac.Logout)
	api.GET("/session", ac.Session)
}

type credentialsRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Register handles create-account. Registering an existing email succeeds
// without changing the stored password.
func (ac *AuthController) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := ac.service.Register(req.Email, req.Password)
	if err != nil {
		ac.respondError(c, err)
		return
	}

	email := NormalizeEmail(req.Email)
	ac.logAuth(c, email, "register", true)

	if !created {
		ac.respond(c, http.StatusOK, "An account for "+email+" already exists", gin.H{"created": false})
		return
	}
	ac.respond(c, http.StatusCreated, "Account created for "+email, gin.H{"created": true})
}

// Login verifies credentials and starts a session.
func (ac *AuthController) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	account, err := ac.service.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, library.ErrAuthenticationFailed) {
			ac.logAuth(c, NormalizeEmail(req.Email), "login", false)
		}
		ac.respondError(c, err)
		return
	}

	identity := IdentityFor(account)
	if ac.sessionManager != nil {
		if err := ac.sessionManager.CreateSession(c.Request, identity); err != nil {
			log.Printf("Failed to create session for %s: %v", identity.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}
	}
	SetIdentity(c, identity)
	ac.logAuth(c, identity.Email, "login", true)

	ac.respond(c, http.StatusOK, "Signed in as "+identity.Email, gin.H{"identity": identity})
}

// Logout ends the session. Logging out without a session is not an error.
func (ac *AuthController) Logout(c *gin.Context) {
	identity := GetIdentity(c)
	if ac.sessionManager != nil {
		if err := ac.sessionManager.DestroySession(c.Request); err != nil {
			log.Printf("Failed to destroy session: %v", err)
		}
	}
	SetIdentity(c, library.Anonymous)
	if identity.IsAuthenticated() {
		ac.logAuth(c, identity.Email, "logout", true)
	}

	ac.respond(c, http.StatusOK, "Signed out", nil)
}

// Session reports the current identity, the CSRF token and the pending
// flash message, which is consumed by this call.
func (ac *AuthController) Session(c *gin.Context) {
	identity := GetIdentity(c)
	resp := gin.H{
		"authenticated": identity.IsAuthenticated(),
		"identity":      identity,
		"csrf_token":    GetCSRFToken(c),
	}
	if ac.sessionManager != nil {
		if flash := ac.sessionManager.PopFlash(c.Request); flash != "" {
			resp["flash"] = flash
		}
	}
	c.JSON(http.StatusOK, resp)
}

// respond writes message as both the response message and the session flash.
func (ac *AuthController) respond(c *gin.Context, status int, message string, extra gin.H) {
	if ac.sessionManager != nil {
		ac.sessionManager.PutFlash(c.Request, message)
	}
	body := gin.H{"message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func (ac *AuthController) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, library.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, library.ErrAuthenticationFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	default:
		log.Printf("Auth request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (ac *AuthController) logAuth(c *gin.Context, email, action string, success bool) {
	if ac.auditor == nil {
		return
	}
	ac.auditor.LogAuth(email, action, c.ClientIP(), c.Request.UserAgent(), success)
}
