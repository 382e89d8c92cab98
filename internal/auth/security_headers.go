package auth

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware adds security headers to all responses.
// The API serves JSON only, so the content policy forbids everything.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("Permissions-Policy",
			"accelerometer=(), "+
				"camera=(), "+
				"geolocation=(), "+
				"microphone=(), "+
				"payment=(), "+
				"usb=()")

		// Account and checkout data must not be cached by intermediaries.
		c.Header("Cache-Control", "no-store")

		c.Next()
	}
}

// StrictTransportSecurityMiddleware adds the HSTS header to requests that
// arrived over HTTPS, directly or through a proxy.
func StrictTransportSecurityMiddleware(maxAge int) gin.HandlerFunc {
	value := "max-age=" + strconv.Itoa(maxAge) + "; includeSubDomains"
	return func(c *gin.Context) {
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			c.Header("Strict-Transport-Security", value)
		}
		c.Next()
	}
}
