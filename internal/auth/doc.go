// Package auth owns library accounts and the per-request caller identity.
//
// Accounts are keyed by a normalized (trimmed, lowercased) email and store a
// bcrypt hash. Registration is idempotent: registering an existing email
// reports created=false and never replaces the stored hash.
//
// # Requests
//
// Sessions are kept by scs in the sessions table of the library database.
// Middleware.Handler resolves a library.Identity for every request and
// stores it in the Gin context; handlers read it with GetIdentity and pass
// it explicitly to the ledger:
//
//	router.Use(sessionManager.SessionLoadSave())
//	router.Use(authMiddleware.Handler())
//	admin := api.Group("/admin", authMiddleware.RequireAdmin())
//
//	identity := auth.GetIdentity(c)
//	result, err := ledger.CheckOut(ctx, identity, isbn, time.Now())
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<hex-32-bytes>  # Auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h           # Session duration
//	AUTH_BCRYPT_COST=12                 # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true            # HTTPS-only cookies
package auth
