// Package auth implements the shared-credential admin session guard.
//
// There is no per-user identity: staff share one admin password. The
// session cookie carries the SHA-256 hash of that password and is
// verified by re-hash-and-compare on every request.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"
)

const (
	// CookieName is the admin session cookie.
	CookieName = "admissions_admin"

	cookieMaxAge = 24 * time.Hour
)

// Guard verifies admin session cookies against the configured password.
type Guard struct {
	tokenHash string
	isDev     bool
}

// NewGuard creates a guard for the given shared admin password.
func NewGuard(adminPassword string, isDev bool) *Guard {
	return &Guard{
		tokenHash: HashPassword(adminPassword),
		isDev:     isDev,
	}
}

// HashPassword returns the hex-encoded SHA-256 digest of a password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Check reports whether the given password matches the admin credential.
func (g *Guard) Check(password string) bool {
	return subtle.ConstantTimeCompare([]byte(HashPassword(password)), []byte(g.tokenHash)) == 1
}

// Verify reports whether the request carries a valid admin session cookie.
func (g *Guard) Verify(r *http.Request) bool {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Value), []byte(g.tokenHash)) == 1
}

// IssueCookie sets the admin session cookie on the response.
func (g *Guard) IssueCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    g.tokenHash,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		Expires:  time.Now().Add(cookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !g.isDev,
	})
}

// ClearCookie removes the admin session cookie.
func (g *Guard) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !g.isDev,
	})
}

// Require rejects requests lacking a valid admin session cookie. The
// wrapped handler never runs for unauthorized callers.
func (g *Guard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Verify(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
