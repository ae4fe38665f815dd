package storefront

import (
	"net/http"
)

// sessionCookieName identifies the storefront session cookie.
const sessionCookieName = "eira_session"

// sessionCookieMaxAge keeps the cart around for a browsing session without
// outliving the server-side idle expiry by much.
const sessionCookieMaxAge = 24 * 60 * 60

// GetSessionIDFromCookie retrieves the session ID from the session cookie.
// Returns empty string if the cookie is not present.
func GetSessionIDFromCookie(r *http.Request) string {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// SetSessionCookie sets the session cookie with appropriate security
// settings. secure should be true whenever the storefront is served over
// HTTPS.
func SetSessionCookie(w http.ResponseWriter, sessionID string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
