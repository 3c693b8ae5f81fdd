package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CookieTransport carries the access token in an HttpOnly cookie.
type CookieTransport struct {
	Name   string
	MaxAge int
	Secure bool
}

func (t CookieTransport) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(t.Name, token, t.MaxAge, "/", "", t.Secure, true)
}

func (t CookieTransport) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(t.Name, "", -1, "/", "", t.Secure, true)
}

// Token reads the token from the cookie, falling back to an Authorization bearer header.
func (t CookieTransport) Token(r *http.Request) string {
	if cookie, err := r.Cookie(t.Name); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
