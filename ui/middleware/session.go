package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"edadash/internal/metrics"
	"edadash/internal/session"
)

// SessionKey is the gin context key holding the request's *session.Session
const SessionKey = "session"

// EnsureSession attaches the caller's session to the request, creating one
// and setting the cookie when the browser has none or it has expired.
func EnsureSession(store *session.Store, cookieName string, maxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cookieName)
		sess, created := store.GetOrCreate(id)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, sess.ID, maxAge, "/", "", false, true)
			metrics.ActiveSessions.Set(float64(store.Len()))
		}

		c.Set(SessionKey, sess)
		c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), sess))
		c.Next()
	}
}

// Session returns the session EnsureSession attached
func Session(c *gin.Context) *session.Session {
	if v, ok := c.Get(SessionKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	sess, _ := session.FromContext(c.Request.Context())
	return sess
}
