package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MindSpaceMan/flora-site/sessions"
)

const sessionCookie = "flora_session"

// Session resolves the visitor session from the cookie, minting a new one
// when the cookie is absent or unreadable. The session id lands in the gin
// context under "session_id".
func Session(m *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(sessionCookie); err == nil {
			if id, err := m.ParseToken(raw); err == nil {
				c.Set("session_id", id)
				c.Next()
				return
			}
		}

		id := sessions.NewSessionID()
		token, err := m.IssueToken(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
			c.Abort()
			return
		}
		c.SetCookie(sessionCookie, token, 30*24*3600, "/", "", false, true)
		c.Set("session_id", id)
		c.Next()
	}
}

// SessionID pulls the id set by Session. Second return is false when the
// middleware did not run.
func SessionID(c *gin.Context) (string, bool) {
	val, ok := c.Get("session_id")
	if !ok {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}
