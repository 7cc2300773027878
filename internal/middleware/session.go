package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionHeader carries the client's session id in both directions
	SessionHeader = "X-Session-ID"

	sessionIDKey    = "session_id"
	maxSessionIDLen = 128
)

// SessionID resolves the client session. A missing or malformed id starts a
// new session; the id in use is echoed back in the response header.
func SessionID() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if !validSessionID(sessionID) {
			sessionID = uuid.New().String()
		}

		c.Set(sessionIDKey, sessionID)
		c.Header(SessionHeader, sessionID)

		c.Next()
	}
}

// GetSessionID returns the session id set by SessionID
func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

func validSessionID(id string) bool {
	if id == "" || len(id) > maxSessionIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
