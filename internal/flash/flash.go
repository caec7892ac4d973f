// Package flash carries one-shot notices across a redirect boundary. A notice
// is written to the session before redirecting and consumed exactly once by
// the middleware on the next request, whichever route serves it.
package flash

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kontak/internal/logger"
)

// Notice types select the banner style in the layout.
const (
	TypeSuccess = "success"
	TypeDanger  = "danger"
)

const (
	sessionKeyType    = "flash_type"
	sessionKeyMessage = "flash_message"
	contextKey        = "flash"
)

// Notice is a one-shot message shown on the next rendered page.
type Notice struct {
	Type    string
	Message string
}

// Set stores a notice in the session for the next request to consume.
func Set(c *gin.Context, noticeType, message string) error {
	session := sessions.Default(c)
	session.Set(sessionKeyType, noticeType)
	session.Set(sessionKeyMessage, message)
	return session.Save()
}

// Middleware moves a pending notice from the session into the request context,
// clearing it so it renders at most once.
func Middleware(c *gin.Context) {
	session := sessions.Default(c)

	message, _ := session.Get(sessionKeyMessage).(string)
	if message != "" {
		noticeType, _ := session.Get(sessionKeyType).(string)

		session.Delete(sessionKeyType)
		session.Delete(sessionKeyMessage)
		if err := session.Save(); err != nil {
			logger.Log.Warn("failed to clear flash notice", zap.Error(err))
		}

		c.Set(contextKey, Notice{Type: noticeType, Message: message})
	}

	c.Next()
}

// From returns the notice consumed for this request, if any.
func From(c *gin.Context) (Notice, bool) {
	value, exists := c.Get(contextKey)
	if !exists {
		return Notice{}, false
	}
	notice, ok := value.(Notice)
	return notice, ok
}
