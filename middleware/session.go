package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/services"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

const SessionCookieName = "session_id"

// SessionMiddleware resolves the session cookie against the in-memory
// store and attaches the session to the request context. Idle sessions
// past the cutoff are ended on sight.
func SessionMiddleware(store *services.SessionStore, idleTimeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil {
			c.Next()
			return
		}

		session := store.Get(sessionID)
		if session == nil {
			c.SetCookie(SessionCookieName, "", -1, "/", "", true, true)
			c.Next()
			return
		}

		if time.Since(session.LastActivityAt) > idleTimeout {
			store.Delete(sessionID)
			c.SetCookie(SessionCookieName, "", -1, "/", "", true, true)
			c.Next()
			return
		}

		store.Touch(sessionID)

		c.Set("session", session)
		c.Set("user", session.User)
		c.Set("contact_id", session.ContactID)
		c.Next()
	}
}

// RequireSession gates the investor dashboard routes.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("session"); !exists {
			utils.Unauthorized(c, "Sign in required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CreateSession mints a session for an authenticated investor, stores it,
// and sets the cookie.
func CreateSession(c *gin.Context, user *model.SessionUser, federated bool, store *services.SessionStore) *model.Session {
	userAgent := c.Request.UserAgent()
	browser, os, device := utils.ParseUserAgent(userAgent)

	session := &model.Session{
		SessionID:      uuid.New().String(),
		ContactID:      user.ID,
		User:           user,
		CreatedAt:      time.Now(),
		LastActivityAt: time.Now(),
		DisplayName:    utils.GenerateSessionName(userAgent, ""),
		DeviceInfo:     fmt.Sprintf("%s on %s (%s)", browser, os, device),
		IPAddress:      c.ClientIP(),
		Federated:      federated,
	}

	store.Put(session)

	c.SetCookie(
		SessionCookieName,
		session.SessionID,
		0, // session cookie; the store is the actual lifetime authority
		"/",
		"",
		true,
		true,
	)

	return session
}
