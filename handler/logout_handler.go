package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/middleware"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/services"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// LogoutHandler ends the current session. Dropping the store entry is the
// whole sign-out operation; there is nothing else to invalidate.
func LogoutHandler(c *gin.Context, store *services.SessionStore) {
	value, exists := c.Get("session")
	if !exists {
		utils.Unauthorized(c, "No active session")
		return
	}

	session := value.(*model.Session)
	store.Delete(session.SessionID)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", true, true)

	utils.Success(c, gin.H{
		"message": "Successfully logged out",
	})
}
