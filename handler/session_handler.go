package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/dto"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/middleware"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/services"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

func GetActiveSessions(c *gin.Context, store *services.SessionStore) {
	value, exists := c.Get("session")
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	current := value.(*model.Session)

	sessions := store.ActiveForContact(current.ContactID)
	summaries := make([]dto.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, dto.SessionSummary{
			SessionID:      s.SessionID,
			DisplayName:    s.DisplayName,
			DeviceInfo:     s.DeviceInfo,
			IPAddress:      s.IPAddress,
			CreatedAt:      s.CreatedAt.Format(time.RFC3339),
			LastActivityAt: s.LastActivityAt.Format(time.RFC3339),
			Current:        s.SessionID == current.SessionID,
		})
	}

	utils.Success(c, gin.H{
		"sessions": summaries,
	})
}

func LogoutAllSessions(c *gin.Context, store *services.SessionStore) {
	value, exists := c.Get("session")
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	current := value.(*model.Session)

	removed := store.DeleteAllForContact(current.ContactID)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", true, true)

	utils.Success(c, gin.H{
		"message": "Successfully logged out of all sessions",
		"ended":   removed,
	})
}
