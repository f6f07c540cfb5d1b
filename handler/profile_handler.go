package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// GetProfileHandler returns the session identity as derived at login.
// Status and the dealroom flag are never revalidated mid-session.
func GetProfileHandler(c *gin.Context) {
	value, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	utils.Success(c, gin.H{
		"user": value.(*model.SessionUser),
	})
}
