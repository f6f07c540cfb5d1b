package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/dto"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/usecase"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// TrackHandler accepts a dashboard interaction event (document opened,
// video played) and queues it. The response never reflects delivery:
// tracking must not block or fail the action the investor just took.
// Action types are passed through as-is; the servlet enforces its own
// vocabulary.
func TrackHandler(c *gin.Context, tracker usecase.ActivityTracker) {
	value, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	user := value.(*model.SessionUser)

	var req dto.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("tracking", "invalid_request")
		utils.BadRequest(c, "Invalid Request")
		return
	}

	tracker.Track(user.ID, req.TargetURL, req.ActionType, req.Title)

	utils.Accepted(c, "Event queued")
}
