package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/dto"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/middleware"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/repository"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/services"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/usecase"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// LoginHandler authenticates an investor and opens a session. Failure
// reasons are deliberately distinct: the dashboard shows actionable text
// for each.
func LoginHandler(c *gin.Context, auth *usecase.AuthService, store *services.SessionStore) {
	start := time.Now()
	defer func() {
		utils.HTTPRequestDuration.WithLabelValues("POST", "/api/auth/login").
			Observe(time.Since(start).Seconds())
	}()

	var loginReq dto.LoginRequest
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		utils.TrackError("auth", "invalid_request")
		utils.BadRequest(c, "Invalid Request")
		return
	}

	if loginReq.Password == "" && loginReq.FederatedToken == "" {
		utils.BadRequest(c, "Password or federated token required")
		return
	}

	user, err := auth.Authenticate(c.Request.Context(), loginReq.Email, loginReq.Password, loginReq.FederatedToken)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailNotFound):
			utils.Unauthorized(c, "No investor account found for this email")
		case errors.Is(err, usecase.ErrInvalidPassword):
			utils.Unauthorized(c, "Incorrect password")
		case errors.Is(err, usecase.ErrIPVerificationRequired):
			utils.Forbidden(c, "This sign-in came from a new location. Check your email to verify the new IP address.")
		case errors.Is(err, repository.ErrDirectoryFetch):
			utils.TrackError("auth", "directory_unavailable")
			utils.ServiceUnavailable(c, "Investor directory is temporarily unavailable")
		default:
			utils.TrackError("auth", "unexpected")
			utils.InternalError(c, "Login failed")
		}
		return
	}

	session := middleware.CreateSession(c, user, loginReq.FederatedToken != "", store)

	utils.Success(c, gin.H{
		"message":    "Login successful",
		"user":       user,
		"session_id": session.SessionID,
	})
}
