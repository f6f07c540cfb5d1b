package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/dto"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/repository"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// Password reset is a two-step CRM flag dance with no token or expiry:
// the request step flips the reset flag (the CRM emails the investor),
// the complete step writes the new secret and clears the flag. Both steps
// look the contact up in the directory by email.

func RequestPasswordResetHandler(c *gin.Context, directory *repository.DirectoryClient, crm *repository.CRMClient) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	record, ok := lookupContact(c, directory, req.Email)
	if !ok {
		return
	}

	if err := crm.RequestPasswordReset(c.Request.Context(), record.ID); err != nil {
		utils.TrackError("reset", "request")
		utils.ServiceUnavailable(c, "Could not start password reset; try again later")
		return
	}

	utils.Success(c, gin.H{
		"message": "Password reset requested. Check your email.",
	})
}

func CompletePasswordResetHandler(c *gin.Context, directory *repository.DirectoryClient, crm *repository.CRMClient) {
	var req dto.CompleteResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	record, ok := lookupContact(c, directory, req.Email)
	if !ok {
		return
	}

	if err := crm.CompletePasswordReset(c.Request.Context(), record.ID, req.NewPassword); err != nil {
		utils.TrackError("reset", "complete")
		utils.ServiceUnavailable(c, "Could not complete password reset; try again later")
		return
	}

	utils.Success(c, gin.H{
		"message": "Password updated",
	})
}

func lookupContact(c *gin.Context, directory *repository.DirectoryClient, email string) (*model.InvestorRecord, bool) {
	records, err := directory.FetchAll(c.Request.Context())
	if err != nil {
		if errors.Is(err, repository.ErrDirectoryFetch) {
			utils.ServiceUnavailable(c, "Investor directory is temporarily unavailable")
		} else {
			utils.InternalError(c, "Lookup failed")
		}
		return nil, false
	}

	record := repository.FindByEmail(records, email)
	if record == nil {
		utils.NotFound(c, "No investor account found for this email")
		return nil, false
	}
	return record, true
}
