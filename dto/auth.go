package dto

import (
	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
)

type LoginRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password"`
	FederatedToken string `json:"federated_token"`
}

type LoginResponse struct {
	Message string             `json:"message"`
	User    *model.SessionUser `json:"user"`
}

type ResetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type CompleteResetRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}
