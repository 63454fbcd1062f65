package handler

import (
	"time"

	"github.com/google/uuid"
	identityapp "github.com/retail/backoffice/internal/application/identity"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=1,max=128"`
}

// CreateSellerRequest creates a seller login with a generated password
type CreateSellerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Name     string `json:"name" binding:"max=200"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
}

// CreateRoleRequest creates a user with an explicit role
type CreateRoleRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Role     string `json:"role" binding:"required,max=20"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=128"`
}

// UserResponse is the public view of a back-office user
type UserResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Username           string     `json:"username"`
	Role               string     `json:"role"`
	IsActive           bool       `json:"isActive"`
	MustChangePassword bool       `json:"mustChangePassword"`
	LastLoginAt        *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// LoginResponse carries the issued token
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

// ProfileResponse is the caller plus the seller linked to the login
type ProfileResponse struct {
	UserResponse
	SellerID   *uuid.UUID `json:"sellerId,omitempty"`
	SellerName string     `json:"sellerName,omitempty"`
}

// CreateSellerResponse returns the one-time password of a new seller login
type CreateSellerResponse struct {
	User              UserResponse `json:"user"`
	TemporaryPassword string       `json:"temporaryPassword"`
	SellerID          *uuid.UUID   `json:"sellerId,omitempty"`
}

func toUserResponse(u identityapp.UserInfo) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Username:           u.Username,
		Role:               u.Role,
		IsActive:           u.IsActive,
		MustChangePassword: u.MustChangePassword,
		LastLoginAt:        u.LastLoginAt,
		CreatedAt:          u.CreatedAt,
	}
}

func toUserResponses(users []identityapp.UserInfo) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(users[i])
	}
	return out
}
