package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/identity"
	"github.com/retail/backoffice/internal/domain/partner"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
	IP       string // client IP, logged only
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	User        UserInfo
}

// UserInfo is the public view of a back-office user
type UserInfo struct {
	ID                 uuid.UUID
	Username           string
	Role               string
	IsActive           bool
	MustChangePassword bool
	LastLoginAt        *time.Time
	CreatedAt          time.Time
}

// ProfileResult is the authenticated user plus the seller record linked to it, if any
type ProfileResult struct {
	UserInfo
	SellerID   *uuid.UUID
	SellerName string
}

// CreateSellerInput contains the input for creating a seller login.
// When Email is set a seller record is created or linked to the new user.
type CreateSellerInput struct {
	Username string
	Name     string
	Email    string
}

// CreateSellerResult returns the new login with its one-time password
type CreateSellerResult struct {
	User              UserInfo
	TemporaryPassword string
	SellerID          *uuid.UUID
}

// CreateRoleInput contains the input for creating a user with an explicit role
type CreateRoleInput struct {
	Username string
	Password string
	Role     string
}

// ChangePasswordInput contains the input for a password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// LogoutInput identifies the token to revoke
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TTL      time.Duration // remaining lifetime of the token
}

// ListUsersInput contains paging for user lists
type ListUsersInput struct {
	Page     int
	PageSize int
}

// ToUserInfo converts a domain user to its public view
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:                 u.ID,
		Username:           u.Username,
		Role:               string(u.Role),
		IsActive:           u.IsActive,
		MustChangePassword: u.MustChangePassword,
		LastLoginAt:        u.LastLoginAt,
		CreatedAt:          u.CreatedAt,
	}
}

func toProfile(u *identity.User, seller *partner.Seller) *ProfileResult {
	p := &ProfileResult{UserInfo: ToUserInfo(u)}
	if seller != nil {
		id := seller.ID
		p.SellerID = &id
		p.SellerName = seller.Name
	}
	return p
}
