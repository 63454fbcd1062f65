package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backoffice/internal/domain/identity"
	"github.com/retail/backoffice/internal/domain/partner"
	"github.com/retail/backoffice/internal/domain/shared"
	"github.com/retail/backoffice/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var (
	// ErrUsernameTaken is returned when the username is already registered
	ErrUsernameTaken = shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	// ErrRoleNotAssignable is returned when asked to create a superadmin or an unknown role
	ErrRoleNotAssignable = shared.NewDomainError("FORBIDDEN", "This role cannot be assigned")
	// ErrCannotDeleteSelf is returned when a user tries to delete their own account
	ErrCannotDeleteSelf = shared.NewDomainError("INVALID_INPUT", "You cannot delete your own account")
)

// UserService manages back-office accounts
type UserService struct {
	userRepo  identity.UserRepository
	txScope   TransactionScope
	blacklist auth.TokenBlacklist
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewUserService creates a new UserService. tokenTTL bounds how long revocations of
// deleted users must be remembered.
func NewUserService(
	userRepo identity.UserRepository,
	txScope TransactionScope,
	blacklist auth.TokenBlacklist,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		txScope:   txScope,
		blacklist: blacklist,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// CreateSeller creates a seller login with a generated temporary password that must be
// changed on first use. With an email, the seller record is created or linked in the same transaction.
func (s *UserService) CreateSeller(ctx context.Context, input CreateSellerInput) (*CreateSellerResult, error) {
	if err := s.ensureUsernameFree(ctx, input.Username); err != nil {
		return nil, err
	}

	tempPassword, err := identity.GenerateTemporaryPassword()
	if err != nil {
		return nil, err
	}
	user, err := identity.NewUser(input.Username, tempPassword, identity.RoleSeller)
	if err != nil {
		return nil, err
	}
	user.ForcePasswordChange()

	var sellerID *uuid.UUID
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.UserRepo().Save(ctx, user); err != nil {
			return usernameTaken(err)
		}
		if strings.TrimSpace(input.Email) == "" {
			return nil
		}
		seller, err := linkSeller(ctx, repos.SellerRepo(), user, input)
		if err != nil {
			return err
		}
		sellerID = &seller.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Seller account created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return &CreateSellerResult{
		User:              ToUserInfo(user),
		TemporaryPassword: tempPassword,
		SellerID:          sellerID,
	}, nil
}

func linkSeller(ctx context.Context, repo partner.SellerRepository, user *identity.User, input CreateSellerInput) (*partner.Seller, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	seller, err := repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if seller.UserID != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "This seller already has a login")
		}
	case errors.Is(err, shared.ErrNotFound):
		name := input.Name
		if strings.TrimSpace(name) == "" {
			name = user.Username
		}
		seller, err = partner.NewSeller(name, email)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	seller.LinkUser(user.ID)
	if err := repo.Save(ctx, seller); err != nil {
		return nil, err
	}
	return seller, nil
}

// CreateRole creates a user with an explicit role. Superadmins are only created by bootstrap.
func (s *UserService) CreateRole(ctx context.Context, input CreateRoleInput) (*UserInfo, error) {
	role, ok := identity.ParseRole(input.Role)
	if !ok || !role.Assignable() {
		return nil, ErrRoleNotAssignable
	}
	if err := s.ensureUsernameFree(ctx, input.Username); err != nil {
		return nil, err
	}

	user, err := identity.NewUser(input.Username, input.Password, role)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, usernameTaken(err)
	}

	s.logger.Info("User created", zap.String("user_id", user.ID.String()), zap.String("role", string(role)))
	info := ToUserInfo(user)
	return &info, nil
}

// ListSellers lists seller logins ordered by username
func (s *UserService) ListSellers(ctx context.Context, input ListUsersInput) ([]UserInfo, int64, error) {
	filter := shared.Filter{
		Page:     input.Page,
		PageSize: input.PageSize,
		OrderBy:  "username",
		OrderDir: "asc",
	}.Normalize()
	filter.Filters["role"] = string(identity.RoleSeller)

	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]UserInfo, len(users))
	for i := range users {
		infos[i] = ToUserInfo(&users[i])
	}
	return infos, total, nil
}

// DeleteUser removes an account, unlinks its seller record and revokes its outstanding tokens.
// Only a superadmin may delete another superadmin, and the last superadmin is kept.
func (s *UserService) DeleteUser(ctx context.Context, actorID uuid.UUID, actorRole identity.Role, id uuid.UUID) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == identity.RoleSuperAdmin {
		if actorRole != identity.RoleSuperAdmin {
			return shared.ErrForbidden
		}
		count, err := s.userRepo.CountByRole(ctx, identity.RoleSuperAdmin)
		if err != nil {
			return err
		}
		if count <= 1 {
			return shared.NewDomainError("CONFLICT", "The last superadmin cannot be deleted")
		}
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		seller, err := repos.SellerRepo().FindByUserID(ctx, id)
		switch {
		case err == nil:
			seller.UserID = nil
			if err := repos.SellerRepo().Save(ctx, seller); err != nil {
				return err
			}
		case !errors.Is(err, shared.ErrNotFound):
			return err
		}
		return repos.UserRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if err := s.blacklist.RevokeUser(ctx, id.String(), s.tokenTTL); err != nil {
		s.logger.Error("Failed to revoke tokens of deleted user", zap.String("user_id", id.String()), zap.Error(err))
	}
	s.logger.Info("User deleted", zap.String("user_id", id.String()), zap.String("by", actorID.String()))
	return nil
}

// BootstrapSuperAdmin creates the first superadmin when none exists.
// It does nothing when a superadmin exists or no credentials are configured.
func (s *UserService) BootstrapSuperAdmin(ctx context.Context, username, password string) error {
	count, err := s.userRepo.CountByRole(ctx, identity.RoleSuperAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if username == "" || password == "" {
		s.logger.Warn("No superadmin exists and bootstrap credentials are not configured")
		return nil
	}

	user, err := identity.NewUser(username, password, identity.RoleSuperAdmin)
	if err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return usernameTaken(err)
	}
	s.logger.Info("Superadmin bootstrapped", zap.String("username", user.Username))
	return nil
}

func (s *UserService) ensureUsernameFree(ctx context.Context, username string) error {
	exists, err := s.userRepo.ExistsByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return err
	}
	if exists {
		return ErrUsernameTaken
	}
	return nil
}

func usernameTaken(err error) error {
	if errors.Is(err, shared.ErrAlreadyExists) {
		return ErrUsernameTaken
	}
	return err
}
