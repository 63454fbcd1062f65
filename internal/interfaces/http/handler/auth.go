package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/retail/backoffice/internal/application/identity"
	"github.com/retail/backoffice/internal/interfaces/http/middleware"
)

// AuthHandler handles login, profile and back-office user management
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	userService *identityapp.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService, userService *identityapp.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// Login exchanges credentials for an access token
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Request body"
// @Success      200 {object} dto.Response{data=LoginResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Username: req.Username,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresAt:   result.ExpiresAt,
		User:        toUserResponse(result.User),
	})
}

// Logout revokes the presented token
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, _ := claims.GetUserUUID()

	err := h.authService.Logout(c.Request.Context(), identityapp.LogoutInput{
		UserID:   userID,
		TokenJTI: claims.ID,
		TTL:      claims.GetRemainingTTL(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Logged out"})
}

// Profile returns the caller
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=ProfileResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	profile, err := h.authService.Profile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ProfileResponse{
		UserResponse: toUserResponse(profile.UserInfo),
		SellerID:     profile.SellerID,
		SellerName:   profile.SellerName,
	})
}

// ChangePassword changes the caller's password
//
// @Summary      Change own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Request body"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), identityapp.ChangePasswordInput{
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Password changed"})
}

// CreateSeller creates a seller login with a temporary password
//
// @Summary      Create a seller login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CreateSellerRequest true "Request body"
// @Success      201 {object} dto.Response{data=CreateSellerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/create-seller [post]
func (h *AuthHandler) CreateSeller(c *gin.Context) {
	var req CreateSellerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.userService.CreateSeller(c.Request.Context(), identityapp.CreateSellerInput{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, CreateSellerResponse{
		User:              toUserResponse(result.User),
		TemporaryPassword: result.TemporaryPassword,
		SellerID:          result.SellerID,
	})
}

// CreateRole creates a user with an explicit role
//
// @Summary      Create a user with a role
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CreateRoleRequest true "Request body"
// @Success      201 {object} dto.Response{data=UserResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/create-role [post]
func (h *AuthHandler) CreateRole(c *gin.Context) {
	var req CreateRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.CreateRole(c.Request.Context(), identityapp.CreateRoleInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toUserResponse(*user))
}

// ListSellers lists seller logins
//
// @Summary      List seller logins
// @Tags         auth
// @Produce      json
// @Param        page query int false "Page number"
// @Param        pageSize query int false "Page size (max 100)"
// @Success      200 {object} dto.Response{data=[]UserResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/sellers [get]
func (h *AuthHandler) ListSellers(c *gin.Context) {
	var q struct {
		Page     int `form:"page" binding:"omitempty,min=1"`
		PageSize int `form:"pageSize" binding:"omitempty,min=1,max=100"`
	}
	if !h.bindQuery(c, &q) {
		return
	}

	users, total, err := h.userService.ListSellers(c.Request.Context(), identityapp.ListUsersInput{
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, toUserResponses(users), total, q.Page, q.PageSize)
}

// DeleteUser removes a back-office login
//
// @Summary      Delete a user
// @Tags         auth
// @Produce      json
// @Param        id path string true "ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/users/{id} [delete]
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	actorID, _ := getUserID(c)

	if err := h.userService.DeleteUser(c.Request.Context(), actorID, middleware.GetJWTRole(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
