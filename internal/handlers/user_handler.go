package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/services"
)

// UserHandler serves the admin user-management endpoints.
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// CreateUserRequest represents the payload for creating a user.
type CreateUserRequest struct {
	Username  string          `json:"username" binding:"required,min=3,max=50"`
	Email     string          `json:"email" binding:"required,email,max=255"`
	Password  string          `json:"password" binding:"required,min=6,max=128"`
	FirstName string          `json:"first_name" binding:"max=100"`
	LastName  string          `json:"last_name" binding:"max=100"`
	Role      models.UserRole `json:"role" binding:"omitempty,user_role"`
	Currency  string          `json:"currency" binding:"max=10"`
}

// UpdateUserRequest represents the payload for updating a user.
type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email,max=255"`
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url,max=500"`
	Currency  *string `json:"currency" binding:"omitempty,max=10"`
}

// GetUsers lists users.
// @Summary     List users
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[UserResponse] "Paginated users"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Router      /users [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.userService.GetUsers(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	users := make([]UserResponse, len(result.Data))
	for i := range result.Data {
		users[i] = toUserResponse(&result.Data[i])
	}
	c.JSON(http.StatusOK, pagination.NewPageResponse(users, result.Page, result.PageSize, result.TotalItems))
}

// GetUserSummaries lists every user with spending totals.
// @Summary     User spending summaries
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  services.UserSummary
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Router      /users/summaries [get]
func (h *UserHandler) GetUserSummaries(c *gin.Context) {
	summaries, err := h.userService.GetUserSummaries(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": summaries})
}

// GetUser returns one user.
// @Summary     Get user
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} UserResponse
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// CreateUser registers a user on behalf of an administrator.
// @Summary     Create user
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateUserRequest true "User details"
// @Success     201 {object} UserResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate username or email"
// @Router      /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.CreateUser(req.Username, req.Email, req.Password, req.FirstName, req.LastName, req.Role, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "CREATE_USER", "user", user.ID, c.ClientIP(),
		map[string]interface{}{"username": user.Username, "role": user.Role})

	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(user)})
}

// UpdateUser changes a user's profile fields.
// @Summary     Update user
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "User ID"
// @Param       request body UpdateUserRequest true "Fields to change"
// @Success     200 {object} UserResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "Duplicate email"
// @Router      /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.UpdateUser(id, services.UserUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		AvatarURL: req.AvatarURL,
		Currency:  req.Currency,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "UPDATE_USER", "user", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// DeleteUser removes a user and all of their data.
// @Summary     Delete user
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} MessageResponse "User deleted"
// @Failure     400 {object} ErrorResponse "Invalid user ID or own account"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if id == adminID {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "You cannot delete your own account"))
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "DELETE_USER", "user", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

// ToggleUserStatus activates or deactivates a user.
// @Summary     Toggle user status
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} UserResponse
// @Failure     400 {object} ErrorResponse "Invalid user ID or own account"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id}/toggle-status [patch]
func (h *UserHandler) ToggleUserStatus(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if id == adminID {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "You cannot deactivate your own account"))
		return
	}

	user, err := h.userService.ToggleUserStatus(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "TOGGLE_USER_STATUS", "user", id, c.ClientIP(),
		map[string]interface{}{"is_active": user.IsActive})

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}
