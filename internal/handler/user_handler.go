package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/registra/records-api/internal/models"
	"github.com/registra/records-api/internal/service"
	appErrors "github.com/registra/records-api/pkg/errors"
	"github.com/registra/records-api/pkg/response"
)

// UserHandler wires user management services to HTTP routes.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type approveRequest struct {
	Note string `json:"note"`
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Param roleId query int false "Filter by role"
// @Param isApproved query bool false "Filter by approval state"
// @Param search query string false "Match against name or email"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	filter := models.UserFilter{
		RoleID:     int64Query(c, "roleId"),
		IsApproved: boolQuery(c, "isApproved"),
		Search:     c.Query("search"),
	}
	filter.Page, filter.Limit = pageParams(c)

	users, pagination, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// Get godoc
// @Summary Get one user with profile
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Approve godoc
// @Summary Approve a pending account
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param payload body approveRequest false "Optional approval note"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/approve [patch]
func (h *UserHandler) Approve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req approveRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid approval payload"))
			return
		}
	}
	if err := h.users.Approve(c.Request.Context(), id, req.Note); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"approved": true}, nil)
}

// Approvals godoc
// @Summary List the approval audit trail for a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/approvals [get]
func (h *UserHandler) Approvals(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	approvals, err := h.users.Approvals(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, approvals, nil)
}

// UpdateProfile godoc
// @Summary Update a user's account and profile
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param payload body models.UpdateUserProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.UpdateUserProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// ResetPasswords godoc
// @Summary Reset every account password to a single value
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body models.ResetPasswordsRequest true "New password"
// @Success 200 {object} response.Envelope
// @Router /users/reset-passwords [post]
func (h *UserHandler) ResetPasswords(c *gin.Context) {
	var req models.ResetPasswordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reset payload"))
		return
	}
	count, err := h.users.ResetAllPasswords(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"updated": count}, nil)
}

// Delete godoc
// @Summary Delete user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

// Roles godoc
// @Summary List assignable roles
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roles [get]
func (h *UserHandler) Roles(c *gin.Context) {
	roles, err := h.users.Roles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roles, nil)
}
