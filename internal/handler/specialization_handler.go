package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/registra/records-api/internal/models"
	"github.com/registra/records-api/internal/service"
	appErrors "github.com/registra/records-api/pkg/errors"
	"github.com/registra/records-api/pkg/response"
)

// SpecializationHandler wires specialization services to HTTP routes.
type SpecializationHandler struct {
	specializations *service.SpecializationService
}

// NewSpecializationHandler constructs a SpecializationHandler.
func NewSpecializationHandler(specializations *service.SpecializationService) *SpecializationHandler {
	return &SpecializationHandler{specializations: specializations}
}

// List godoc
// @Summary List program specializations
// @Tags Specializations
// @Produce json
// @Param programId query int false "Filter by program"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /specializations [get]
func (h *SpecializationHandler) List(c *gin.Context) {
	filter := models.SpecializationFilter{ProgramID: int64Query(c, "programId")}
	filter.Page, filter.Limit = pageParams(c)

	specializations, pagination, err := h.specializations.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, specializations, pagination)
}

// Get godoc
// @Summary Get one specialization
// @Tags Specializations
// @Produce json
// @Param id path int true "Specialization ID"
// @Success 200 {object} response.Envelope
// @Router /specializations/{id} [get]
func (h *SpecializationHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	spec, err := h.specializations.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, spec, nil)
}

// Create godoc
// @Summary Create specialization
// @Tags Specializations
// @Accept json
// @Produce json
// @Param payload body models.CreateSpecializationRequest true "Specialization payload"
// @Success 201 {object} response.Envelope
// @Router /specializations [post]
func (h *SpecializationHandler) Create(c *gin.Context) {
	var req models.CreateSpecializationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid specialization payload"))
		return
	}
	spec, err := h.specializations.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, spec)
}

// Update godoc
// @Summary Update specialization
// @Tags Specializations
// @Accept json
// @Produce json
// @Param id path int true "Specialization ID"
// @Param payload body models.UpdateSpecializationRequest true "Specialization payload"
// @Success 200 {object} response.Envelope
// @Router /specializations/{id} [put]
func (h *SpecializationHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.UpdateSpecializationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid specialization payload"))
		return
	}
	spec, err := h.specializations.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, spec, nil)
}

// Delete godoc
// @Summary Delete specialization
// @Tags Specializations
// @Produce json
// @Param id path int true "Specialization ID"
// @Success 200 {object} response.Envelope
// @Router /specializations/{id} [delete]
func (h *SpecializationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.specializations.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
