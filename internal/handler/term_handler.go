package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/registra/records-api/internal/models"
	"github.com/registra/records-api/internal/service"
	appErrors "github.com/registra/records-api/pkg/errors"
	"github.com/registra/records-api/pkg/response"
)

// SchoolTermHandler wires school term services to HTTP routes.
type SchoolTermHandler struct {
	terms *service.TermService
}

// NewSchoolTermHandler constructs a SchoolTermHandler.
func NewSchoolTermHandler(terms *service.TermService) *SchoolTermHandler {
	return &SchoolTermHandler{terms: terms}
}

// List godoc
// @Summary List school terms
// @Tags SchoolTerms
// @Produce json
// @Param schoolYear query string false "Filter by school year"
// @Param isActive query bool false "Filter by active flag"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /school-terms [get]
func (h *SchoolTermHandler) List(c *gin.Context) {
	filter := models.SchoolTermFilter{
		SchoolYear: c.Query("schoolYear"),
		IsActive:   boolQuery(c, "isActive"),
	}
	filter.Page, filter.Limit = pageParams(c)

	terms, pagination, err := h.terms.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, terms, pagination)
}

// Get godoc
// @Summary Get one school term
// @Tags SchoolTerms
// @Produce json
// @Param id path int true "School term ID"
// @Success 200 {object} response.Envelope
// @Router /school-terms/{id} [get]
func (h *SchoolTermHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	term, err := h.terms.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, term, nil)
}

// Create godoc
// @Summary Create school term
// @Tags SchoolTerms
// @Accept json
// @Produce json
// @Param payload body models.CreateSchoolTermRequest true "School term payload"
// @Success 201 {object} response.Envelope
// @Router /school-terms [post]
func (h *SchoolTermHandler) Create(c *gin.Context) {
	var req models.CreateSchoolTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid school term payload"))
		return
	}
	term, err := h.terms.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, term)
}

// Update godoc
// @Summary Update school term
// @Tags SchoolTerms
// @Accept json
// @Produce json
// @Param id path int true "School term ID"
// @Param payload body models.UpdateSchoolTermRequest true "School term payload"
// @Success 200 {object} response.Envelope
// @Router /school-terms/{id} [put]
func (h *SchoolTermHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.UpdateSchoolTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid school term payload"))
		return
	}
	term, err := h.terms.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, term, nil)
}

// ToggleStatus godoc
// @Summary Flip a school term's active flag
// @Tags SchoolTerms
// @Produce json
// @Param id path int true "School term ID"
// @Success 200 {object} response.Envelope
// @Router /school-terms/{id}/toggle-status [patch]
func (h *SchoolTermHandler) ToggleStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	term, err := h.terms.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, term, nil)
}

// Delete godoc
// @Summary Delete school term
// @Tags SchoolTerms
// @Produce json
// @Param id path int true "School term ID"
// @Success 200 {object} response.Envelope
// @Router /school-terms/{id} [delete]
func (h *SchoolTermHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.terms.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
