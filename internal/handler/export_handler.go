package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/registra/records-api/internal/service"
	"github.com/registra/records-api/pkg/response"
)

// ExportHandler streams CSV and PDF snapshots of the catalog.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Students godoc
// @Summary Export the student roster
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /students/export [get]
func (h *ExportHandler) Students(c *gin.Context) {
	result, err := h.exports.Students(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.send(c, result)
}

// Courses godoc
// @Summary Export the course catalog
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /courses/export [get]
func (h *ExportHandler) Courses(c *gin.Context) {
	result, err := h.exports.Courses(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.send(c, result)
}

func (h *ExportHandler) send(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
