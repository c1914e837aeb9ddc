package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/registra/records-api/pkg/errors"
	"github.com/registra/records-api/pkg/response"
)

// pathID parses the :id path parameter. A non-numeric id is rejected before
// the service layer sees it.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid id"))
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (int, int) {
	page := 1
	limit := 20
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		limit = v
	}
	return page, limit
}

func int64Query(c *gin.Context, name string) *int64 {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func boolQuery(c *gin.Context, name string) *bool {
	switch strings.ToLower(c.Query(name)) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
