package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/registra/records-api/internal/middleware"
	"github.com/registra/records-api/internal/models"
	appErrors "github.com/registra/records-api/pkg/errors"
	"github.com/registra/records-api/pkg/response"
)

// claimsFromContext pulls the JWT claims stored by the auth middleware.
// Responds 401 and returns false when the middleware did not run.
func claimsFromContext(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return claims, true
}
