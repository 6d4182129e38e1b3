package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lesson-planner-api/internal/middleware"
	"github.com/noah-isme/lesson-planner-api/internal/models"
	appErrors "github.com/noah-isme/lesson-planner-api/pkg/errors"
)

func sessionFromContext(c *gin.Context) *models.SessionClaims {
	value, exists := c.Get(middleware.ContextSessionKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

func invalidPayload(err error) error {
	return appErrors.Invalid(err, "invalid payload")
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c *gin.Context, name string) (*models.Date, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, appErrors.Invalid(err, name+" must be YYYY-MM-DD")
	}
	return &d, nil
}
