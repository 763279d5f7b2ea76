package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tasktrack/backend/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError maps the error taxonomy onto HTTP categories. Storage
// detail never reaches the caller.
func respondError(c *gin.Context, err error) {
	switch {
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process request"})
	}
}

// intFromAny mirrors the id coercion the service layer applies, for ids
// arriving in request bodies as either numbers or numeric strings.
func intFromAny(value interface{}) (int, bool) {
	switch v := value.(type) {
	case float64:
		id := int(v)
		if float64(id) != v {
			return 0, false
		}
		return id, true
	case string:
		id, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return id, true
	case int:
		return v, true
	default:
		return 0, false
	}
}
