package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lottohub/draws-backend/internal/apperrors"
)

// respondError translates domain errors into HTTP responses: field-level
// validation messages as 422, missing records as 404, storage constraint
// violations as 409, anything else as a generic 500.
func respondError(c *gin.Context, err error) {
	var verr *apperrors.ValidationError
	var cerr *apperrors.ConstraintError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Fields})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.As(err, &cerr):
		c.JSON(http.StatusConflict, gin.H{"error": cerr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
