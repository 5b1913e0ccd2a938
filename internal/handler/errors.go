// internal/handler/errors.go
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"expense-ledger/internal/domain"

	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "Internal server error"

// respondError maps domain errors to status codes. Anything unrecognised is
// logged and answered with a generic 500.
func respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), op+" failed",
			"error", err,
			"request_id", c.GetString("request_id"),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
	}
}

func respondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}
