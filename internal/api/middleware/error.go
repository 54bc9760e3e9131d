package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"energy-dashboard/internal/api/models"
)

// ErrorHandler recovers panics in handlers and answers with the
// standard error body instead of dropping the connection.
func ErrorHandler(log zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().
			Str("path", c.Request.URL.Path).
			Str("panic", fmt.Sprint(recovered)).
			Msg("handler panicked")

		message := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			message = s
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    models.CodeInternal,
				Message: message,
			},
		})
	})
}

// Abort writes the standard error body with status and stops the chain.
func Abort(c *gin.Context, status int, code string, err error) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}
