package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/logger"
	validation "spendwise/internal/validator"
)

// ErrorHandler renders the last error attached to the context with c.Error.
// AppErrors keep their code and status, binding failures become
// INVALID_INPUT, and anything else is logged and reported as an internal
// error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		c.JSON(statusAndBody(c, c.Errors.Last().Err))
	}
}

func statusAndBody(c *gin.Context, err error) (int, gin.H) {
	var appErr *apperrors.AppError
	var verrs validator.ValidationErrors

	switch {
	case errors.As(err, &appErr):
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
				"request_id", c.GetString(requestIDKey),
			)
		}
	case errors.As(err, &verrs):
		appErr = apperrors.WithMessage(apperrors.ErrInvalidInput, validation.Describe(verrs))
	default:
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", c.GetString(requestIDKey),
		)
		appErr = apperrors.ErrInternalServer
	}

	return appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	}
}
