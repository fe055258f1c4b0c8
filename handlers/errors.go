package handlers

import (
	"errors"
	"net/http"

	"exoplanet-prediction-api/inference"
	"exoplanet-prediction-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// messages holds the client-facing detail for failures whose wording
// depends on the endpoint.
type messages struct {
	notFound       string
	unavailable    string
	missingRuntime string
	internal       string
}

// writeError maps err to a status and a {"detail": ...} body. Unexpected
// errors are logged and answered with msgs.internal.
func writeError(c *gin.Context, log *zap.Logger, err error, msgs messages) {
	var ownerErr *services.OwnerNotFoundError

	switch {
	case errors.As(err, &ownerErr):
		detail(c, http.StatusBadRequest, ownerErr.Error())
	case errors.Is(err, services.ErrOwnerNotFound):
		detail(c, http.StatusBadRequest, "User does not exist")
	case errors.Is(err, services.ErrInvalidPage):
		detail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		detail(c, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		detail(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrPredictionNotFound), errors.Is(err, services.ErrUserNotFound):
		detail(c, http.StatusNotFound, orDefault(msgs.notFound, "Not found"))
	case errors.Is(err, inference.ErrMissingRuntime):
		log.Warn("model runtime missing", zap.Error(err))
		detail(c, http.StatusServiceUnavailable, orDefault(msgs.missingRuntime, "Prediction service dependencies are not installed"))
	case errors.Is(err, inference.ErrModelNotFound), errors.Is(err, inference.ErrModelUnavailable):
		log.Warn("model unavailable", zap.Error(err))
		detail(c, http.StatusServiceUnavailable, orDefault(msgs.unavailable, "Prediction model is not available"))
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		detail(c, http.StatusInternalServerError, orDefault(msgs.internal, "Internal server error"))
	}
}

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
