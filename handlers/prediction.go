package handlers

import (
	"context"
	"fmt"
	"net/http"

	"exoplanet-prediction-api/models"
	"exoplanet-prediction-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// predictionHistory is the read and delete surface both prediction services
// expose. R is the family's response type.
type predictionHistory[R any] interface {
	List(ctx context.Context, owner *uint, skip, limit int) (*models.PredictionList[R], error)
	Get(ctx context.Context, predictionID string, owner *uint) (*R, error)
	Delete(ctx context.Context, predictionID string, owner *uint) error
	DeleteAll(ctx context.Context, owner *uint) (int, error)
	Health() services.ModelHealth
}

// PredictionHandler serves the history endpoints of one family. noun is how
// the family is named in messages, e.g. "TESS prediction".
type PredictionHandler[R any] struct {
	svc  predictionHistory[R]
	noun string
	log  *zap.Logger
}

func NewPredictionHandler[R any](svc predictionHistory[R], noun string, log *zap.Logger) *PredictionHandler[R] {
	return &PredictionHandler[R]{svc: svc, noun: noun, log: log}
}

func (h *PredictionHandler[R]) messages(action string) messages {
	return messages{
		notFound:       capitalize(h.noun) + " not found",
		unavailable:    capitalize(h.noun) + " model is not available",
		missingRuntime: capitalize(h.noun) + " service dependencies are not installed",
		internal:       fmt.Sprintf("Failed to %s %s", action, h.noun),
	}
}

func (h *PredictionHandler[R]) GetPredictions(c *gin.Context) {
	p, err := ParsePagination(c)
	if err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}
	owner, err := resolveOwner(c)
	if err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.svc.List(c.Request.Context(), owner, p.Skip, p.Limit)
	if err != nil {
		writeError(c, h.log, err, h.messages("retrieve"))
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PredictionHandler[R]) GetPrediction(c *gin.Context) {
	owner, err := resolveOwner(c)
	if err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.Get(c.Request.Context(), c.Param("id"), owner)
	if err != nil {
		writeError(c, h.log, err, h.messages("retrieve"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PredictionHandler[R]) DeletePrediction(c *gin.Context) {
	owner, err := resolveOwner(c)
	if err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}

	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id, owner); err != nil {
		msgs := h.messages("delete")
		msgs.notFound = capitalize(h.noun) + " not found or you don't have permission to delete it"
		writeError(c, h.log, err, msgs)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       capitalize(h.noun) + " deleted successfully",
		"prediction_id": id,
	})
}

// DeleteAll requires ?confirm=true.
func (h *PredictionHandler[R]) DeleteAll(c *gin.Context) {
	if c.Query("confirm") != "true" {
		detail(c, http.StatusBadRequest, "Set confirm=true to delete all "+h.noun+"s")
		return
	}
	owner, err := resolveOwner(c)
	if err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.svc.DeleteAll(c.Request.Context(), owner)
	if err != nil {
		writeError(c, h.log, err, h.messages("delete"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Successfully deleted %d %ss", n, h.noun),
		"deleted_count": n,
	})
}

func (h *PredictionHandler[R]) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Health())
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
