package handlers

import (
	"net/http"

	"exoplanet-prediction-api/models"
	"exoplanet-prediction-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type KeplerHandler struct {
	*PredictionHandler[models.KeplerPredictionResponse]
	svc *services.KeplerService
}

func NewKeplerHandler(svc *services.KeplerService, log *zap.Logger) *KeplerHandler {
	return &KeplerHandler{
		PredictionHandler: NewPredictionHandler[models.KeplerPredictionResponse](svc, "prediction", log),
		svc:               svc,
	}
}

func (h *KeplerHandler) Predict(c *gin.Context) {
	var req models.KeplerPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}
	owner, err := resolveOwner(c)
	if err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.Predict(c.Request.Context(), &req, owner)
	if err != nil {
		msgs := h.messages("make")
		msgs.internal = "Prediction failed due to an internal error"
		writeError(c, h.log, err, msgs)
		return
	}
	c.JSON(http.StatusOK, resp)
}
