package handlers

import (
	"net/http"

	"exoplanet-prediction-api/models"
	"exoplanet-prediction-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TessHandler struct {
	*PredictionHandler[models.TessPredictionResponse]
	svc *services.TessService
}

func NewTessHandler(svc *services.TessService, log *zap.Logger) *TessHandler {
	return &TessHandler{
		PredictionHandler: NewPredictionHandler[models.TessPredictionResponse](svc, "TESS prediction", log),
		svc:               svc,
	}
}

func (h *TessHandler) Predict(c *gin.Context) {
	var req models.TessPredictionRequest
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
		msgs.internal = "TESS prediction failed due to an internal error"
		writeError(c, h.log, err, msgs)
		return
	}
	c.JSON(http.StatusOK, resp)
}
