package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"exoplanet-prediction-api/inference"
	"exoplanet-prediction-api/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TessService runs the TESS TOI disposition classifier and keeps its history.
type TessService struct {
	history[models.TessPrediction, models.TessPredictionResponse]
	model *inference.Lazy
}

func NewTessService(db *gorm.DB, model *inference.Lazy, owners OwnerChecker, cache *CacheService, log *zap.Logger) *TessService {
	return &TessService{
		history: history[models.TessPrediction, models.TessPredictionResponse]{
			family:   FamilyTess,
			store:    NewPredictionStore[models.TessPrediction](db),
			owners:   owners,
			cache:    cache,
			log:      log.Named("tess"),
			response: models.TessPrediction.Response,
		},
		model: model,
	}
}

// Predict classifies one TOI and stores the outcome. Nothing is written
// unless inference succeeds.
func (s *TessService) Predict(ctx context.Context, req *models.TessPredictionRequest, owner *uint) (*models.TessPredictionResponse, error) {
	model, err := s.model.Get()
	if err != nil {
		return nil, s.fail(stageModel, err)
	}

	x := inference.EncodeTess(req)

	if err := s.checkOwner(ctx, owner); err != nil {
		return nil, s.fail(stageOwner, err)
	}

	start := time.Now()
	label, confidence, err := inference.MultiClass(model, x, inference.TessLabels)
	inferenceDuration.WithLabelValues(FamilyTess).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, s.fail(stageInfer, fmt.Errorf("tess inference failed: %w", err))
	}

	snapshot, err := json.Marshal(req)
	if err != nil {
		return nil, s.fail(stagePersist, fmt.Errorf("failed to encode input snapshot: %w", err))
	}

	rec := models.TessPrediction{
		PredictionID: uuid.NewString(),
		UserID:       owner,
		Prediction:   label,
		Confidence:   confidence,
		InputData:    string(snapshot),
		CreatedAt:    createdAt(),
	}
	if err := s.store.Create(ctx, &rec); err != nil {
		return nil, s.fail(stagePersist, err)
	}
	predictionsServed.WithLabelValues(FamilyTess, label).Inc()

	s.log.Info("prediction stored",
		zap.String("prediction_id", rec.PredictionID),
		zap.String("prediction", label),
		zap.Float64("confidence", confidence),
	)
	s.publish(ctx, models.PredictionEvent{
		PredictionID: rec.PredictionID,
		UserID:       owner,
		Prediction:   label,
		Confidence:   confidence,
		Timestamp:    rec.CreatedAt,
	})

	resp := rec.Response()
	return &resp, nil
}

func (s *TessService) Health() ModelHealth {
	return health("TESS Prediction Service", s.model)
}
