package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"exoplanet-prediction-api/inference"
	"exoplanet-prediction-api/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// KeplerService runs the Kepler KOI binary classifier and keeps its history.
type KeplerService struct {
	history[models.KeplerPrediction, models.KeplerPredictionResponse]
	model *inference.Lazy
}

func NewKeplerService(db *gorm.DB, model *inference.Lazy, owners OwnerChecker, cache *CacheService, log *zap.Logger) *KeplerService {
	return &KeplerService{
		history: history[models.KeplerPrediction, models.KeplerPredictionResponse]{
			family:   FamilyKepler,
			store:    NewPredictionStore[models.KeplerPrediction](db),
			owners:   owners,
			cache:    cache,
			log:      log.Named("kepler"),
			response: models.KeplerPrediction.Response,
		},
		model: model,
	}
}

// Predict classifies one KOI and stores the outcome. Nothing is written
// unless inference succeeds.
func (s *KeplerService) Predict(ctx context.Context, req *models.KeplerPredictionRequest, owner *uint) (*models.KeplerPredictionResponse, error) {
	model, err := s.model.Get()
	if err != nil {
		return nil, s.fail(stageModel, err)
	}

	x := inference.EncodeKepler(req)

	if err := s.checkOwner(ctx, owner); err != nil {
		return nil, s.fail(stageOwner, err)
	}

	start := time.Now()
	class, confidence, err := inference.Binary(model, x)
	inferenceDuration.WithLabelValues(FamilyKepler).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, s.fail(stageInfer, fmt.Errorf("kepler inference failed: %w", err))
	}

	snapshot, err := json.Marshal(req)
	if err != nil {
		return nil, s.fail(stagePersist, fmt.Errorf("failed to encode input snapshot: %w", err))
	}

	rec := models.KeplerPrediction{
		PredictionID: uuid.NewString(),
		UserID:       owner,
		Prediction:   class,
		Confidence:   confidence,
		InputData:    string(snapshot),
		CreatedAt:    createdAt(),
	}
	if err := s.store.Create(ctx, &rec); err != nil {
		return nil, s.fail(stagePersist, err)
	}
	predictionsServed.WithLabelValues(FamilyKepler, strconv.Itoa(class)).Inc()

	s.log.Info("prediction stored",
		zap.String("prediction_id", rec.PredictionID),
		zap.Int("prediction", class),
		zap.Float64("confidence", confidence),
	)
	s.publish(ctx, models.PredictionEvent{
		PredictionID: rec.PredictionID,
		UserID:       owner,
		Prediction:   class,
		Confidence:   confidence,
		Timestamp:    rec.CreatedAt,
	})

	resp := rec.Response()
	return &resp, nil
}

func (s *KeplerService) Health() ModelHealth {
	return health("Kepler Prediction Service", s.model)
}
