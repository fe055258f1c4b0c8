package services

import (
	"context"
	"fmt"
	"time"

	"exoplanet-prediction-api/inference"
	"exoplanet-prediction-api/models"

	"go.uber.org/zap"
)

// OwnerChecker reports whether a user id exists. *UserService satisfies it.
type OwnerChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// OwnerNotFoundError is returned when a prediction names a user that does
// not exist. It matches ErrOwnerNotFound.
type OwnerNotFoundError struct {
	UserID uint
}

func (e *OwnerNotFoundError) Error() string {
	return fmt.Sprintf("User with ID %d does not exist", e.UserID)
}

func (e *OwnerNotFoundError) Is(target error) bool { return target == ErrOwnerNotFound }

// ModelHealth describes a family's model for the health endpoints.
type ModelHealth struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	ModelPath   string `json:"model_path"`
	ModelLoaded bool   `json:"model_loaded"`
}

type ownedRecord interface {
	Owner() *uint
}

// history implements the read and delete side shared by both families. T is
// the stored record, R its response shape.
type history[T ownedRecord, R any] struct {
	family   string
	store    *PredictionStore[T]
	owners   OwnerChecker
	cache    *CacheService
	log      *zap.Logger
	response func(T) R
}

// List returns one page, newest first. skip must be >= 0 and limit >= 1.
func (h *history[T, R]) List(ctx context.Context, owner *uint, skip, limit int) (*models.PredictionList[R], error) {
	if skip < 0 || limit < 1 {
		return nil, fmt.Errorf("%w: skip=%d limit=%d", ErrInvalidPage, skip, limit)
	}
	recs, err := h.store.List(ctx, owner, skip, limit)
	if err != nil {
		return nil, err
	}
	total, err := h.store.Count(ctx, owner)
	if err != nil {
		return nil, err
	}

	out := make([]R, len(recs))
	for i, rec := range recs {
		out[i] = h.response(rec)
	}
	return &models.PredictionList[R]{
		Predictions: out,
		Total:       total,
		Page:        skip/limit + 1,
		Size:        len(out),
	}, nil
}

// Get reads through the cache. Cached records still honour the owner scope.
func (h *history[T, R]) Get(ctx context.Context, predictionID string, owner *uint) (*R, error) {
	key := predictionKey(h.family, predictionID)

	var cached T
	found, err := h.cache.Get(ctx, key, &cached)
	if err != nil {
		h.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	if found {
		cacheLookups.WithLabelValues(h.family, "hit").Inc()
		if !ownedBy(cached, owner) {
			return nil, ErrPredictionNotFound
		}
		resp := h.response(cached)
		return &resp, nil
	}
	if h.cache.Available() {
		cacheLookups.WithLabelValues(h.family, "miss").Inc()
	}

	rec, err := h.store.Get(ctx, predictionID, owner)
	if err != nil {
		return nil, err
	}
	if err := h.cache.Set(ctx, key, rec, 0); err != nil {
		h.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	resp := h.response(*rec)
	return &resp, nil
}

func (h *history[T, R]) Delete(ctx context.Context, predictionID string, owner *uint) error {
	ok, err := h.store.Delete(ctx, predictionID, owner)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPredictionNotFound
	}
	h.invalidate(ctx, predictionID)
	h.log.Info("prediction deleted", zap.String("family", h.family), zap.String("prediction_id", predictionID))
	return nil
}

// DeleteAll is best effort: it returns the number removed and only fails
// when nothing could be removed.
func (h *history[T, R]) DeleteAll(ctx context.Context, owner *uint) (int, error) {
	deleted, err := h.store.DeleteAll(ctx, owner, func(id string) { h.invalidate(ctx, id) })
	if err != nil {
		if deleted == 0 {
			return 0, err
		}
		h.log.Warn("bulk delete incomplete", zap.String("family", h.family), zap.Int("deleted", deleted), zap.Error(err))
	}
	h.log.Info("predictions deleted", zap.String("family", h.family), zap.Int("count", deleted))
	return deleted, nil
}

func (h *history[T, R]) invalidate(ctx context.Context, predictionID string) {
	if err := h.cache.Delete(ctx, predictionKey(h.family, predictionID)); err != nil {
		h.log.Warn("cache invalidation failed", zap.String("prediction_id", predictionID), zap.Error(err))
	}
}

func (h *history[T, R]) checkOwner(ctx context.Context, owner *uint) error {
	if owner == nil {
		return nil
	}
	ok, err := h.owners.Exists(ctx, *owner)
	if err != nil {
		return err
	}
	if !ok {
		return &OwnerNotFoundError{UserID: *owner}
	}
	return nil
}

// publish announces a stored prediction on LiveChannel. Failures are logged
// and never fail the request.
func (h *history[T, R]) publish(ctx context.Context, ev models.PredictionEvent) {
	ev.Type = "prediction.created"
	ev.Family = h.family
	if err := h.cache.Publish(ctx, LiveChannel, ev); err != nil {
		h.log.Warn("publish failed", zap.String("prediction_id", ev.PredictionID), zap.Error(err))
		return
	}
	if h.cache.Available() {
		predictionsPublished.WithLabelValues(h.family).Inc()
	}
}

func (h *history[T, R]) fail(stage string, err error) error {
	predictionsFailed.WithLabelValues(h.family, stage).Inc()
	if stage == stageModel || stage == stageInfer {
		h.log.Error("prediction failed", zap.String("family", h.family), zap.String("stage", stage), zap.Error(err))
	}
	return err
}

func health(service string, lazy *inference.Lazy) ModelHealth {
	return ModelHealth{
		Status:      "healthy",
		Service:     service,
		ModelPath:   lazy.Path(),
		ModelLoaded: lazy.Loaded(),
	}
}

func ownedBy(rec ownedRecord, owner *uint) bool {
	if owner == nil {
		return true
	}
	id := rec.Owner()
	return id != nil && *id == *owner
}

// createdAt stamps records at microsecond precision so stored and returned
// timestamps agree on every driver.
func createdAt() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
