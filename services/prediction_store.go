package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// PredictionStore persists one prediction family. T is a gorm model with
// prediction_id, user_id and created_at columns.
type PredictionStore[T any] struct {
	db *gorm.DB
}

func NewPredictionStore[T any](db *gorm.DB) *PredictionStore[T] {
	return &PredictionStore[T]{db: db}
}

// scoped restricts a query to one owner. A nil owner matches every record.
func (s *PredictionStore[T]) scoped(ctx context.Context, owner *uint) *gorm.DB {
	q := s.db.WithContext(ctx).Model(new(T))
	if owner != nil {
		q = q.Where("user_id = ?", *owner)
	}
	return q
}

func (s *PredictionStore[T]) Create(ctx context.Context, rec *T) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to store prediction: %w", err)
	}
	return nil
}

// List returns newest first. Records sharing a timestamp fall back to
// insertion order, newest first.
func (s *PredictionStore[T]) List(ctx context.Context, owner *uint, skip, limit int) ([]T, error) {
	var out []T
	err := s.scoped(ctx, owner).
		Order("created_at DESC").
		Order("id DESC").
		Offset(skip).
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return out, nil
}

func (s *PredictionStore[T]) Count(ctx context.Context, owner *uint) (int64, error) {
	var n int64
	if err := s.scoped(ctx, owner).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count predictions: %w", err)
	}
	return n, nil
}

func (s *PredictionStore[T]) Get(ctx context.Context, predictionID string, owner *uint) (*T, error) {
	var rec T
	err := s.scoped(ctx, owner).Where("prediction_id = ?", predictionID).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPredictionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load prediction: %w", err)
	}
	return &rec, nil
}

// Delete reports whether a record matched.
func (s *PredictionStore[T]) Delete(ctx context.Context, predictionID string, owner *uint) (bool, error) {
	q := s.db.WithContext(ctx).Where("prediction_id = ?", predictionID)
	if owner != nil {
		q = q.Where("user_id = ?", *owner)
	}
	res := q.Delete(new(T))
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete prediction: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteAll deletes the owner's records one at a time and returns how many
// went. Failures do not stop the sweep; they are joined into the error.
// onDeleted, when set, is called with each removed id.
func (s *PredictionStore[T]) DeleteAll(ctx context.Context, owner *uint, onDeleted func(id string)) (int, error) {
	var ids []string
	if err := s.scoped(ctx, owner).Pluck("prediction_id", &ids).Error; err != nil {
		return 0, fmt.Errorf("failed to list predictions: %w", err)
	}

	var (
		deleted int
		errs    []error
	)
	for _, id := range ids {
		ok, err := s.Delete(ctx, id, owner)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
			continue
		}
		if ok {
			deleted++
			if onDeleted != nil {
				onDeleted(id)
			}
		}
	}
	return deleted, errors.Join(errs...)
}
