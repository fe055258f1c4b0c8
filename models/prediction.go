package models

import "time"

// KeplerPrediction is one stored outcome of the Kepler binary classifier.
// Prediction is 1 for a likely exoplanet, 0 otherwise.
type KeplerPrediction struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	PredictionID string    `gorm:"column:prediction_id;uniqueIndex;not null" json:"prediction_id"`
	UserID       *uint     `gorm:"column:user_id;index" json:"user_id,omitempty"`
	Prediction   int       `gorm:"column:prediction;not null" json:"prediction"`
	Confidence   float64   `gorm:"column:confidence;not null" json:"confidence"`
	InputData    string    `gorm:"column:input_data;type:text;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (KeplerPrediction) TableName() string { return "predictions" }

func (p KeplerPrediction) Owner() *uint { return p.UserID }

func (p KeplerPrediction) Response() KeplerPredictionResponse {
	return KeplerPredictionResponse{
		Prediction:   p.Prediction,
		Confidence:   p.Confidence,
		PredictionID: p.PredictionID,
		Timestamp:    p.CreatedAt,
	}
}

// TessPrediction is one stored outcome of the TESS disposition classifier.
type TessPrediction struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	PredictionID string    `gorm:"column:prediction_id;uniqueIndex;not null" json:"prediction_id"`
	UserID       *uint     `gorm:"column:user_id;index" json:"user_id,omitempty"`
	Prediction   string    `gorm:"column:prediction;type:varchar(8);not null" json:"prediction"`
	Confidence   float64   `gorm:"column:confidence;not null" json:"confidence"`
	InputData    string    `gorm:"column:input_data;type:text;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (TessPrediction) TableName() string { return "tess_predictions" }

func (p TessPrediction) Owner() *uint { return p.UserID }

func (p TessPrediction) Response() TessPredictionResponse {
	return TessPredictionResponse{
		Prediction:   p.Prediction,
		Confidence:   p.Confidence,
		PredictionID: p.PredictionID,
		Timestamp:    p.CreatedAt,
	}
}

type KeplerPredictionResponse struct {
	Prediction   int       `json:"prediction"`
	Confidence   float64   `json:"confidence"`
	PredictionID string    `json:"prediction_id"`
	Timestamp    time.Time `json:"timestamp"`
}

type TessPredictionResponse struct {
	Prediction   string    `json:"prediction"`
	Confidence   float64   `json:"confidence"`
	PredictionID string    `json:"prediction_id"`
	Timestamp    time.Time `json:"timestamp"`
}

// PredictionList is the paginated envelope returned by the list endpoints.
type PredictionList[T any] struct {
	Predictions []T   `json:"predictions"`
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Size        int   `json:"size"`
}

// PredictionEvent is published on the live channel after a prediction is stored.
type PredictionEvent struct {
	Type         string    `json:"type"`
	Family       string    `json:"family"`
	PredictionID string    `json:"prediction_id"`
	UserID       *uint     `json:"user_id,omitempty"`
	Prediction   any       `json:"prediction"`
	Confidence   float64   `json:"confidence"`
	Timestamp    time.Time `json:"timestamp"`
}
