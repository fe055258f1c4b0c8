// Package ingest feeds prediction requests arriving over MQTT through the
// same services the HTTP API uses. Results are stored, cached and published
// exactly as if they had been posted to the API.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"exoplanet-prediction-api/models"
	"exoplanet-prediction-api/services"

	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

var (
	ErrInvalidMessage = errors.New("invalid ingest message")
	ErrUnknownFamily  = errors.New("unknown model family")
)

type KeplerPredictor interface {
	Predict(ctx context.Context, req *models.KeplerPredictionRequest, owner *uint) (*models.KeplerPredictionResponse, error)
}

type TessPredictor interface {
	Predict(ctx context.Context, req *models.TessPredictionRequest, owner *uint) (*models.TessPredictionResponse, error)
}

// Message is the MQTT payload. Request holds the same body the matching
// POST endpoint accepts.
type Message struct {
	UserID  *uint           `json:"user_id,omitempty"`
	Request json.RawMessage `json:"request"`
}

type Consumer struct {
	kepler KeplerPredictor
	tess   TessPredictor
	log    *zap.Logger
}

func NewConsumer(kepler KeplerPredictor, tess TessPredictor, log *zap.Logger) *Consumer {
	return &Consumer{kepler: kepler, tess: tess, log: log.Named("ingest")}
}

// Family returns the last level of topic, which names the model family.
func Family(topic string) string {
	return topic[strings.LastIndexByte(topic, '/')+1:]
}

// Handle decodes one message, validates it and runs a prediction. It returns
// the stored prediction id.
func (c *Consumer) Handle(ctx context.Context, topic string, payload []byte) (string, error) {
	family := Family(topic)
	if family != services.FamilyKepler && family != services.FamilyTess {
		return "", c.reject("unknown", topic, fmt.Errorf("%w: %q", ErrUnknownFamily, family))
	}
	messagesReceived.WithLabelValues(family).Inc()

	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return "", c.reject(family, topic, fmt.Errorf("%w: %v", ErrInvalidMessage, err))
	}
	if len(msg.Request) == 0 {
		return "", c.reject(family, topic, fmt.Errorf("%w: request is missing", ErrInvalidMessage))
	}

	var (
		id  string
		err error
	)
	switch family {
	case services.FamilyKepler:
		var req models.KeplerPredictionRequest
		if err := decode(msg.Request, &req); err != nil {
			return "", c.reject(family, topic, err)
		}
		var resp *models.KeplerPredictionResponse
		if resp, err = c.kepler.Predict(ctx, &req, msg.UserID); err == nil {
			id = resp.PredictionID
		}
	case services.FamilyTess:
		var req models.TessPredictionRequest
		if err := decode(msg.Request, &req); err != nil {
			return "", c.reject(family, topic, err)
		}
		var resp *models.TessPredictionResponse
		if resp, err = c.tess.Predict(ctx, &req, msg.UserID); err == nil {
			id = resp.PredictionID
		}
	}

	if err != nil {
		if errors.Is(err, services.ErrOwnerNotFound) {
			return "", c.reject(family, topic, err)
		}
		messagesHandled.WithLabelValues(family, resultFailed).Inc()
		c.log.Error("ingest prediction failed", zap.String("topic", topic), zap.Error(err))
		return "", err
	}

	messagesHandled.WithLabelValues(family, resultStored).Inc()
	c.log.Debug("ingest prediction stored", zap.String("topic", topic), zap.String("prediction_id", id))
	return id, nil
}

func (c *Consumer) reject(family, topic string, err error) error {
	messagesHandled.WithLabelValues(family, resultRejected).Inc()
	c.log.Warn("ingest message rejected", zap.String("topic", topic), zap.Error(err))
	return err
}

// decode applies the binding rules the HTTP handlers get from ShouldBindJSON.
func decode(raw json.RawMessage, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if err := binding.Validator.ValidateStruct(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return nil
}
