package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"exoplanet-prediction-api/middleware"
	"exoplanet-prediction-api/models"
	"exoplanet-prediction-api/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LivePredictions streams prediction.created events owned by the caller.
// Browsers cannot set headers on a websocket handshake, so the token comes
// in the query string.
func LivePredictions(cache *services.CacheService, users middleware.UserResolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			detail(c, http.StatusUnauthorized, "missing token query parameter")
			return
		}

		user, err := users.UserFromToken(c.Request.Context(), tokenStr)
		if err != nil {
			detail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		if !cache.Available() {
			detail(c, http.StatusServiceUnavailable, "live feed requires redis")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		// Read pump: detect client disconnect
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		pubsub := cache.Subscribe(ctx, services.LiveChannel)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev models.PredictionEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Warn("dropping malformed event", zap.Error(err))
					continue
				}
				if ev.UserID == nil || *ev.UserID != user.ID {
					continue
				}
				if err := conn.WriteJSON(gin.H{"type": ev.Type, "data": ev}); err != nil {
					log.Debug("ws write error", zap.Error(err))
					return
				}
			}
		}
	}
}
