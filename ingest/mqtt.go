package ingest

import (
	"context"
	"fmt"
	"time"

	"exoplanet-prediction-api/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

const disconnectQuiesceMs = 250

// SubscriptionTopic matches one level under prefix, one topic per family.
func SubscriptionTopic(prefix string) string {
	return prefix + "/+"
}

// NewClientOptions builds a reconnecting client that (re)subscribes on every
// connect and hands each message to handler.
func NewClientOptions(cfg config.MQTTConfig, handler mqtt.MessageHandler, log *zap.Logger) *mqtt.ClientOptions {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "exovision-ingest-" + time.Now().Format("20060102150405")
	}
	topic := SubscriptionTopic(cfg.TopicPrefix)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.URL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.OnConnect = func(client mqtt.Client) {
		token := client.Subscribe(topic, byte(cfg.QoS), handler)
		token.Wait()
		if err := token.Error(); err != nil {
			log.Error("mqtt subscribe failed", zap.String("topic", topic), zap.Error(err))
			return
		}
		log.Info("ingest subscribed", zap.String("topic", topic), zap.Int("qos", cfg.QoS))
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn("mqtt connection lost", zap.Error(err))
	}
	return opts
}

// Run consumes until ctx is cancelled.
func Run(ctx context.Context, cfg config.MQTTConfig, consumer *Consumer, log *zap.Logger) error {
	handler := func(_ mqtt.Client, m mqtt.Message) {
		// Handle logs and counts its own failures.
		_, _ = consumer.Handle(ctx, m.Topic(), m.Payload())
	}

	client := mqtt.NewClient(NewClientOptions(cfg, handler, log))
	token := client.Connect()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt connection failed: %w", err)
		}
	case <-ctx.Done():
		client.Disconnect(disconnectQuiesceMs)
		return nil
	}

	log.Info("ingest running", zap.String("broker", cfg.URL))
	<-ctx.Done()
	client.Disconnect(disconnectQuiesceMs)
	return nil
}
