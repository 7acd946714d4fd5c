package iot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-management/internal/model"
)

// MQTTConfig holds the broker settings of the device channel.
type MQTTConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte
	Timeout     time.Duration
}

// publisher is the part of mqtt.Client the commander uses.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTCommander publishes retained state messages so a controller that
// reconnects picks up the latest desired state.
type MQTTCommander struct {
	client  publisher
	prefix  string
	qos     byte
	timeout time.Duration
	log     *zap.Logger
	close   func()
}

type statePayload struct {
	DeviceID    int64          `json:"deviceId"`
	RoomID      int64          `json:"roomId"`
	DeviceType  string         `json:"deviceType"`
	State       map[string]any `json:"state"`
	LastUpdated string         `json:"lastUpdated"`
}

// NewMQTTCommander connects to the broker.
func NewMQTTCommander(cfg MQTTConfig, log *zap.Logger) (*MQTTCommander, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn("mqtt connection lost", zap.Error(err))
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to mqtt broker: %w", token.Error())
	}
	c := newCommander(client, cfg, log)
	c.close = func() { client.Disconnect(250) }
	return c, nil
}

func newCommander(client publisher, cfg MQTTConfig, log *zap.Logger) *MQTTCommander {
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = "hotel"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &MQTTCommander{
		client:  client,
		prefix:  cfg.TopicPrefix,
		qos:     cfg.QoS,
		timeout: cfg.Timeout,
		log:     log,
		close:   func() {},
	}
}

func (c *MQTTCommander) PushState(ctx context.Context, d model.IotDevice) error {
	payload, err := json.Marshal(statePayload{
		DeviceID:    int64(d.ID),
		RoomID:      int64(d.RoomID),
		DeviceType:  d.DeviceType,
		State:       d.CurrentState,
		LastUpdated: d.LastUpdated,
	})
	if err != nil {
		return err
	}
	topic := StateTopic(c.prefix, d)
	token := c.client.Publish(topic, c.qos, true, payload)

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("publish to %s: timeout after %s", topic, c.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	c.log.Debug("device state pushed", zap.String("topic", topic))
	return nil
}

// Close disconnects from the broker.
func (c *MQTTCommander) Close() { c.close() }
