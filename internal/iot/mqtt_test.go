package iot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-management/internal/model"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func doneToken(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	sent  []published
	token mqtt.Token
}

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.sent = append(f.sent, published{topic, qos, retained, payload.([]byte)})
	return f.token
}

func TestStateTopic(t *testing.T) {
	d := model.IotDevice{ID: 9, RoomID: 101}
	assert.Equal(t, "hotel/_/rooms/101/devices/9/state", StateTopic("hotel", d))
	d.HotelID = model.ID(3).Ptr()
	assert.Equal(t, "hotel/3/rooms/101/devices/9/state", StateTopic("hotel", d))
}

func TestPushStatePublishesRetained(t *testing.T) {
	fc := &fakeClient{token: doneToken(nil)}
	c := newCommander(fc, MQTTConfig{QoS: 1}, zap.NewNop())

	d := model.IotDevice{ID: 2, RoomID: 7, DeviceType: model.DeviceThermostat,
		CurrentState: map[string]any{"temperature": 22}, LastUpdated: "2024-06-01T00:00:00.000Z"}
	require.NoError(t, c.PushState(context.Background(), d))

	require.Len(t, fc.sent, 1)
	msg := fc.sent[0]
	assert.Equal(t, "hotel/_/rooms/7/devices/2/state", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.True(t, msg.retained)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.payload, &body))
	assert.Equal(t, "thermostat", body["deviceType"])
	assert.Equal(t, float64(22), body["state"].(map[string]any)["temperature"])
}

func TestPushStateErrors(t *testing.T) {
	fc := &fakeClient{token: doneToken(errors.New("not connected"))}
	c := newCommander(fc, MQTTConfig{}, zap.NewNop())
	err := c.PushState(context.Background(), model.IotDevice{ID: 1, RoomID: 1})
	assert.ErrorContains(t, err, "not connected")

	pending := &fakeToken{done: make(chan struct{})}
	c = newCommander(&fakeClient{token: pending}, MQTTConfig{Timeout: 10 * time.Millisecond}, zap.NewNop())
	err = c.PushState(context.Background(), model.IotDevice{ID: 1, RoomID: 1})
	assert.ErrorContains(t, err, "timeout")
}
