package publisher

import (
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/i2cbatt/pkg/battery"
	"github.com/charlie0129/i2cbatt/pkg/config"
)

type doneToken struct {
	err error
}

func (t doneToken) Wait() bool { return true }

func (t doneToken) WaitTimeout(time.Duration) bool { return true }

func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (t doneToken) Error() error { return t.err }

type published struct {
	topic   string
	retain  bool
	payload string
}

// fakeClient records publishes. Methods not overridden panic through the
// nil embedded interface.
type fakeClient struct {
	mqtt.Client

	mu           sync.Mutex
	connected    bool
	publishErr   error
	messages     []published
	disconnected bool
}

func (c *fakeClient) IsConnectionOpen() bool { return c.connected }

func (c *fakeClient) Publish(topic string, _ byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, published{topic: topic, retain: retained, payload: payload.(string)})
	return doneToken{err: c.publishErr}
}

func (c *fakeClient) Disconnect(uint) { c.disconnected = true }

func TestPublish(t *testing.T) {
	c := &fakeClient{connected: true}
	p := &MQTT{client: c, prefix: "boat/battery", retain: true}

	err := p.Publish(battery.Reading{Raw: 1000, Voltage: 13.0009775, Level: battery.BatteryHigh})
	require.NoError(t, err)

	assert.Equal(t, []published{
		{topic: "boat/battery/level", retain: true, payload: "Battery_High"},
		{topic: "boat/battery/voltage", retain: true, payload: "13.001"},
	}, c.messages)
}

func TestPublishNotConnected(t *testing.T) {
	c := &fakeClient{}
	p := &MQTT{client: c, prefix: "i2cbatt"}

	assert.Error(t, p.Publish(battery.Reading{Level: battery.BatteryLow}))
	assert.Empty(t, c.messages)
}

func TestPublishError(t *testing.T) {
	c := &fakeClient{connected: true, publishErr: errors.New("broker gone")}
	p := &MQTT{client: c, prefix: "i2cbatt"}

	err := p.Publish(battery.Reading{Level: battery.BatteryLow})
	assert.ErrorContains(t, err, "broker gone")
	assert.Len(t, c.messages, 1)
}

func TestConnectedAndClose(t *testing.T) {
	c := &fakeClient{connected: true}
	p := &MQTT{client: c, prefix: "i2cbatt", retain: false}

	p.connected(c)
	p.Close()

	assert.Equal(t, []published{
		{topic: "i2cbatt/status", retain: true, payload: "online"},
		{topic: "i2cbatt/status", retain: true, payload: "offline"},
	}, c.messages)
	assert.True(t, c.disconnected)
}

func TestNewMQTTInvalidServer(t *testing.T) {
	tests := []struct {
		name   string
		server string
	}{
		{name: "unparsable", server: "tcp://%zz"},
		{name: "no host", server: "broker"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMQTT(config.MQTT{Server: tt.server, TopicPrefix: "i2cbatt"})
			assert.Error(t, err)
		})
	}
}
