package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/city-directory/internal/metrics"
)

const (
	mqttQoS        = 1
	publishTimeout = 5 * time.Second
	quiesceMillis  = 250
)

var (
	connectTimeout       = 10 * time.Second
	connectRetryInterval = 10 * time.Second
)

var ErrTimeout = errors.New("mqtt operation timed out")

// MQTTBus publishes events to a single MQTT topic with QoS 1. Subscriptions
// are re-established on reconnect.
type MQTTBus struct {
	client   mqtt.Client
	topic    string
	clientID string

	mu       sync.RWMutex
	handlers []Handler
}

// NewMQTTBus connects to broker (e.g. tcp://mosquitto:1883).
func NewMQTTBus(broker, clientID, topic string) (*MQTTBus, error) {
	b := &MQTTBus{topic: topic, clientID: clientID}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(connectRetryInterval).
		SetConnectTimeout(connectTimeout).
		SetOnConnectHandler(func(c mqtt.Client) {
			log.WithFields(log.Fields{"broker": broker, "topic": topic}).Info("Connected to MQTT broker")
			if token := c.Subscribe(topic, mqttQoS, b.onMessage); token.WaitTimeout(connectTimeout) && token.Error() != nil {
				log.WithError(token.Error()).Error("Failed to subscribe to change topic")
			}
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("Lost MQTT connection")
		})

	b.client = mqtt.NewClient(opts)
	token := b.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		// Stop the background retry loop before handing the failure back.
		b.client.Disconnect(0)
		return nil, fmt.Errorf("connect to %s: %w", broker, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		b.client.Disconnect(0)
		return nil, fmt.Errorf("connect to %s: %w", broker, err)
	}
	return b, nil
}

func (b *MQTTBus) Publish(ctx context.Context, e Event) error {
	if e.Source == "" {
		e.Source = b.clientID
	}
	payload, err := Encode(e)
	if err != nil {
		return err
	}

	token := b.client.Publish(b.topic, mqttQoS, false, payload)
	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("publish %s event: %w", e.Collection, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s event: %w", e.Collection, err)
	}
	metrics.EventsPublished.WithLabelValues(e.Collection).Inc()
	return nil
}

func (b *MQTTBus) Subscribe(h Handler) error {
	b.mu.Lock()
	b.handlers = append(b.handlers, h)
	b.mu.Unlock()
	return nil
}

func (b *MQTTBus) Close() {
	b.client.Disconnect(quiesceMillis)
}

func (b *MQTTBus) onMessage(_ mqtt.Client, msg mqtt.Message) {
	b.dispatch(msg.Payload())
}

func (b *MQTTBus) dispatch(payload []byte) {
	e, err := Decode(payload)
	if err != nil {
		logDropped(err, payload)
		return
	}

	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
