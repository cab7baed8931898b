// Package publish forwards smartcube session output to an MQTT broker.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/SeamusWaldron/smartcube"
	"github.com/SeamusWaldron/smartcube/internal/config"
)

// Commands accepted on the <prefix>/command topic.
const (
	CommandResetOrientation = "reset-orientation"
	CommandResetState       = "reset-state"
	CommandArmTimer         = "arm-timer"
)

var ErrNotConnected = errors.New("publish: MQTT client not connected")

// StateMessage is the payload published on <prefix>/state.
type StateMessage struct {
	Facelets  string          `json:"facelets"`
	State     smartcube.State `json:"state"`
	Solved    bool            `json:"solved"`
	Timestamp int64           `json:"timestamp"`
}

// OrientationMessage is the payload published on <prefix>/orientation.
type OrientationMessage struct {
	smartcube.Quaternion
	Timestamp int64 `json:"timestamp"`
}

// Publisher implements smartcube.StateSink and smartcube.OrientationSink.
type Publisher struct {
	client  mqtt.Client
	prefix  string
	qos     byte
	retain  bool
	timeout time.Duration
	log     *slog.Logger
	now     func() time.Time
}

// NewClient builds a paho client from cfg. It does not connect.
func NewClient(cfg config.MQTTConfig, log *slog.Logger) mqtt.Client {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "smartcube-" + uuid.NewString()[:8]
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Info("connected to MQTT broker", "broker", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn("lost MQTT connection", "err", err)
	})
	return mqtt.NewClient(opts)
}

// Connect connects client, giving up when ctx is done.
func Connect(ctx context.Context, client mqtt.Client) error {
	if err := wait(ctx, client.Connect()); err != nil {
		return fmt.Errorf("connecting to MQTT broker: %w", err)
	}
	return nil
}

// NewPublisher publishes through an already connected client.
func NewPublisher(client mqtt.Client, cfg config.MQTTConfig, log *slog.Logger) *Publisher {
	prefix := strings.TrimSuffix(cfg.Prefix, "/")
	if prefix == "" {
		prefix = "smartcube"
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Publisher{
		client:  client,
		prefix:  prefix,
		qos:     cfg.QoS,
		retain:  cfg.Retain,
		timeout: 2 * time.Second,
		log:     log,
		now:     time.Now,
	}
}

// Topic returns the full topic name for suffix.
func (p *Publisher) Topic(suffix string) string {
	return p.prefix + "/" + suffix
}

// PublishState publishes the facelets and decoded state.
func (p *Publisher) PublishState(ctx context.Context, facelets string, s smartcube.State) error {
	return p.publish(ctx, "state", StateMessage{
		Facelets:  facelets,
		State:     s,
		Solved:    s.IsSolved(),
		Timestamp: p.now().UnixMilli(),
	})
}

// PublishOrientation publishes a calibrated orientation.
func (p *Publisher) PublishOrientation(ctx context.Context, q smartcube.Quaternion) error {
	return p.publish(ctx, "orientation", OrientationMessage{
		Quaternion: q,
		Timestamp:  p.now().UnixMilli(),
	})
}

// SubscribeCommands calls handle with every payload sent to
// <prefix>/command. Handlers run on the paho delivery goroutine.
func (p *Publisher) SubscribeCommands(ctx context.Context, handle func(cmd string)) error {
	if !p.client.IsConnected() {
		return ErrNotConnected
	}
	topic := p.Topic("command")
	token := p.client.Subscribe(topic, p.qos, func(_ mqtt.Client, msg mqtt.Message) {
		cmd := strings.TrimSpace(string(msg.Payload()))
		p.log.Debug("received command", "topic", msg.Topic(), "command", cmd)
		handle(cmd)
	})
	if err := wait(ctx, token); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, suffix string, v any) error {
	if !p.client.IsConnected() {
		return ErrNotConnected
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", suffix, err)
	}

	topic := p.Topic(suffix)
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := wait(ctx, p.client.Publish(topic, p.qos, p.retain, payload)); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}

func wait(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
