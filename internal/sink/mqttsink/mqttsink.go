// internal/sink/mqttsink/mqttsink.go
package mqttsink

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/elmotron/modpoll/internal/registry"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// Sentinel errors; check with errors.Is.
var (
	ErrDisabled      = errors.New("mqttsink: disabled in configuration")
	ErrConnectFailed = errors.New("mqttsink: connect failed")
	ErrPublishFailed = errors.New("mqttsink: publish failed")
)

// Config contains broker connection and topic settings.
type Config struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // e.g. "tcp://127.0.0.1:1883"
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
}

// Sink publishes one JSON document per poll cycle to
// "<topic_prefix>/registers".
type Sink struct {
	client mqtt.Client
	topic  string
	qos    byte
}

// Connect dials the broker and blocks until the session is up.
func Connect(cfg Config) (*Sink, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}

	return &Sink{
		client: client,
		topic:  cfg.TopicPrefix + "/registers",
		qos:    cfg.QoS,
	}, nil
}

func (s *Sink) Name() string { return "mqtt" }

// Push publishes the cycle's values as one JSON document.
func (s *Sink) Push(ts time.Time, values map[string]registry.Value) error {
	payload, err := Payload(ts, values)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	token := s.client.Publish(s.topic, s.qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// Close disconnects from the broker, letting in-flight work finish.
func (s *Sink) Close() error {
	s.client.Disconnect(250)
	return nil
}

// Payload renders the cycle document: numerics as JSON numbers, booleans as
// JSON booleans, blobs as hex strings.
func Payload(ts time.Time, values map[string]registry.Value) ([]byte, error) {
	doc := struct {
		Time      string                 `json:"time"`
		Registers map[string]interface{} `json:"registers"`
	}{
		Time:      ts.UTC().Format(time.RFC3339Nano),
		Registers: make(map[string]interface{}, len(values)),
	}

	for name, v := range values {
		switch x := v.(type) {
		case registry.Bool:
			doc.Registers[name] = bool(x)
		case registry.Blob:
			doc.Registers[name] = hex.EncodeToString(x[:])
		default:
			if f, ok := registry.AsFloat(v); ok {
				doc.Registers[name] = f
			}
		}
	}

	return json.Marshal(doc)
}
