// Package events provides transport-backed emitters for vesting event
// records.
package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	coreevents "github.com/kilianp07/vesting/core/events"
	"github.com/kilianp07/vesting/infra/logger"
)

// MQTTConfig defines the connection parameters for the MQTT emitter.
type MQTTConfig struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *MQTTConfig) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "vesting-emitter"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "vesting/events"
	}
}

// Validate checks mandatory fields.
func (c MQTTConfig) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("broker is required when mqtt is enabled")
	}
	return nil
}

// pahoClient is the subset of the Paho client used by the emitter.
type pahoClient interface {
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// MQTTEmitter publishes vesting events as JSON records, one topic per event
// kind.
type MQTTEmitter struct {
	cli    pahoClient
	prefix string
	qos    byte
	log    logger.Logger
}

// NewMQTTEmitter connects to the broker and returns the emitter.
func NewMQTTEmitter(cfg MQTTConfig) (*MQTTEmitter, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true)
	cli := paho.NewClient(opts)
	if tok := cli.Connect(); tok.Wait() && tok.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", tok.Error())
	}
	return &MQTTEmitter{
		cli:    cli,
		prefix: cfg.TopicPrefix,
		qos:    cfg.QoS,
		log:    logger.New("mqtt-emitter"),
	}, nil
}

// Emit publishes the event under <prefix>/<kind>/<beneficiary>.
func (e *MQTTEmitter) Emit(evt coreevents.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	topic := fmt.Sprintf("%s/%s/%s", e.prefix, strings.ToLower(string(evt.Kind)), evt.Beneficiary)
	tok := e.cli.Publish(topic, e.qos, false, payload)
	if !tok.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout on %s", topic)
	}
	return tok.Error()
}

// Close disconnects from the broker.
func (e *MQTTEmitter) Close() {
	e.cli.Disconnect(250)
}
