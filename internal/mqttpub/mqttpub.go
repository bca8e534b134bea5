// Package mqttpub publishes the sunlight sensor to an MQTT broker as a Home
// Assistant binary_sensor.
package mqttpub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/monitoring"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/service"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/version"
)

// DiscoveryPrefix is Home Assistant's default discovery topic root.
const DiscoveryPrefix = "homeassistant"

// Payloads for the state and availability topics.
const (
	PayloadOn      = "ON"
	PayloadOff     = "OFF"
	PayloadOnline  = "online"
	PayloadOffline = "offline"
)

// Client is the part of mqtt.Client the publisher needs.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Options configures a broker connection.
type Options struct {
	Broker   string
	ClientID string
	Username string
	Password string
	// BaseTopic roots the state, attributes and availability topics.
	BaseTopic string
}

// Connect dials the broker. The availability topic is set as the last will
// so the sensor shows unavailable when the daemon drops off.
func Connect(ctx context.Context, o Options) (mqtt.Client, error) {
	if o.Broker == "" {
		return nil, errors.New("mqtt broker address is empty")
	}
	opts := mqtt.NewClientOptions().
		AddBroker(o.Broker).
		SetClientID(o.ClientID).
		SetUsername(o.Username).
		SetPassword(o.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetWill(Topics(o.BaseTopic).Availability, PayloadOffline, 1, true)
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		monitoring.Logf("[mqtt] connection lost: %v", err)
	}
	c := mqtt.NewClient(opts)
	if err := wait(ctx, c.Connect()); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", o.Broker, err)
	}
	return c, nil
}

// TopicSet names the topics derived from a base topic.
type TopicSet struct {
	State        string
	Attributes   string
	Availability string
}

// Topics derives the topic set for base.
func Topics(base string) TopicSet {
	base = strings.TrimSuffix(base, "/")
	return TopicSet{
		State:        base + "/state",
		Attributes:   base + "/attributes",
		Availability: base + "/availability",
	}
}

// Publisher pushes sensor state, skipping updates that change nothing.
type Publisher struct {
	client   Client
	topics   TopicSet
	objectID string

	mu   sync.Mutex
	last *published
}

type published struct {
	isHit    bool
	state    service.State
	windowID string
}

// NewPublisher publishes under baseTopic. The Home Assistant object id is
// derived from the topic.
func NewPublisher(client Client, baseTopic string) *Publisher {
	return &Publisher{
		client:   client,
		topics:   Topics(baseTopic),
		objectID: objectID(baseTopic),
	}
}

// Topics returns the publisher's topic set.
func (p *Publisher) Topics() TopicSet { return p.topics }

func objectID(base string) string {
	id := strings.Trim(base, "/")
	id = strings.NewReplacer("/", "_", " ", "_", "+", "_", "#", "_").Replace(id)
	if id == "" {
		return "sunplant"
	}
	return strings.ToLower(id)
}

// PublishState sends the attributes JSON and the retained ON/OFF state.
// Unless force is set, nothing is sent when the hit state, sensor state and
// window are unchanged since the last successful publish.
func (p *Publisher) PublishState(ctx context.Context, d service.Details, force bool) (bool, error) {
	cur := published{isHit: d.IsHit, state: d.State}
	if d.WindowID != nil {
		cur.windowID = *d.WindowID
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !force && p.last != nil && *p.last == cur {
		return false, nil
	}

	attrs, err := json.Marshal(d)
	if err != nil {
		return false, err
	}
	if err := wait(ctx, p.client.Publish(p.topics.Attributes, 1, true, attrs)); err != nil {
		return false, fmt.Errorf("publish attributes: %w", err)
	}
	state := PayloadOff
	if d.IsHit {
		state = PayloadOn
	}
	if err := wait(ctx, p.client.Publish(p.topics.State, 1, true, state)); err != nil {
		return false, fmt.Errorf("publish state: %w", err)
	}
	p.last = &cur
	monitoring.Debugf("[mqtt] published %s (%s) to %s", state, d.State, p.topics.State)
	return true, nil
}

// PublishAvailability marks the sensor online or offline.
func (p *Publisher) PublishAvailability(ctx context.Context, online bool) error {
	payload := PayloadOffline
	if online {
		payload = PayloadOnline
	}
	return wait(ctx, p.client.Publish(p.topics.Availability, 1, true, payload))
}

type discoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Model        string   `json:"model"`
	SWVersion    string   `json:"sw_version"`
	Manufacturer string   `json:"manufacturer"`
}

type discoveryConfig struct {
	Name                string          `json:"name"`
	UniqueID            string          `json:"unique_id"`
	ObjectID            string          `json:"object_id"`
	DeviceClass         string          `json:"device_class"`
	StateTopic          string          `json:"state_topic"`
	JSONAttributesTopic string          `json:"json_attributes_topic"`
	AvailabilityTopic   string          `json:"availability_topic"`
	PayloadOn           string          `json:"payload_on"`
	PayloadOff          string          `json:"payload_off"`
	Icon                string          `json:"icon"`
	Device              discoveryDevice `json:"device"`
}

// DiscoveryTopic is where the retained discovery config is published.
func (p *Publisher) DiscoveryTopic() string {
	return fmt.Sprintf("%s/binary_sensor/%s/config", DiscoveryPrefix, p.objectID)
}

// PublishDiscovery announces the binary_sensor to Home Assistant.
func (p *Publisher) PublishDiscovery(ctx context.Context, name string) error {
	if name == "" {
		name = "Plant direct sun"
	}
	cfg := discoveryConfig{
		Name:                name,
		UniqueID:            p.objectID + "_direct_sun",
		ObjectID:            p.objectID + "_direct_sun",
		DeviceClass:         "light",
		StateTopic:          p.topics.State,
		JSONAttributesTopic: p.topics.Attributes,
		AvailabilityTopic:   p.topics.Availability,
		PayloadOn:           PayloadOn,
		PayloadOff:          PayloadOff,
		Icon:                "mdi:white-balance-sunny",
		Device: discoveryDevice{
			Identifiers:  []string{p.objectID},
			Name:         "Sun plant sensor",
			Model:        "sunplantd",
			SWVersion:    version.String(),
			Manufacturer: "sunplant",
		},
	}
	payload, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return wait(ctx, p.client.Publish(p.DiscoveryTopic(), 1, true, payload))
}

// defaultTimeout bounds a publish when ctx has no deadline.
const defaultTimeout = 10 * time.Second

func wait(ctx context.Context, tok mqtt.Token) error {
	timer := time.NewTimer(defaultTimeout)
	defer timer.Stop()
	select {
	case <-tok.Done():
		return tok.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return errors.New("timed out waiting for broker")
	}
}
