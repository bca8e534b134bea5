package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every daemon environment variable, e.g. SUNPLANT_LISTEN.
const EnvPrefix = "sunplant"

// Settings configure the long-running daemon. Command-line flags override
// them.
type Settings struct {
	ConfigPath   string        `envconfig:"CONFIG" default:"config/site.json"`
	Listen       string        `envconfig:"LISTEN" default:":8080"`
	DBPath       string        `envconfig:"DB" default:"sunplant.db"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"1m"`
	// Retention bounds the observation history; zero keeps everything.
	Retention time.Duration `envconfig:"RETENTION" default:"2160h"`

	MQTTBroker   string `envconfig:"MQTT_BROKER"`
	MQTTTopic    string `envconfig:"MQTT_TOPIC" default:"sunplant/plant"`
	MQTTClientID string `envconfig:"MQTT_CLIENT_ID" default:"sunplantd"`
	MQTTUsername string `envconfig:"MQTT_USERNAME"`
	MQTTPassword string `envconfig:"MQTT_PASSWORD"`
	// MQTTDiscovery publishes a Home Assistant discovery message on connect.
	MQTTDiscovery bool `envconfig:"MQTT_DISCOVERY" default:"true"`

	LogFile string `envconfig:"LOG_FILE"`
	Debug   bool   `envconfig:"DEBUG"`
}

// LoadSettings reads Settings from the environment.
func LoadSettings() (*Settings, error) {
	var s Settings
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if s.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", s.PollInterval)
	}
	if s.Retention < 0 {
		return nil, fmt.Errorf("retention must not be negative, got %s", s.Retention)
	}
	return &s, nil
}
