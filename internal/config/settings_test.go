package config

import (
	"testing"
	"time"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.ConfigPath != DefaultSitePath {
		t.Errorf("ConfigPath = %q, want %q", s.ConfigPath, DefaultSitePath)
	}
	if s.Listen != ":8080" {
		t.Errorf("Listen = %q", s.Listen)
	}
	if s.PollInterval != time.Minute {
		t.Errorf("PollInterval = %s", s.PollInterval)
	}
	if s.Retention != 90*24*time.Hour {
		t.Errorf("Retention = %s", s.Retention)
	}
	if s.MQTTBroker != "" {
		t.Errorf("MQTTBroker = %q, want empty", s.MQTTBroker)
	}
	if !s.MQTTDiscovery {
		t.Error("MQTTDiscovery should default to true")
	}
}

func TestLoadSettingsFromEnv(t *testing.T) {
	t.Setenv("SUNPLANT_LISTEN", "127.0.0.1:9000")
	t.Setenv("SUNPLANT_POLL_INTERVAL", "30s")
	t.Setenv("SUNPLANT_MQTT_BROKER", "tcp://broker:1883")
	t.Setenv("SUNPLANT_DEBUG", "true")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.Listen != "127.0.0.1:9000" || s.PollInterval != 30*time.Second ||
		s.MQTTBroker != "tcp://broker:1883" || !s.Debug {
		t.Errorf("settings not read from environment: %+v", s)
	}
}

func TestLoadSettingsRejectsBadInterval(t *testing.T) {
	t.Setenv("SUNPLANT_POLL_INTERVAL", "0s")
	if _, err := LoadSettings(); err == nil {
		t.Error("expected error for zero poll interval")
	}

	t.Setenv("SUNPLANT_POLL_INTERVAL", "1m")
	t.Setenv("SUNPLANT_RETENTION", "-1h")
	if _, err := LoadSettings(); err == nil {
		t.Error("expected error for negative retention")
	}

	t.Setenv("SUNPLANT_RETENTION", "0s")
	t.Setenv("SUNPLANT_POLL_INTERVAL", "soon")
	if _, err := LoadSettings(); err == nil {
		t.Error("expected parse error")
	}
}
