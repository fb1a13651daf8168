package config

import (
	"testing"
	"time"
)

func TestServerDefaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg := Server()
	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
}

func TestServerFromEnv(t *testing.T) {
	t.Setenv("PORT", "9001")

	cfg := Server()
	if cfg.Port != "9001" {
		t.Errorf("Expected port 9001, got %s", cfg.Port)
	}
}

func TestLimitsFromEnv(t *testing.T) {
	t.Setenv("WS_MESSAGES_PER_SECOND", "50")
	t.Setenv("WS_MESSAGE_BURST", "80")

	cfg := Limits()
	if cfg.MessagesPerSecond != 50 {
		t.Errorf("Expected rate 50, got %f", cfg.MessagesPerSecond)
	}
	if cfg.Burst != 80 {
		t.Errorf("Expected burst 80, got %d", cfg.Burst)
	}
}

func TestLimitsIgnoresInvalid(t *testing.T) {
	t.Setenv("WS_MESSAGES_PER_SECOND", "not-a-number")
	t.Setenv("WS_MESSAGE_BURST", "-5")

	cfg := Limits()
	if cfg.MessagesPerSecond != 100 || cfg.Burst != 200 {
		t.Errorf("Invalid values should fall back to defaults, got %+v", cfg)
	}
}

func TestMonitorInterval(t *testing.T) {
	t.Setenv("MONITOR_INTERVAL", "15s")

	cfg := Monitor()
	if cfg.Interval != 15*time.Second {
		t.Errorf("Expected 15s interval, got %v", cfg.Interval)
	}
}
