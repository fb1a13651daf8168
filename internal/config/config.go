// Package config reads server settings from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	Port string
}

type LimitsConfig struct {
	MessagesPerSecond float64
	Burst             int
}

type MonitorConfig struct {
	Interval time.Duration
}

func Server() *ServerConfig {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return &ServerConfig{
		Port: port,
	}
}

func Limits() *LimitsConfig {
	cfg := &LimitsConfig{
		MessagesPerSecond: 100,
		Burst:             200,
	}
	if v := os.Getenv("WS_MESSAGES_PER_SECOND"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate > 0 {
			cfg.MessagesPerSecond = rate
		}
	}
	if v := os.Getenv("WS_MESSAGE_BURST"); v != "" {
		if burst, err := strconv.Atoi(v); err == nil && burst > 0 {
			cfg.Burst = burst
		}
	}
	return cfg
}

func Monitor() *MonitorConfig {
	interval := time.Minute
	if v := os.Getenv("MONITOR_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			interval = d
		}
	}
	return &MonitorConfig{
		Interval: interval,
	}
}
