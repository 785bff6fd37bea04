// Typed application configuration loaded from configs/config.yml.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"toonbridge/internal/toon"
)

type Config struct {
	Port       string
	LogLevel   string
	DBPath     string
	SigningKey string
	Toon       ToonConfig
	MQTT       MQTTConfig
}

type ToonConfig struct {
	Host         string
	Port         int
	Name         string
	MinTemp      float64
	MaxTemp      float64
	ScanInterval time.Duration
	Presets      []string
	Modes        []string
}

type MQTTConfig struct {
	Enabled     bool
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

const (
	defaultName         = "Toon Thermostat"
	defaultDevicePort   = 80
	defaultScanInterval = 10 * time.Second
)

func setDefaults() {
	viper.SetDefault("port", "8080")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("db.path", "toonbridge.db")
	viper.SetDefault("toon.port", defaultDevicePort)
	viper.SetDefault("toon.name", defaultName)
	viper.SetDefault("toon.min_temp", toon.AbsoluteMinTemp)
	viper.SetDefault("toon.max_temp", toon.AbsoluteMaxTemp)
	viper.SetDefault("toon.scan_interval", 10)
	viper.SetDefault("toon.presets", toon.Presets)
	viper.SetDefault("toon.modes", toon.Modes)
	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("mqtt.client_id", "toonbridge")
	viper.SetDefault("mqtt.topic_prefix", "toon")
}

// Load reads configs/config.yml and validates it.
func Load() (*Config, error) {
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}
	return fromViper()
}

func fromViper() (*Config, error) {
	cfg := &Config{
		Port:       viper.GetString("port"),
		LogLevel:   viper.GetString("log_level"),
		DBPath:     viper.GetString("db.path"),
		SigningKey: viper.GetString("auth.signing_key"),
		Toon: ToonConfig{
			Host:         viper.GetString("toon.host"),
			Port:         viper.GetInt("toon.port"),
			Name:         viper.GetString("toon.name"),
			MinTemp:      viper.GetFloat64("toon.min_temp"),
			MaxTemp:      viper.GetFloat64("toon.max_temp"),
			ScanInterval: time.Duration(viper.GetInt("toon.scan_interval")) * time.Second,
			Presets:      viper.GetStringSlice("toon.presets"),
			Modes:        viper.GetStringSlice("toon.modes"),
		},
		MQTT: MQTTConfig{
			Enabled:     viper.GetBool("mqtt.enabled"),
			Broker:      viper.GetString("mqtt.broker"),
			ClientID:    viper.GetString("mqtt.client_id"),
			Username:    viper.GetString("mqtt.username"),
			Password:    viper.GetString("mqtt.password"),
			TopicPrefix: viper.GetString("mqtt.topic_prefix"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Toon.Host == "" {
		return errors.New("toon.host is required")
	}
	if c.SigningKey == "" {
		return errors.New("auth.signing_key is required")
	}
	if c.Toon.ScanInterval < time.Second {
		return fmt.Errorf("toon.scan_interval too small: %s", c.Toon.ScanInterval)
	}

	// The configured range may only narrow the hardware limits.
	if c.Toon.MinTemp < toon.AbsoluteMinTemp {
		c.Toon.MinTemp = toon.AbsoluteMinTemp
	}
	if c.Toon.MaxTemp > toon.AbsoluteMaxTemp {
		c.Toon.MaxTemp = toon.AbsoluteMaxTemp
	}
	if c.Toon.MinTemp >= c.Toon.MaxTemp {
		return fmt.Errorf("invalid temperature range [%.1f, %.1f]", c.Toon.MinTemp, c.Toon.MaxTemp)
	}

	for i, p := range c.Toon.Presets {
		p = strings.ToUpper(strings.TrimSpace(p))
		if !toon.KnownPreset(p) {
			return fmt.Errorf("unknown preset in toon.presets: %q", c.Toon.Presets[i])
		}
		c.Toon.Presets[i] = p
	}
	for i, m := range c.Toon.Modes {
		m = strings.ToUpper(strings.TrimSpace(m))
		if !toon.KnownMode(m) {
			return fmt.Errorf("unknown mode in toon.modes: %q", c.Toon.Modes[i])
		}
		c.Toon.Modes[i] = m
	}
	return nil
}
