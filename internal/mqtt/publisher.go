// MQTT publishing of thermostat snapshots for home automation consumers.
package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"toonbridge/internal/logger"
	"toonbridge/internal/models"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

type Config struct {
	Broker      string // e.g. tcp://localhost:1883
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// Publisher pushes retained state snapshots to <prefix>/state and keeps an
// availability topic at <prefix>/status via a last-will message.
type Publisher struct {
	client            mqtt.Client
	stateTopic        string
	availabilityTopic string
	log               *logger.Logger
}

func NewPublisher(cfg Config, log *logger.Logger) (*Publisher, error) {
	availability := cfg.TopicPrefix + "/status"

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetWill(availability, "offline", 0, true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		c.Publish(availability, 0, true, "online")
		log.Infow("mqtt connected", "broker", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warnw("mqtt connection lost", "err", err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, errors.New("mqtt connect timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}

	return &Publisher{
		client:            client,
		stateTopic:        cfg.TopicPrefix + "/state",
		availabilityTopic: availability,
		log:               log,
	}, nil
}

// PublishState publishes the snapshot as retained JSON.
func (p *Publisher) PublishState(st models.ThermostatState) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	token := p.client.Publish(p.stateTopic, 0, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return errors.New("mqtt publish timeout")
	}
	return token.Error()
}

// Close marks the bridge offline and disconnects.
func (p *Publisher) Close() {
	token := p.client.Publish(p.availabilityTopic, 0, true, "offline")
	token.WaitTimeout(publishTimeout)
	p.client.Disconnect(250)
}
