package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
)

// Publisher sends a payload to a broker topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// PushChannel publishes alerts for the companion app. Each contact's app
// subscribes to <prefix>/contacts/<contact_id>.
type PushChannel struct {
	pub    Publisher
	prefix string
}

func NewPushChannel(pub Publisher, topicPrefix string) *PushChannel {
	prefix := strings.Trim(topicPrefix, "/")
	if prefix == "" {
		prefix = "safespace"
	}
	return &PushChannel{pub: pub, prefix: prefix}
}

func (c *PushChannel) Name() string { return ChannelPush }

func (c *PushChannel) Supports(contact domain.EmergencyContact) bool {
	return contact.ID != ""
}

func (c *PushChannel) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode push payload: %w", err)
	}
	return c.pub.Publish(ctx, c.Topic(msg.Contact.ID), payload)
}

// Topic returns the topic a contact's app listens on.
func (c *PushChannel) Topic(contactID string) string {
	return fmt.Sprintf("%s/contacts/%s", c.prefix, contactID)
}

// MQTTConfig holds broker connection settings.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// MQTTClient is a Publisher backed by a paho MQTT connection.
type MQTTClient struct {
	client mqtt.Client
}

// NewMQTTClient connects to the broker with auto-reconnect enabled.
func NewMQTTClient(cfg MQTTConfig) (*MQTTClient, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to mqtt broker: %w", token.Error())
	}
	return &MQTTClient{client: client}, nil
}

// Publish sends payload at QoS 1 and waits for the broker ack or ctx.
func (c *MQTTClient) Publish(ctx context.Context, topic string, payload []byte) error {
	token := c.client.Publish(topic, 1, false, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish to %s: %w", topic, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publish to %s: %w", topic, ctx.Err())
	}
}

// Close disconnects, allowing 250ms for in-flight work.
func (c *MQTTClient) Close() {
	c.client.Disconnect(250)
}
