// Package ingest subscribes to usage readings published over MQTT on
// fleet/{ownerId}/usage and records them like the HTTP usage endpoint does.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-maintenance/internal/config"
	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/metrics"
	"github.com/ukydev/fleet-maintenance/internal/models"
	"github.com/ukydev/fleet-maintenance/internal/usage"
)

const (
	connectTimeout = 10 * time.Second
	recordTimeout  = 10 * time.Second
	qos            = 1
)

var ErrBadMessage = errors.New("malformed usage message")

// Payload is the JSON body of a usage message.
type Payload struct {
	AssetID string     `json:"asset_id"`
	Value   float64    `json:"value"`
	Date    *time.Time `json:"date,omitempty"`
	Notes   string     `json:"notes,omitempty"`
}

// Recorder stores a usage reading for an owner.
type Recorder interface {
	Record(ctx context.Context, ownerID string, reading usage.Reading) (*models.Asset, models.UsageEvent, error)
}

// Subscriber consumes usage messages from an MQTT broker.
type Subscriber struct {
	client   mqtt.Client
	topic    string
	recorder Recorder

	ctx    context.Context
	cancel context.CancelFunc
}

// NewSubscriber configures a client for cfg.MQTTBroker. Nothing connects
// until Start.
func NewSubscriber(cfg config.Config, recorder Recorder) *Subscriber {
	s := &Subscriber{topic: cfg.MQTTTopic, recorder: recorder}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetOnConnectHandler(s.onConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		})
	s.client = mqtt.NewClient(opts)
	return s
}

// Start connects to the broker. The topic is subscribed on every (re)connect.
func (s *Subscriber) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	token := s.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt connect: timed out after %s", connectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

// Stop disconnects from the broker and abandons in-flight records.
func (s *Subscriber) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.client.Disconnect(250)
}

func (s *Subscriber) onConnect(c mqtt.Client) {
	token := c.Subscribe(s.topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		ctx, cancel := context.WithTimeout(s.ctx, recordTimeout)
		defer cancel()
		_ = s.HandleMessage(ctx, msg.Topic(), msg.Payload())
	})
	token.Wait()
	if err := token.Error(); err != nil {
		log.WithError(err).WithField("topic", s.topic).Error("MQTT subscribe failed")
		return
	}
	log.WithField("topic", s.topic).Info("Subscribed to usage readings")
}

// HandleMessage parses and records one message, counting the outcome.
// Malformed or invalid readings are dropped.
func (s *Subscriber) HandleMessage(ctx context.Context, topic string, payload []byte) error {
	ownerID, reading, err := ParseMessage(topic, payload)
	if err != nil {
		metrics.IncIngest(metrics.IngestRejected)
		log.WithError(err).WithField("topic", topic).Warn("Dropped usage message")
		return err
	}

	asset, _, err := s.recorder.Record(ctx, ownerID, reading)
	if err != nil {
		entry := log.WithError(err).WithFields(log.Fields{"topic": topic, "asset_id": reading.AssetID})
		if errors.Is(err, usage.ErrInvalidValue) || errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInvalidID) {
			metrics.IncIngest(metrics.IngestRejected)
			entry.Warn("Dropped usage message")
		} else {
			metrics.IncIngest(metrics.IngestFailed)
			entry.Error("Failed to record usage message")
		}
		return err
	}

	metrics.IncIngest(metrics.IngestRecorded)
	log.WithFields(log.Fields{
		"owner_id":      ownerID,
		"asset_id":      asset.ID.Hex(),
		"value":         reading.Value,
		"current_usage": asset.CurrentUsage,
	}).Info("Recorded usage message")
	return nil
}

// ParseMessage extracts the owner from a topic of the form
// {prefix}/{ownerId}/usage and decodes the payload.
func ParseMessage(topic string, payload []byte) (string, usage.Reading, error) {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 || parts[len(parts)-1] != "usage" || parts[len(parts)-2] == "" {
		return "", usage.Reading{}, fmt.Errorf("%w: unexpected topic %q", ErrBadMessage, topic)
	}
	ownerID := parts[len(parts)-2]

	var p Payload
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", usage.Reading{}, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	if strings.TrimSpace(p.AssetID) == "" {
		return "", usage.Reading{}, fmt.Errorf("%w: asset_id is required", ErrBadMessage)
	}
	if p.Value <= 0 {
		return "", usage.Reading{}, fmt.Errorf("%w: %v", usage.ErrInvalidValue, p.Value)
	}

	return ownerID, usage.Reading{
		AssetID: strings.TrimSpace(p.AssetID),
		Value:   p.Value,
		Date:    p.Date,
		Notes:   p.Notes,
	}, nil
}
