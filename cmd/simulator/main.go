package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// AssetProfile describes how one kind of asset accumulates usage.
type AssetProfile struct {
	Type    string
	Unit    string
	Names   []string
	MinRate float64 // usage per hour of operation
	MaxRate float64
}

var profiles = []AssetProfile{
	{Type: "marine", Unit: "hours", Names: []string{"Sea Breeze", "Blue Heron", "Osprey", "Tern"}, MinRate: 0.6, MaxRate: 1.0},
	{Type: "vehicle", Unit: "miles", Names: []string{"Hauler", "Transit Van", "Service Truck", "Pickup"}, MinRate: 20, MaxRate: 55},
	{Type: "equipment", Unit: "runtime", Names: []string{"Compressor", "Generator", "Forklift", "Pump"}, MinRate: 0.5, MaxRate: 1.0},
}

// Settings is the simulator configuration.
type Settings struct {
	APIURL     string
	AuthToken  string
	FleetSize  int
	Interval   time.Duration
	TimeScale  float64 // simulated hours per tick
	MQTTBroker string
	MQTTTopic  string
}

// AssetState is the simulated side of one created asset.
type AssetState struct {
	AssetID string
	Name    string
	Unit    string
	Rate    float64
	Usage   float64
}

// Publisher delivers a usage reading for an asset.
type Publisher interface {
	Publish(ctx context.Context, s *AssetState, value float64) error
}

type createAssetRequest struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Identifier   string  `json:"identifier,omitempty"`
	UsageUnit    string  `json:"usage_unit"`
	CurrentUsage float64 `json:"current_usage"`
	SeedTemplate bool    `json:"seed_template"`
}

type usageReading struct {
	AssetID string    `json:"asset_id,omitempty"`
	Value   float64   `json:"value"`
	Date    time.Time `json:"date"`
	Notes   string    `json:"notes,omitempty"`
}

func loadSettings() Settings {
	s := Settings{
		APIURL:     strings.TrimRight(os.Getenv("API_BASE_URL"), "/"),
		AuthToken:  os.Getenv("SIM_AUTH_TOKEN"),
		FleetSize:  10,
		Interval:   2 * time.Second,
		TimeScale:  1,
		MQTTBroker: os.Getenv("SIM_MQTT_BROKER"),
		MQTTTopic:  os.Getenv("SIM_MQTT_TOPIC"),
	}
	if s.APIURL == "" {
		s.APIURL = "http://localhost:8080/api"
	}
	if val := os.Getenv("FLEET_SIZE"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			s.FleetSize = n
		}
	}
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			s.Interval = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("SIM_HOURS_PER_TICK"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			s.TimeScale = f
		}
	}
	if s.MQTTTopic == "" {
		s.MQTTTopic = "fleet/{owner}/usage"
	}
	return s
}

// apiClient talks to the maintenance API with the simulator's token.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{baseURL: baseURL, token: token, http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func (c *apiClient) createAsset(ctx context.Context, index int, p AssetProfile, rng *rand.Rand) (*AssetState, error) {
	name := fmt.Sprintf("%s %d", p.Names[rng.Intn(len(p.Names))], index+1)
	req := createAssetRequest{
		Name:         name,
		Type:         p.Type,
		Identifier:   fmt.Sprintf("SIM-%04d", index+1),
		UsageUnit:    p.Unit,
		CurrentUsage: float64(rng.Intn(200)),
		SeedTemplate: true,
	}

	var result map[string]interface{}
	status, err := c.do(ctx, http.MethodPost, "/assets", req, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("asset creation failed with status: %d", status)
	}

	id, ok := result["id"].(string)
	if !ok || id == "" {
		return nil, errors.New("invalid asset ID in response")
	}

	log.WithFields(log.Fields{
		"asset_id": id,
		"type":     p.Type,
		"name":     name,
	}).Info("Created asset")

	return &AssetState{
		AssetID: id,
		Name:    name,
		Unit:    p.Unit,
		Rate:    p.MinRate + rng.Float64()*(p.MaxRate-p.MinRate),
		Usage:   req.CurrentUsage,
	}, nil
}

// ownerID returns the account the token belongs to.
func (c *apiClient) ownerID(ctx context.Context) (string, error) {
	var profile struct {
		ID string `json:"id"`
	}
	status, err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &profile)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK || profile.ID == "" {
		return "", fmt.Errorf("profile lookup failed with status: %d", status)
	}
	return profile.ID, nil
}

// httpPublisher posts readings to the usage endpoint.
type httpPublisher struct {
	api *apiClient
}

func (p *httpPublisher) Publish(ctx context.Context, s *AssetState, value float64) error {
	status, err := p.api.do(ctx, http.MethodPost, "/assets/"+s.AssetID+"/usage", usageReading{Value: value, Date: time.Now().UTC()}, nil)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("usage post failed with status: %d", status)
	}
	return nil
}

// mqttPublisher publishes readings to the owner's usage topic.
type mqttPublisher struct {
	client mqtt.Client
	topic  string
}

func usageTopic(pattern, ownerID string) string {
	return strings.ReplaceAll(pattern, "{owner}", ownerID)
}

func (p *mqttPublisher) Publish(ctx context.Context, s *AssetState, value float64) error {
	data, err := json.Marshal(usageReading{AssetID: s.AssetID, Value: value, Date: time.Now().UTC()})
	if err != nil {
		return err
	}
	token := p.client.Publish(p.topic, 1, false, data)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// nextReading is the usage accumulated over one tick: the asset's rate with
// some noise, and occasionally nothing while the asset sits idle.
func nextReading(s *AssetState, hours float64, rng *rand.Rand) float64 {
	if rng.Float64() < 0.2 {
		return 0
	}
	v := s.Rate * hours * (0.7 + rng.Float64()*0.6)
	return float64(int(v*10+0.5)) / 10
}

func simulateAsset(ctx context.Context, pub Publisher, s *AssetState, settings Settings, rng *rand.Rand) {
	tick := time.NewTicker(settings.Interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}

		value := nextReading(s, settings.TimeScale, rng)
		if value <= 0 {
			continue
		}
		if err := pub.Publish(ctx, s, value); err != nil {
			log.WithError(err).WithField("asset_id", s.AssetID).Error("Failed to send usage")
			continue
		}
		s.Usage += value
		log.WithFields(log.Fields{
			"asset_id": s.AssetID,
			"value":    value,
			"usage":    s.Usage,
			"unit":     s.Unit,
		}).Debug("Sent usage")
	}
}

func newPublisher(ctx context.Context, api *apiClient, settings Settings) (Publisher, func(), error) {
	if settings.MQTTBroker == "" {
		return &httpPublisher{api: api}, func() {}, nil
	}

	owner, err := api.ownerID(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve owner: %w", err)
	}
	opts := mqtt.NewClientOptions().
		AddBroker(settings.MQTTBroker).
		SetClientID(fmt.Sprintf("fleet-simulator-%d", os.Getpid())).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &mqttPublisher{client: client, topic: usageTopic(settings.MQTTTopic, owner)}, func() { client.Disconnect(250) }, nil
}

func main() {
	settings := loadSettings()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"fleet_size": settings.FleetSize,
		"api_url":    settings.APIURL,
		"interval":   settings.Interval,
		"mqtt":       settings.MQTTBroker != "",
	}).Info("Starting fleet simulation")

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	api := newAPIClient(settings.APIURL, settings.AuthToken)

	states := make([]*AssetState, 0, settings.FleetSize)
	for i := 0; i < settings.FleetSize; i++ {
		state, err := api.createAsset(ctx, i, profiles[rng.Intn(len(profiles))], rng)
		if err != nil {
			log.WithError(err).Error("Failed to create asset")
			continue
		}
		states = append(states, state)
	}

	log.WithField("created_assets", len(states)).Info("Asset creation completed")
	if len(states) == 0 {
		log.Error("No assets created. Ensure SIM_AUTH_TOKEN is valid and API is reachable. Exiting.")
		return
	}

	pub, closePub, err := newPublisher(ctx, api, settings)
	if err != nil {
		log.WithError(err).Error("Failed to set up usage publisher")
		return
	}
	defer closePub()

	for _, s := range states {
		go simulateAsset(ctx, pub, s, settings, rand.New(rand.NewSource(rng.Int63())))
	}

	log.Info("Usage simulation started")
	<-ctx.Done()
	log.Info("Simulation stopped")
}
