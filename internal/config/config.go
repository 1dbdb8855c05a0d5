// Package config loads service configuration from an optional YAML file and
// environment variables. Environment variables win over the file, and the
// file wins over defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Engine     EngineConfig     `yaml:"engine"`
	Scanner    ScannerConfig    `yaml:"scanner"`
	Directions DirectionsConfig `yaml:"directions"`
	Publisher  PublisherConfig  `yaml:"publisher"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "postgres"
	URL    string `yaml:"url"`    // postgres URL or sqlite path
}

type RedisConfig struct {
	Address  string `yaml:"address"` // empty disables redis adapters
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type EngineConfig struct {
	AverageSpeedKmh     float64       `yaml:"average_speed_kmh"`
	PickupMinutes       float64       `yaml:"pickup_minutes"`
	DeliveryMinutes     float64       `yaml:"delivery_minutes"`
	TrafficBuffer       float64       `yaml:"traffic_buffer"`
	SafetyMarginMinutes int           `yaml:"safety_margin_minutes"`
	RouteLockTTL        time.Duration `yaml:"route_lock_ttl"`
	Timezone            string        `yaml:"timezone"`
}

type ScannerConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Interval      time.Duration `yaml:"interval"`
	WindowMinutes int           `yaml:"window_minutes"`
}

type DirectionsConfig struct {
	ORSAPIKey string        `yaml:"ors_api_key"` // empty disables the provider
	BaseURL   string        `yaml:"base_url"`
	Profile   string        `yaml:"profile"`
	Timeout   time.Duration `yaml:"timeout"`
}

type PublisherConfig struct {
	Kind         string   `yaml:"kind"` // "log", "kafka" or "rabbitmq"
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`
	RabbitURL    string   `yaml:"rabbitmq_url"`
	Exchange     string   `yaml:"exchange"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
	ServiceName  string `yaml:"service_name"`
}

func Defaults() Config {
	return Config{
		Port: "8080",
		Database: DatabaseConfig{
			Driver: "sqlite",
			URL:    "data/app.db",
		},
		Engine: EngineConfig{
			AverageSpeedKmh:     25,
			PickupMinutes:       15,
			DeliveryMinutes:     10,
			TrafficBuffer:       1.3,
			SafetyMarginMinutes: 60,
			RouteLockTTL:        30 * time.Second,
			Timezone:            "Local",
		},
		Scanner: ScannerConfig{
			Enabled:       true,
			Interval:      5 * time.Minute,
			WindowMinutes: 120,
		},
		Directions: DirectionsConfig{
			BaseURL: "https://api.openrouteservice.org",
			Profile: "driving-car",
			Timeout: 3 * time.Second,
		},
		Publisher: PublisherConfig{
			Kind:       "log",
			KafkaTopic: "sla.alerts",
			Exchange:   "sla.alerts",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "route-consolidation-service",
		},
	}
}

// Load builds the configuration. path may be empty or point at a missing
// file, in which case only defaults and environment apply.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
			}
		case !os.IsNotExist(err):
			return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = Get("PORT", c.Port)

	c.Database.Driver = Get("DB_DRIVER", c.Database.Driver)
	c.Database.URL = Get("DATABASE_URL", c.Database.URL)

	c.Redis.Address = Get("REDIS_ADDR", c.Redis.Address)
	c.Redis.Password = Get("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = GetInt("REDIS_DB", c.Redis.DB)

	c.Engine.AverageSpeedKmh = GetFloat("AVERAGE_SPEED_KMH", c.Engine.AverageSpeedKmh)
	c.Engine.PickupMinutes = GetFloat("PICKUP_TIME_MIN", c.Engine.PickupMinutes)
	c.Engine.DeliveryMinutes = GetFloat("DELIVERY_TIME_MIN", c.Engine.DeliveryMinutes)
	c.Engine.TrafficBuffer = GetFloat("TRAFFIC_BUFFER", c.Engine.TrafficBuffer)
	c.Engine.SafetyMarginMinutes = GetInt("SAFETY_MARGIN_MIN", c.Engine.SafetyMarginMinutes)
	c.Engine.RouteLockTTL = GetDuration("ROUTE_LOCK_TTL", c.Engine.RouteLockTTL)
	c.Engine.Timezone = Get("ENGINE_TIMEZONE", c.Engine.Timezone)

	c.Scanner.Enabled = GetBool("SCANNER_ENABLED", c.Scanner.Enabled)
	c.Scanner.Interval = GetDuration("SCANNER_INTERVAL", c.Scanner.Interval)
	c.Scanner.WindowMinutes = GetInt("SCANNER_WINDOW_MIN", c.Scanner.WindowMinutes)

	c.Directions.ORSAPIKey = Get("ORS_API_KEY", c.Directions.ORSAPIKey)
	c.Directions.BaseURL = Get("ORS_BASE_URL", c.Directions.BaseURL)
	c.Directions.Profile = Get("ORS_PROFILE", c.Directions.Profile)
	c.Directions.Timeout = GetDuration("DIRECTIONS_TIMEOUT", c.Directions.Timeout)

	c.Publisher.Kind = Get("ALERT_PUBLISHER", c.Publisher.Kind)
	if brokers := Get("KAFKA_BROKERS", ""); brokers != "" {
		c.Publisher.KafkaBrokers = strings.Split(brokers, ",")
	}
	c.Publisher.KafkaTopic = Get("KAFKA_ALERT_TOPIC", c.Publisher.KafkaTopic)
	c.Publisher.RabbitURL = Get("RABBITMQ_URL", c.Publisher.RabbitURL)
	c.Publisher.Exchange = Get("RABBITMQ_EXCHANGE", c.Publisher.Exchange)

	c.Telemetry.OTLPEndpoint = Get("OTEL_EXPORTER_OTLP_ENDPOINT", c.Telemetry.OTLPEndpoint)
	c.Telemetry.Insecure = GetBool("OTEL_EXPORTER_OTLP_INSECURE", c.Telemetry.Insecure)
	c.Telemetry.ServiceName = Get("OTEL_SERVICE_NAME", c.Telemetry.ServiceName)
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if c.Engine.AverageSpeedKmh <= 0 {
		return fmt.Errorf("engine.average_speed_kmh must be positive, got %v", c.Engine.AverageSpeedKmh)
	}
	if c.Engine.TrafficBuffer < 1 {
		return fmt.Errorf("engine.traffic_buffer must be >= 1, got %v", c.Engine.TrafficBuffer)
	}
	if c.Scanner.Interval <= 0 {
		return fmt.Errorf("scanner.interval must be positive, got %v", c.Scanner.Interval)
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	switch c.Publisher.Kind {
	case "log", "kafka", "rabbitmq":
	default:
		return fmt.Errorf("publisher.kind must be log, kafka or rabbitmq, got %q", c.Publisher.Kind)
	}
	return nil
}

// Location resolves Engine.Timezone; "Local" or empty means time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Engine.Timezone == "" || c.Engine.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Engine.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: load timezone %q: %w", c.Engine.Timezone, err)
	}
	return loc, nil
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	if v, err := strconv.Atoi(Get(key, "")); err == nil {
		return v
	}
	return fallback
}

func GetFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(Get(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

func GetBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(Get(key, "")); err == nil {
		return v
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(Get(key, "")); err == nil {
		return v
	}
	return fallback
}
