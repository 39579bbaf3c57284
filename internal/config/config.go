// Package config handles loading and validation of service configuration.
// Supports both development (env vars, .env, CONFIG_FILE) and production
// (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/joho/godotenv"

	"shop-agent-bridge/internal/woocommerce"
)

// Config holds all service configuration.
// Built once at startup and treated as read-only afterwards.
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// GCP settings (required in production)
	GCPProject   string
	ShopSecretID string

	// Store connection (credentials loaded from secrets in production)
	Shop ShopConfig
}

// ShopConfig identifies the WooCommerce store and its REST API credentials.
// In production, this is loaded from Secret Manager as JSON.
// In development, loaded from individual env vars or CONFIG_FILE.
type ShopConfig struct {
	StoreURL       string `json:"store_url"`
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
	APIVersion     string `json:"api_version,omitempty"`
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set) → ENV vars / Secret Manager. A .env file
// (DOTENV_FILE, default ".env") is applied first without overriding
// variables already set in the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := loadDotEnv(envOrDefault("DOTENV_FILE", ".env")); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	cfg := &Config{
		Port:         envOrDefault("PORT", "4000"),
		Environment:  envOrDefault("ENVIRONMENT", "development"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		GCPProject:   os.Getenv("GCP_PROJECT"),
		ShopSecretID: envOrDefault("SHOP_SECRET_ID", "shop-agent-bridge"),
	}

	var err error
	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		err = cfg.loadFromSecretManager(ctx)
	} else {
		cfg.loadFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("loading shop config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadDotEnv applies a dotenv file if it exists.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("reading %s: %w", path, err)
}

// loadFromFile reads all configuration from a JSON file.
// Used for local development to avoid multiple ENV vars.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fileConfig struct {
		Port        string     `json:"port"`
		Environment string     `json:"environment"`
		LogLevel    string     `json:"log_level"`
		Shop        ShopConfig `json:"shop"`
	}

	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := &Config{
		Port:        withDefault(fileConfig.Port, "4000"),
		Environment: withDefault(fileConfig.Environment, "development"),
		LogLevel:    withDefault(fileConfig.LogLevel, "info"),
		Shop:        fileConfig.Shop,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

// loadFromSecretManager fetches the shop config from GCP Secret Manager.
// Secret name format: projects/{project}/secrets/{secret_id}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.ShopSecretID)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	if err := json.Unmarshal(result.Payload.Data, &c.Shop); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}

	// The store URL is not secret; allow it to come from the environment.
	if c.Shop.StoreURL == "" {
		c.Shop.StoreURL = os.Getenv("SHOP_URL")
	}

	return nil
}

// loadFromEnv reads the shop config from individual environment variables.
func (c *Config) loadFromEnv() {
	c.Shop = ShopConfig{
		StoreURL:       os.Getenv("SHOP_URL"),
		ConsumerKey:    os.Getenv("CONSUMER_KEY"),
		ConsumerSecret: os.Getenv("CONSUMER_SECRET"),
		APIVersion:     os.Getenv("WC_API_VERSION"),
	}
}

// validate checks that all required configuration fields are present.
func (c *Config) validate() error {
	if c.Shop.StoreURL == "" {
		return fmt.Errorf("store_url is required")
	}
	if c.Shop.ConsumerKey == "" {
		return fmt.Errorf("consumer_key is required")
	}
	if c.Shop.ConsumerSecret == "" {
		return fmt.Errorf("consumer_secret is required")
	}

	u, err := url.Parse(c.Shop.StoreURL)
	if err != nil {
		return fmt.Errorf("invalid store_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid store_url: want http(s)://host, got %q", c.Shop.StoreURL)
	}

	if _, err := woocommerce.NormalizeAPIVersion(c.Shop.APIVersion); err != nil {
		return fmt.Errorf("invalid api_version: %w", err)
	}

	return nil
}

// WooCommerce builds the upstream client configuration.
func (c *Config) WooCommerce(logger *slog.Logger) woocommerce.Config {
	return woocommerce.Config{
		StoreURL:       c.Shop.StoreURL,
		ConsumerKey:    c.Shop.ConsumerKey,
		ConsumerSecret: c.Shop.ConsumerSecret,
		APIVersion:     c.Shop.APIVersion,
		Logger:         logger,
	}
}

// StoreHost returns the host part of the store URL, for logging.
func (c *Config) StoreHost() string {
	u, err := url.Parse(c.Shop.StoreURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// APIVersion returns the REST API version the client will use, with the
// default applied. Validate has already rejected malformed values.
func (c *Config) APIVersion() string {
	version, err := woocommerce.NormalizeAPIVersion(c.Shop.APIVersion)
	if err != nil {
		return c.Shop.APIVersion
	}
	return version
}

// envOrDefault returns the environment variable value or the default if not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
