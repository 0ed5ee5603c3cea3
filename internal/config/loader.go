package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Load loads config from the default path (~/.treant/config.json).
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return LoadFromFile(filepath.Join(home, ".treant", "config.json"))
}

// LoadFromFile loads config from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader loads config from an io.Reader, applying defaults and env overrides.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()

	if err := json.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides applies TREANT_-prefixed environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	envMap := map[string]*string{
		"TREANT_AWS_REGION":            &cfg.AWS.Region,
		"TREANT_AWS_COMMAND_QUEUE_URL": &cfg.AWS.CommandQueueURL,
		"TREANT_AWS_VOICE_QUEUE_URL":   &cfg.AWS.VoiceQueueURL,
		"TREANT_AWS_PRICE_TABLE_NAME":  &cfg.AWS.PriceTableName,
		"TREANT_DISCORD_PUBLIC_KEY_SECRET_NAME": &cfg.Discord.PublicKeySecretName,
		"TREANT_DISCORD_BOT_TOKEN_SECRET_NAME":  &cfg.Discord.BotTokenSecretName,
		"TREANT_BLIZZARD_SECRET_NAME":           &cfg.Blizzard.SecretName,
		"TREANT_ANALYST_APIKEY":                 &cfg.Analyst.APIKey,
		"TREANT_ANALYST_PROVIDER":               &cfg.Analyst.Provider,
		"TREANT_ANALYST_MODEL":                  &cfg.Analyst.Model,
		"TREANT_PRICING_OFFER_URL":              &cfg.Pricing.OfferURL,
	}

	for env, ptr := range envMap {
		if val := os.Getenv(env); val != "" {
			*ptr = val
		}
	}
}
