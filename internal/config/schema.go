package config

// Config is the top-level configuration
type Config struct {
	Discord  DiscordConfig  `json:"discord"`
	AWS      AWSConfig      `json:"aws"`
	Blizzard BlizzardConfig `json:"blizzard"`
	Analyst  AnalystConfig  `json:"analyst"`
	Pricing  PricingConfig  `json:"pricing"`
	Voice    VoiceConfig    `json:"voice"`
	Gateway  GatewayConfig  `json:"gateway"`
}

// DiscordConfig holds the Discord application settings.
type DiscordConfig struct {
	Command             string `json:"command"`             // top-level slash command name
	PublicKeySecretName string `json:"publicKeySecretName"` // secret holding the hex-encoded Ed25519 key
	BotTokenSecretName  string `json:"botTokenSecretName"`  // secret holding the bot token (voice worker)
}

// AWSConfig holds queue and table wiring.
type AWSConfig struct {
	Region          string `json:"region"`
	CommandQueueURL string `json:"commandQueueUrl"`
	VoiceQueueURL   string `json:"voiceQueueUrl"`
	PriceTableName  string `json:"priceTableName"`
}

// BlizzardConfig holds the battle.net API settings.
type BlizzardConfig struct {
	SecretName   string `json:"secretName"` // secret holding {"clientId","clientSecret"}
	DefaultRealm string `json:"defaultRealm"`
	OAuthURL     string `json:"oauthUrl"`
	APIBaseURL   string `json:"apiBaseUrl"`
	Namespace    string `json:"namespace"`
}

// AnalystConfig selects and configures the gear-judgment model.
type AnalystConfig struct {
	Provider       string `json:"provider"` // "openai" or "anthropic"
	APIKey         string `json:"apiKey"`
	BaseURL        string `json:"baseUrl"`
	Model          string `json:"model"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// PricingConfig holds the gold-offer feed and history settings.
type PricingConfig struct {
	OfferURL        string `json:"offerUrl"`
	CooldownMinutes int    `json:"cooldownMinutes"`
	HistoryLimit    int    `json:"historyLimit"`
	SampleSchedule  string `json:"sampleSchedule"` // robfig/cron spec, empty disables the sampler
}

// VoiceConfig holds text-to-speech playback settings.
type VoiceConfig struct {
	VoiceID string `json:"voiceId"`
}

type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// DefaultConfig returns a Config with sensible defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Discord: DiscordConfig{
			Command: "treant",
		},
		AWS: AWSConfig{
			Region: "us-east-1",
		},
		Blizzard: BlizzardConfig{
			DefaultRealm: "dreamscythe",
			OAuthURL:     "https://oauth.battle.net/token",
			APIBaseURL:   "https://us.api.blizzard.com",
			Namespace:    "profile-classic-us",
		},
		Analyst: AnalystConfig{
			Provider:       "openai",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 60,
		},
		Pricing: PricingConfig{
			CooldownMinutes: 30,
			HistoryLimit:    24,
			SampleSchedule:  "@every 30m",
		},
		Voice: VoiceConfig{
			VoiceID: "Brian",
		},
		Gateway: GatewayConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
	}
}
