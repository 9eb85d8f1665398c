package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig        `mapstructure:"app"`
	HTTP        HTTPConfig       `mapstructure:"http"`
	Redis       RedisConfig      `mapstructure:"redis"`
	LLM         LLMConfig        `mapstructure:"llm"`
	HubSpot     HubSpotConfig    `mapstructure:"hubspot"`
	Catalog     CatalogConfig    `mapstructure:"catalog"`
	Questions   QuestionsConfig  `mapstructure:"questions"`
	Transcripts TranscriptConfig `mapstructure:"transcripts"`
	Logging     LoggingConfig    `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTLHours int    `mapstructure:"ttl_hours"`
}

func (r RedisConfig) TTL() time.Duration {
	if r.TTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(r.TTLHours) * time.Hour
}

type LLMConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type HubSpotConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	AccessToken  string `mapstructure:"access_token"`
	RefreshToken string `mapstructure:"refresh_token"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type QuestionsConfig struct {
	Path string `mapstructure:"path"`
}

type TranscriptConfig struct {
	Dir string `mapstructure:"dir"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configs/config.yaml, merges environment overrides (dotted keys
// map to underscored env vars, e.g. LLM_API_KEY) and validates the result.
// A .env file next to the binary is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "lead-agent")
	v.SetDefault("app.environment", "development")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl_hours", 24)
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "meta-llama/llama-4-scout-17b-16e-instruct")
	v.SetDefault("hubspot.base_url", "https://api.hubapi.com")
	v.SetDefault("hubspot.access_token", "")
	v.SetDefault("hubspot.refresh_token", "")
	v.SetDefault("hubspot.client_id", "")
	v.SetDefault("hubspot.client_secret", "")
	v.SetDefault("catalog.path", "inventario_maquinaria.csv")
	v.SetDefault("questions.path", "configs/questions.yaml")
	v.SetDefault("transcripts.dir", "transcripts")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func validate(cfg *Config) error {
	var missing []string
	if cfg.LLM.APIKey == "" {
		missing = append(missing, "llm.api_key (LLM_API_KEY)")
	}
	if cfg.HubSpot.AccessToken == "" {
		missing = append(missing, "hubspot.access_token (HUBSPOT_ACCESS_TOKEN)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
