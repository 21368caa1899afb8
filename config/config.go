package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"

	AuditBackendMongo  = "mongo"
	AuditBackendDynamo = "dynamodb"
	AuditBackendNone   = "none"

	AssetsBackendS3    = "s3"
	AssetsBackendGCS   = "gcs"
	AssetsBackendLocal = "local"
	AssetsBackendNone  = "none"
)

const (
	defaultPort                  = 8080
	defaultGenerationTimeoutSecs = 90
	defaultMaxTokens             = 1024
	defaultMongoCollection       = "submissions"
	defaultRosterKey             = "roster.csv"
	defaultBannerKey             = "banner.png"
	defaultRateLimitWindowSecs   = 3600
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		Mode           string   `yaml:"mode"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
		Title          string   `yaml:"title"`
	} `yaml:"server"`

	Log struct {
		Mode string `yaml:"mode"`
	} `yaml:"log"`

	Generation struct {
		Provider       string `yaml:"provider"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
		MaxTokens      int    `yaml:"maxTokens"`
	} `yaml:"generation"`

	Openai struct {
		GptApiKey string `yaml:"gptApiKey"`
		BaseURL   string `yaml:"baseUrl"`
	} `yaml:"openai"`

	Gemini struct {
		ApiKey string `yaml:"apiKey"`
	} `yaml:"gemini"`

	Anthropic struct {
		ApiKey string `yaml:"apiKey"`
	} `yaml:"anthropic"`

	Audit struct {
		Backend         string `yaml:"backend"`
		MongoURI        string `yaml:"mongoUri"`
		MongoCollection string `yaml:"mongoCollection"`
		DynamoTable     string `yaml:"dynamoTable"`
	} `yaml:"audit"`

	Assets struct {
		Backend   string `yaml:"backend"`
		Bucket    string `yaml:"bucket"`
		RosterKey string `yaml:"rosterKey"`
		BannerKey string `yaml:"bannerKey"`
		LocalDir  string `yaml:"localDir"`
	} `yaml:"assets"`

	AWS struct {
		Region   string `yaml:"region"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"aws"`

	RateLimit struct {
		RedisAddr      string `yaml:"redisAddr"`
		RedisPassword  string `yaml:"redisPassword"`
		RedisDB        int    `yaml:"redisDb"`
		MaxSubmissions int    `yaml:"maxSubmissions"`
		WindowSeconds  int    `yaml:"windowSeconds"`
	} `yaml:"rateLimit"`
}

// LoadConfig reads the YAML file at path (a missing file is not an error),
// applies environment overrides and defaults, and validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		path = envPath
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal yaml %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	envOverride(&c.Server.Mode, "GIN_MODE")
	envOverride(&c.Log.Mode, "LOG_MODE")
	envOverride(&c.Generation.Provider, "GENERATION_PROVIDER")
	envOverride(&c.Generation.Model, "GENERATION_MODEL")
	envOverride(&c.Openai.GptApiKey, "OPENAI_API_KEY")
	envOverride(&c.Openai.BaseURL, "OPENAI_BASE_URL")
	envOverride(&c.Gemini.ApiKey, "GEMINI_API_KEY")
	envOverride(&c.Anthropic.ApiKey, "ANTHROPIC_API_KEY")
	envOverride(&c.Audit.Backend, "AUDIT_BACKEND")
	envOverride(&c.Audit.MongoURI, "MONGO_URI")
	envOverride(&c.Audit.DynamoTable, "DYNAMO_TABLE")
	envOverride(&c.Assets.Backend, "ASSETS_BACKEND")
	envOverride(&c.Assets.Bucket, "ASSETS_BUCKET")
	envOverride(&c.Assets.LocalDir, "ASSETS_DIR")
	envOverride(&c.AWS.Region, "AWS_REGION")
	envOverride(&c.AWS.Endpoint, "AWS_ENDPOINT_URL")
	envOverride(&c.RateLimit.RedisAddr, "REDIS_ADDR")
	envOverride(&c.RateLimit.RedisPassword, "REDIS_PASSWORD")

	if err := envOverrideInt(&c.Server.Port, "PORT"); err != nil {
		return err
	}
	if err := envOverrideInt(&c.Generation.TimeoutSeconds, "GENERATION_TIMEOUT_SECONDS"); err != nil {
		return err
	}
	if err := envOverrideInt(&c.RateLimit.MaxSubmissions, "RATE_LIMIT_MAX_SUBMISSIONS"); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.Title == "" {
		c.Server.Title = "Journal Response Grader"
	}
	if c.Log.Mode == "" {
		c.Log.Mode = "dev"
	}
	c.Generation.Provider = strings.ToLower(strings.TrimSpace(c.Generation.Provider))
	if c.Generation.Provider == "" {
		c.Generation.Provider = ProviderOpenAI
	}
	if c.Generation.TimeoutSeconds == 0 {
		c.Generation.TimeoutSeconds = defaultGenerationTimeoutSecs
	}
	if c.Generation.MaxTokens == 0 {
		c.Generation.MaxTokens = defaultMaxTokens
	}
	c.Audit.Backend = strings.ToLower(strings.TrimSpace(c.Audit.Backend))
	if c.Audit.Backend == "" {
		c.Audit.Backend = AuditBackendNone
	}
	if c.Audit.MongoCollection == "" {
		c.Audit.MongoCollection = defaultMongoCollection
	}
	c.Assets.Backend = strings.ToLower(strings.TrimSpace(c.Assets.Backend))
	if c.Assets.Backend == "" {
		c.Assets.Backend = AssetsBackendNone
	}
	if c.Assets.RosterKey == "" {
		c.Assets.RosterKey = defaultRosterKey
	}
	if c.Assets.BannerKey == "" {
		c.Assets.BannerKey = defaultBannerKey
	}
	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = defaultRateLimitWindowSecs
	}
}

// Validate reports the first configuration key that cannot be used.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Generation.TimeoutSeconds < 1 {
		return fmt.Errorf("invalid generation.timeoutSeconds %d: must be >= 1", c.Generation.TimeoutSeconds)
	}
	if c.Generation.MaxTokens < 1 {
		return fmt.Errorf("invalid generation.maxTokens %d: must be >= 1", c.Generation.MaxTokens)
	}

	switch c.Generation.Provider {
	case ProviderOpenAI:
		if c.Openai.GptApiKey == "" {
			return errors.New("openai.gptApiKey is required when generation.provider=openai")
		}
	case ProviderGemini:
		if c.Gemini.ApiKey == "" {
			return errors.New("gemini.apiKey is required when generation.provider=gemini")
		}
	case ProviderAnthropic:
		if c.Anthropic.ApiKey == "" {
			return errors.New("anthropic.apiKey is required when generation.provider=anthropic")
		}
	default:
		return fmt.Errorf("generation.provider must be one of openai, gemini, anthropic, got %q", c.Generation.Provider)
	}

	switch c.Audit.Backend {
	case AuditBackendMongo:
		if c.Audit.MongoURI == "" {
			return errors.New("audit.mongoUri is required when audit.backend=mongo")
		}
	case AuditBackendDynamo:
		if c.Audit.DynamoTable == "" {
			return errors.New("audit.dynamoTable is required when audit.backend=dynamodb")
		}
	case AuditBackendNone:
	default:
		return fmt.Errorf("audit.backend must be one of mongo, dynamodb, none, got %q", c.Audit.Backend)
	}

	switch c.Assets.Backend {
	case AssetsBackendS3, AssetsBackendGCS:
		if c.Assets.Bucket == "" {
			return fmt.Errorf("assets.bucket is required when assets.backend=%s", c.Assets.Backend)
		}
	case AssetsBackendLocal:
		if c.Assets.LocalDir == "" {
			return errors.New("assets.localDir is required when assets.backend=local")
		}
	case AssetsBackendNone:
	default:
		return fmt.Errorf("assets.backend must be one of s3, gcs, local, none, got %q", c.Assets.Backend)
	}

	if c.RateLimit.RedisAddr != "" {
		if c.RateLimit.MaxSubmissions < 1 {
			return fmt.Errorf("invalid rateLimit.maxSubmissions %d: must be >= 1 when rateLimit.redisAddr is set", c.RateLimit.MaxSubmissions)
		}
		if c.RateLimit.WindowSeconds < 1 {
			return fmt.Errorf("invalid rateLimit.windowSeconds %d: must be >= 1", c.RateLimit.WindowSeconds)
		}
	}
	return nil
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}
