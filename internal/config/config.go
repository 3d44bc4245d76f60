package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port"`
		Host         string        `yaml:"host"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		IdleTimeout  time.Duration `yaml:"idle_timeout"`
	} `yaml:"server"`

	Workers struct {
		PoolSize  int           `yaml:"pool_size"`
		QueueSize int           `yaml:"queue_size"`
		RateLimit int           `yaml:"rate_limit"` // requests per minute
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"workers"`

	Answers struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"answers"`

	Review struct {
		BaseURL string `yaml:"base_url"`
		Section string `yaml:"section"`
	} `yaml:"review"`

	Scraper struct {
		Engine         string        `yaml:"engine"` // "headed" or "firecrawl"
		UserAgent      string        `yaml:"user_agent"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		HeadlessMode   bool          `yaml:"headless_mode"`
		SettleDelay    time.Duration `yaml:"settle_delay"`

		Bypass struct {
			MaxCycles   int           `yaml:"max_cycles"`
			SettleDelay time.Duration `yaml:"settle_delay"`
			Markers     []string      `yaml:"markers"` // overrides the built-in marker set
		} `yaml:"bypass"`
	} `yaml:"scraper"`

	BrowserPool struct {
		MaxInstances int `yaml:"max_instances"`
	} `yaml:"browser_pool"`

	Firecrawl struct {
		APIKey     string        `yaml:"api_key"`
		APIURL     string        `yaml:"api_url"`
		Timeout    time.Duration `yaml:"timeout"`
		MaxRetries int           `yaml:"max_retries"`
	} `yaml:"firecrawl"`

	Storage struct {
		DatabasePath string `yaml:"database_path"`
		SnapshotDir  string `yaml:"snapshot_dir"`
	} `yaml:"storage"`

	Redis struct {
		URL      string        `yaml:"url"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		Timeout  time.Duration `yaml:"timeout"`
		TTL      time.Duration `yaml:"ttl"`
		Enabled  bool          `yaml:"enabled"`
	} `yaml:"redis"`

	Callback struct {
		URL        string        `yaml:"url"`
		Timeout    time.Duration `yaml:"timeout"`
		MaxRetries int           `yaml:"max_retries"`
		Enabled    bool          `yaml:"enabled"`
	} `yaml:"callback"`

	Schedule struct {
		Enabled  bool   `yaml:"enabled"`
		At       string `yaml:"at"` // HH:MM, local time unless Timezone set
		Timezone string `yaml:"timezone"`
	} `yaml:"schedule"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Workers.PoolSize = 2
	config.Workers.QueueSize = 20
	config.Workers.RateLimit = 10
	config.Workers.Timeout = 3 * time.Minute

	config.Answers.BaseURL = "https://www.nytimes.com/svc/wordle"
	config.Answers.Timeout = 15 * time.Second

	config.Review.BaseURL = "https://www.nytimes.com"
	config.Review.Section = "crosswords"

	config.Scraper.Engine = "headed"
	config.Scraper.RequestTimeout = 30 * time.Second
	config.Scraper.HeadlessMode = true
	config.Scraper.SettleDelay = 2 * time.Second
	config.Scraper.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	config.Scraper.Bypass.MaxCycles = 30
	config.Scraper.Bypass.SettleDelay = 2 * time.Second

	config.BrowserPool.MaxInstances = 2

	config.Firecrawl.APIURL = "https://api.firecrawl.dev"
	config.Firecrawl.Timeout = 60 * time.Second
	config.Firecrawl.MaxRetries = 3

	config.Storage.DatabasePath = "data/wordlewatch.db"
	config.Storage.SnapshotDir = "data/snapshots"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.Timeout = 5 * time.Second
	config.Redis.TTL = 24 * time.Hour

	config.Callback.Timeout = 30 * time.Second
	config.Callback.MaxRetries = 3

	config.Schedule.At = "09:15"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if baseURL := os.Getenv("ANSWERS_BASE_URL"); baseURL != "" {
		c.Answers.BaseURL = baseURL
	}

	if baseURL := os.Getenv("REVIEW_BASE_URL"); baseURL != "" {
		c.Review.BaseURL = baseURL
	}

	if engine := os.Getenv("SCRAPER_ENGINE"); engine != "" {
		c.Scraper.Engine = engine
	}

	if userAgent := os.Getenv("SCRAPER_USER_AGENT"); userAgent != "" {
		c.Scraper.UserAgent = userAgent
	}

	if maxCycles := os.Getenv("BYPASS_MAX_CYCLES"); maxCycles != "" {
		if cycles, err := strconv.Atoi(maxCycles); err == nil {
			c.Scraper.Bypass.MaxCycles = cycles
		}
	}

	if settle := os.Getenv("BYPASS_SETTLE_DELAY"); settle != "" {
		if d, err := time.ParseDuration(settle); err == nil {
			c.Scraper.Bypass.SettleDelay = d
		}
	}

	if firecrawlAPIKey := os.Getenv("FIRECRAWL_API_KEY"); firecrawlAPIKey != "" {
		c.Firecrawl.APIKey = firecrawlAPIKey
	}

	if firecrawlAPIURL := os.Getenv("FIRECRAWL_API_URL"); firecrawlAPIURL != "" {
		c.Firecrawl.APIURL = firecrawlAPIURL
	}

	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		c.Storage.DatabasePath = dbPath
	}

	if snapshotDir := os.Getenv("SNAPSHOT_DIR"); snapshotDir != "" {
		c.Storage.SnapshotDir = snapshotDir
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
		c.Redis.Enabled = true
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if callbackURL := os.Getenv("CALLBACK_URL"); callbackURL != "" {
		c.Callback.URL = callbackURL
		c.Callback.Enabled = true
	}

	if callbackTimeout := os.Getenv("CALLBACK_TIMEOUT"); callbackTimeout != "" {
		if timeout, err := time.ParseDuration(callbackTimeout); err == nil {
			c.Callback.Timeout = timeout
		}
	}

	if callbackMaxRetries := os.Getenv("CALLBACK_MAX_RETRIES"); callbackMaxRetries != "" {
		if retries, err := strconv.Atoi(callbackMaxRetries); err == nil {
			c.Callback.MaxRetries = retries
		}
	}

	if scheduleEnabled := os.Getenv("SCHEDULE_ENABLED"); scheduleEnabled != "" {
		c.Schedule.Enabled = scheduleEnabled == "true" || scheduleEnabled == "1"
	}

	if scheduleAt := os.Getenv("SCHEDULE_AT"); scheduleAt != "" {
		c.Schedule.At = scheduleAt
	}

	if maxInstances := os.Getenv("BROWSER_POOL_MAX_INSTANCES"); maxInstances != "" {
		if instances, err := strconv.Atoi(maxInstances); err == nil {
			c.BrowserPool.MaxInstances = instances
		}
	}
}
