package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port       string        `envconfig:"PORT" default:"8080"`
	APIBaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:5000/api"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"10s"`

	DBDSN string `envconfig:"DB_DSN" default:"wickandwax.db"` // sqlite file in project root

	RedisAddr string        `envconfig:"REDIS_ADDR"` // empty disables the read cache
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"30s"`

	MediaDir     string `envconfig:"MEDIA_DIR" default:"./web/media"`
	LogFile      string `envconfig:"LOG_FILE" default:"./wickandwax.log"`
	CookieSecure bool   `envconfig:"COOKIE_SECURE" default:"false"`

	SearchDebounce time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"300ms"`
	OTPCooldown    time.Duration `envconfig:"OTP_COOLDOWN" default:"60s"`

	TraceStdout bool `envconfig:"TRACE_STDOUT" default:"false"`
}

// Load reads the environment. Malformed values are fatal at startup.
func Load() Config {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("[config] %v", err)
	}
	log.Printf("[config] PORT=%s API_BASE_URL=%s DB_DSN=%s REDIS_ADDR=%q MEDIA_DIR=%s LOG_FILE=%s",
		cfg.Port, cfg.APIBaseURL, cfg.DBDSN, cfg.RedisAddr, cfg.MediaDir, cfg.LogFile)
	return cfg
}
