package devserver

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is read from the environment by [Load]. Every variable has a
// development-friendly default; nothing here is fit for production.
type Config struct {
	Addr       string        `env:"AUTHFLOW_DEV_ADDR" envDefault:":8484"`
	RedisAddr  string        `env:"AUTHFLOW_DEV_REDIS_ADDR" envDefault:"localhost:6379"`
	JWTSecret  string        `env:"AUTHFLOW_DEV_JWT_SECRET" envDefault:"authflow-dev-secret"`
	SessionTTL time.Duration `env:"AUTHFLOW_DEV_SESSION_TTL" envDefault:"24h"`
	SMSCodeTTL time.Duration `env:"AUTHFLOW_DEV_SMS_TTL" envDefault:"5m"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	return env.ParseAs[Config]()
}
