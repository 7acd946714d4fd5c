package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store drivers.
const (
	StoreFile  = "file"
	StoreMySQL = "mysql"
)

// Lock drivers.
const (
	LockLocal = "local"
	LockRedis = "redis"
)

// Config holds all runtime configuration values. Nested structs read
// their variables under their own prefix, e.g. CACHE_TTL or DB_HOST.
type Config struct {
	Env       string `envconfig:"APP_ENV" default:"dev"`
	Port      string `envconfig:"APP_PORT" default:"3000"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	StoreDriver string   `envconfig:"STORE_DRIVER" default:"file"`
	DataFile    string   `envconfig:"DATA_FILE" default:"data/db.json"`
	DB          DBConfig `envconfig:"DB"`

	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	AccessTTLMin int    `envconfig:"ACCESS_TOKEN_TTL_MIN" default:"60"`
	BcryptCost   int    `envconfig:"BCRYPT_COST" default:"10"`
	// AuthRequired makes the staff endpoints demand a staff or admin token.
	AuthRequired bool `envconfig:"AUTH_REQUIRED" default:"false"`

	// RabbitURL enables booking events when set.
	RabbitURL string     `envconfig:"RABBITMQ_URL"`
	MQTT      MQTTConfig `envconfig:"MQTT"`
	Lock      LockConfig `envconfig:"LOCK"`

	Redis     RedisConfig     `envconfig:"REDIS"`
	Cache     CacheConfig     `envconfig:"CACHE"`
	RateLimit RateLimitConfig `envconfig:"RATE_LIMIT"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// DBConfig is the MySQL connection used when STORE_DRIVER=mysql.
type DBConfig struct {
	User string `envconfig:"USER"`
	Pass string `envconfig:"PASS"`
	Host string `envconfig:"HOST"`
	Port string `envconfig:"PORT" default:"3306"`
	Name string `envconfig:"NAME"`
}

// MQTTConfig enables device pushes when Broker is set.
type MQTTConfig struct {
	Broker      string `envconfig:"BROKER"`
	ClientID    string `envconfig:"CLIENT_ID" default:"hotel-management"`
	Username    string `envconfig:"USERNAME"`
	Password    string `envconfig:"PASSWORD"`
	TopicPrefix string `envconfig:"TOPIC_PREFIX" default:"hotel"`
	QoS         int    `envconfig:"QOS" default:"1"`
}

// LockConfig selects how bookings of one room are serialised.
type LockConfig struct {
	Driver string        `envconfig:"DRIVER" default:"local"`
	Prefix string        `envconfig:"PREFIX" default:"lock"`
	TTL    time.Duration `envconfig:"TTL" default:"10s"`
	Wait   time.Duration `envconfig:"WAIT" default:"5s"`
}

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	cfg.RateLimit.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	switch strings.ToLower(c.StoreDriver) {
	case StoreFile:
	case StoreMySQL:
		for name, v := range map[string]string{"DB_USER": c.DB.User, "DB_HOST": c.DB.Host, "DB_NAME": c.DB.Name} {
			if v == "" {
				errs = append(errs, fmt.Errorf("%s is required when STORE_DRIVER=mysql", name))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	switch strings.ToLower(c.Lock.Driver) {
	case LockLocal, LockRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown LOCK_DRIVER %q", c.Lock.Driver))
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, errors.New("MQTT_QOS must be 0, 1 or 2"))
	}
	if c.AccessTTLMin <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL_MIN must be positive"))
	}
	return errors.Join(errs...)
}

// Warnings lists settings that are valid but unsafe. A shared MySQL store
// with in-process locks only serialises bookings within one instance.
func (c Config) Warnings() []string {
	var out []string
	if strings.EqualFold(c.StoreDriver, StoreMySQL) && !strings.EqualFold(c.Lock.Driver, LockRedis) {
		out = append(out, "STORE_DRIVER=mysql with LOCK_DRIVER=local: bookings are only serialised within this instance")
	}
	return out
}

// AccessTTL is the lifetime of issued access tokens.
func (c Config) AccessTTL() time.Duration { return time.Duration(c.AccessTTLMin) * time.Minute }
