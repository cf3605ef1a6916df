package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	GoogleMaps   GoogleMapsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Checkout     CheckoutConfig
	Shipping     ShippingConfig
	Geo          GeoConfig
	RateLimit    RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GROCEMART_APP_ENV" required:"true"`
	Port         string `envconfig:"GROCEMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GROCEMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GROCEMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"GROCEMART_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"GROCEMART_DB_DSN"`
	Driver string `envconfig:"GROCEMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GROCEMART_DB_HOST"`
	LegacyPort     int    `envconfig:"GROCEMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GROCEMART_DB_USER"`
	LegacyPassword string `envconfig:"GROCEMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"GROCEMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"GROCEMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GROCEMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GROCEMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GROCEMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GROCEMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GROCEMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GROCEMART_REDIS_ADDR"`
	Password     string        `envconfig:"GROCEMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"GROCEMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GROCEMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GROCEMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GROCEMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GROCEMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GROCEMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GROCEMART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GROCEMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GROCEMART_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"GROCEMART_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the Redis session liveness TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GROCEMART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GROCEMART_AUTO_MIGRATE" default:"false"`
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"GROCEMART_GOOGLE_MAPS_API_KEY"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"GROCEMART_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"GROCEMART_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GROCEMART_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"GROCEMART_PUBSUB_ORDERS_TOPIC" required:"true"`
	OrdersSubscription string `envconfig:"GROCEMART_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
	CheckoutTopic      string `envconfig:"GROCEMART_PUBSUB_CHECKOUT_TOPIC" default:"gm-checkout-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"GROCEMART_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"GROCEMART_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"GROCEMART_OUTBOX_MAX_ATTEMPTS" default:"10"`
	// IdempotencyTTL bounds how long consumers remember processed event IDs.
	IdempotencyTTL time.Duration `envconfig:"GROCEMART_OUTBOX_IDEMPOTENCY_TTL" default:"72h"`
}

type CheckoutConfig struct {
	// SubmitDelayMS simulates payment-capture latency. The gateway
	// integration is out of scope; orders are captured locally.
	SubmitDelayMS int `envconfig:"GROCEMART_CHECKOUT_SUBMIT_DELAY_MS" default:"400"`
}

type ShippingConfig struct {
	QuoteTimeout time.Duration `envconfig:"GROCEMART_SHIPPING_QUOTE_TIMEOUT" default:"8s"`
}

type GeoConfig struct {
	CacheTTL time.Duration `envconfig:"GROCEMART_GEO_CACHE_TTL" default:"30m"`
}

type RateLimitConfig struct {
	QuoteWindow time.Duration `envconfig:"GROCEMART_RATE_LIMIT_QUOTE_WINDOW" default:"1m"`
	QuoteLimit  int           `envconfig:"GROCEMART_RATE_LIMIT_QUOTE_LIMIT" default:"30"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
