package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Storefront    StorefrontConfig
	Cart          CartConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
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
	Env          string `envconfig:"FLORERIA_APP_ENV" required:"true"`
	Port         string `envconfig:"FLORERIA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FLORERIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FLORERIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FLORERIA_DB_DSN"`
	Driver string `envconfig:"FLORERIA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FLORERIA_DB_HOST"`
	LegacyPort     int    `envconfig:"FLORERIA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FLORERIA_DB_USER"`
	LegacyPassword string `envconfig:"FLORERIA_DB_PASSWORD"`
	LegacyName     string `envconfig:"FLORERIA_DB_NAME"`
	LegacySSLMode  string `envconfig:"FLORERIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FLORERIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FLORERIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FLORERIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FLORERIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FLORERIA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FLORERIA_REDIS_ADDR"`
	Password     string        `envconfig:"FLORERIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"FLORERIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FLORERIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FLORERIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FLORERIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FLORERIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FLORERIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FLORERIA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FLORERIA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FLORERIA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FLORERIA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FLORERIA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FLORERIA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FLORERIA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FLORERIA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FLORERIA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"FLORERIA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"FLORERIA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"FLORERIA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FLORERIA_AUTO_MIGRATE" default:"false"`
}

// StorefrontConfig carries the delivery rules for the shop: the districts the
// store delivers to, which of them only accept afternoon slots, and the
// calling code prepended to local phone numbers.
type StorefrontConfig struct {
	Districts           []string `envconfig:"FLORERIA_STORE_DISTRICTS" default:"Chiclayo,José Leonardo Ortiz,La Victoria,Pimentel,Lambayeque,Monsefú,Reque"`
	RestrictedDistricts []string `envconfig:"FLORERIA_STORE_RESTRICTED_DISTRICTS" default:"Chiclayo,Lambayeque,Pimentel"`
	RestrictedStartHour int      `envconfig:"FLORERIA_STORE_RESTRICTED_START_HOUR" default:"13"`
	Timezone            string   `envconfig:"FLORERIA_STORE_TIMEZONE" default:"America/Lima"`
	CountryCallingCode  string   `envconfig:"FLORERIA_STORE_COUNTRY_CALLING_CODE" default:"51"`
}

// IsRestrictedDistrict reports whether the district only accepts afternoon slots.
func (s StorefrontConfig) IsRestrictedDistrict(district string) bool {
	return containsFold(s.RestrictedDistricts, district)
}

// HasDistrict reports whether the district belongs to the delivery area.
func (s StorefrontConfig) HasDistrict(district string) bool {
	return containsFold(s.Districts, district)
}

func containsFold(values []string, candidate string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(candidate)) {
			return true
		}
	}
	return false
}

type CartConfig struct {
	TTL time.Duration `envconfig:"FLORERIA_CART_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"FLORERIA_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"FLORERIA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"FLORERIA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName      string        `envconfig:"FLORERIA_GCS_BUCKET_NAME"`
	UploadURLExpiry time.Duration `envconfig:"FLORERIA_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"FLORERIA_MAX_UPLOAD_MB" default:"10"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"FLORERIA_PUBSUB_ORDERS_TOPIC" default:"floreria-order-events"`
	OrdersSubscription string `envconfig:"FLORERIA_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"FLORERIA_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"FLORERIA_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"FLORERIA_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
