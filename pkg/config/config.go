package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is the envconfig prefix shared by every setting.
	EnvPrefix = "SELLBOX"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv                 = "SELLBOX_APP_ENV"
	EnvPort                   = "SELLBOX_APP_PORT"
	EnvDBDSN                  = "SELLBOX_DB_DSN"
	EnvDBHost                 = "SELLBOX_DB_HOST"
	EnvDBUser                 = "SELLBOX_DB_USER"
	EnvDBName                 = "SELLBOX_DB_NAME"
	EnvRedisURL               = "SELLBOX_REDIS_URL"
	EnvJWTSecret              = "SELLBOX_JWT_SECRET"
	EnvJWTIssuer              = "SELLBOX_JWT_ISSUER"
	EnvJWTExpMins             = "SELLBOX_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "SELLBOX_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCPProjectID           = "SELLBOX_GCP_PROJECT_ID"
	EnvGCSBucket              = "SELLBOX_GCS_BUCKET_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	Public        PublicConfig
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
	Env          string `envconfig:"SELLBOX_APP_ENV" required:"true"`
	Port         string `envconfig:"SELLBOX_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SELLBOX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SELLBOX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SELLBOX_DB_DSN"`
	Driver string `envconfig:"SELLBOX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SELLBOX_DB_HOST"`
	LegacyPort     int    `envconfig:"SELLBOX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SELLBOX_DB_USER"`
	LegacyPassword string `envconfig:"SELLBOX_DB_PASSWORD"`
	LegacyName     string `envconfig:"SELLBOX_DB_NAME"`
	LegacySSLMode  string `envconfig:"SELLBOX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SELLBOX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SELLBOX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SELLBOX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SELLBOX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SELLBOX_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SELLBOX_REDIS_ADDR"`
	Password     string        `envconfig:"SELLBOX_REDIS_PASSWORD"`
	DB           int           `envconfig:"SELLBOX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SELLBOX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SELLBOX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SELLBOX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SELLBOX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SELLBOX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SELLBOX_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SELLBOX_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SELLBOX_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SELLBOX_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SELLBOX_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SELLBOX_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SELLBOX_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SELLBOX_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SELLBOX_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SELLBOX_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SELLBOX_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SELLBOX_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SELLBOX_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SELLBOX_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SELLBOX_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SELLBOX_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SELLBOX_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SELLBOX_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"SELLBOX_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SELLBOX_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"SELLBOX_GCS_BUCKET_NAME" required:"true"`
}

type MediaConfig struct {
	MaxUploadMB    int `envconfig:"SELLBOX_MAX_UPLOAD_MB" default:"10"`
	ImageMaxWidth  int `envconfig:"SELLBOX_MEDIA_IMAGE_MAX_WIDTH" default:"1200"`
	ImageMaxHeight int `envconfig:"SELLBOX_MEDIA_IMAGE_MAX_HEIGHT" default:"1200"`
	ImageQuality   int `envconfig:"SELLBOX_MEDIA_IMAGE_QUALITY" default:"80"`
}

// PublicConfig carries the buyer-facing base URL used when building
// shareable session and order links.
type PublicConfig struct {
	BaseURL string `envconfig:"SELLBOX_PUBLIC_BASE_URL" default:"http://localhost:3000"`
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
