package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable the journal backend reads.
const EnvPrefix = "WFJ"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Images       ImagesConfig
	CORS         CORSConfig
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
	Env          string `envconfig:"WFJ_APP_ENV" required:"true"`
	Port         string `envconfig:"WFJ_APP_PORT" default:"3001"`
	LogLevel     string `envconfig:"WFJ_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WFJ_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"WFJ_DB_DSN"`

	Host     string `envconfig:"WFJ_DB_HOST"`
	Port     int    `envconfig:"WFJ_DB_PORT" default:"5432"`
	User     string `envconfig:"WFJ_DB_USER"`
	Password string `envconfig:"WFJ_DB_PASSWORD"`
	Name     string `envconfig:"WFJ_DB_NAME"`
	SSLMode  string `envconfig:"WFJ_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WFJ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WFJ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WFJ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WFJ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for env, value := range map[string]string{
		"WFJ_DB_HOST": db.Host,
		"WFJ_DB_USER": db.User,
		"WFJ_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either WFJ_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"WFJ_REDIS_URL" required:"true"`
	Password     string        `envconfig:"WFJ_REDIS_PASSWORD"`
	DB           int           `envconfig:"WFJ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WFJ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WFJ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WFJ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WFJ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WFJ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"WFJ_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"WFJ_JWT_ISSUER" default:"wfj-api"`
	ExpirationMinutes int    `envconfig:"WFJ_JWT_EXPIRATION_MINUTES" default:"43200"`
	CookieName        string `envconfig:"WFJ_JWT_COOKIE_NAME" default:"token"`
	CookieSecure      bool   `envconfig:"WFJ_JWT_COOKIE_SECURE" default:"false"`
}

// Expiration returns the access token TTL.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WFJ_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WFJ_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WFJ_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WFJ_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WFJ_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WFJ_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"WFJ_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"WFJ_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"WFJ_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"WFJ_GCS_BUCKET_NAME" required:"true"`
	// ObjectPrefix groups journal uploads under one pseudo-folder in the bucket.
	ObjectPrefix string `envconfig:"WFJ_GCS_OBJECT_PREFIX" default:"meal-images"`
}

type ImagesConfig struct {
	MaxUploadMB int `envconfig:"WFJ_IMAGES_MAX_UPLOAD_MB" default:"10"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"WFJ_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
