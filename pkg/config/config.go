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
	DB           DBConfig
	Redis        RedisConfig
	Catalog      CatalogConfig
	Mail         MailConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"NIASOTAC_APP_ENV" required:"true"`
	Port         string `envconfig:"NIASOTAC_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"NIASOTAC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NIASOTAC_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"NIASOTAC_DB_DSN"`
	Driver string `envconfig:"NIASOTAC_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"NIASOTAC_DB_HOST"`
	LegacyPort     int    `envconfig:"NIASOTAC_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"NIASOTAC_DB_USER"`
	LegacyPassword string `envconfig:"NIASOTAC_DB_PASSWORD"`
	LegacyName     string `envconfig:"NIASOTAC_DB_NAME"`
	LegacySSLMode  string `envconfig:"NIASOTAC_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NIASOTAC_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NIASOTAC_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NIASOTAC_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NIASOTAC_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NIASOTAC_REDIS_URL"`
	Address      string        `envconfig:"NIASOTAC_REDIS_ADDR"`
	Password     string        `envconfig:"NIASOTAC_REDIS_PASSWORD"`
	DB           int           `envconfig:"NIASOTAC_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NIASOTAC_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NIASOTAC_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NIASOTAC_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NIASOTAC_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NIASOTAC_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured. The API degrades
// to uncached reads when it was not.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// CatalogConfig carries the merchandising tunables. The three scoring weights
// sum to 100 so a maxed-out heuristic lands on the scale ceiling.
type CatalogConfig struct {
	FeaturedThreshold    float64       `envconfig:"NIASOTAC_CATALOG_FEATURED_THRESHOLD" default:"60"`
	RecommendedThreshold float64       `envconfig:"NIASOTAC_CATALOG_RECOMMENDED_THRESHOLD" default:"50"`
	ViewWeight           float64       `envconfig:"NIASOTAC_CATALOG_VIEW_WEIGHT" default:"45"`
	RecencyWeight        float64       `envconfig:"NIASOTAC_CATALOG_RECENCY_WEIGHT" default:"30"`
	StockWeight          float64       `envconfig:"NIASOTAC_CATALOG_STOCK_WEIGHT" default:"25"`
	ViewSaturation       int64         `envconfig:"NIASOTAC_CATALOG_VIEW_SATURATION" default:"500"`
	RecencyWindow        time.Duration `envconfig:"NIASOTAC_CATALOG_RECENCY_WINDOW" default:"336h"`
	CacheTTL             time.Duration `envconfig:"NIASOTAC_CATALOG_CACHE_TTL" default:"5m"`
}

type MailConfig struct {
	Backend     string `envconfig:"NIASOTAC_MAIL_BACKEND" default:"file"`
	OutputDir   string `envconfig:"NIASOTAC_MAIL_OUTPUT_DIR" default:"tmp/emails"`
	SMTPHost    string `envconfig:"NIASOTAC_SMTP_HOST"`
	SMTPPort    int    `envconfig:"NIASOTAC_SMTP_PORT" default:"587"`
	SMTPUser    string `envconfig:"NIASOTAC_SMTP_USER"`
	SMTPPass    string `envconfig:"NIASOTAC_SMTP_PASSWORD"`
	DefaultFrom string `envconfig:"NIASOTAC_MAIL_FROM" default:"contact@niasotac.com"`
	ConfirmURL     string `envconfig:"NIASOTAC_MAIL_CONFIRM_URL" default:"http://localhost:3000/newsletter/confirm"`
	UnsubscribeURL string `envconfig:"NIASOTAC_MAIL_UNSUBSCRIBE_URL" default:"http://localhost:3000/newsletter/unsubscribe"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"NIASOTAC_AUTO_MIGRATE" default:"false"`
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
