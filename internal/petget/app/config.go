package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Duration accepts Go duration syntax ("90s", "1h") or a bare number of
// milliseconds.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return nil
	}
	if v, err := time.ParseDuration(s); err == nil {
		*d = Duration(v)
		return nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*d = Duration(time.Duration(ms) * time.Millisecond)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	ReadPolicyOpen   = "open"
	ReadPolicyClosed = "closed"
)

type Config struct {
	Env                  string   `yaml:"env" env:"ENV"`              // dev, staging, prod (default: dev)
	LogLevel             string   `yaml:"logLevel" env:"LOG_LEVEL"`   // debug, info, warn, error (default: info)
	LogFormat            string   `yaml:"logFormat" env:"LOG_FORMAT"` // json, text (default: json)
	Port                 int      `yaml:"port" env:"PORT"`
	ShutdownGracePeriod  Duration `yaml:"shutdownGracePeriod" env:"SHUTDOWN_GRACE_PERIOD"`
	HousekeepingInterval Duration `yaml:"housekeepingInterval" env:"HOUSEKEEPING_INTERVAL"`

	StoreDriver  string `yaml:"storeDriver" env:"PETGET_STORE_DRIVER"` // sqlite or postgres
	DatabaseFile string `yaml:"databaseFile" env:"PETGET_DATABASE_FILE"`
	PostgresDSN  string `yaml:"postgresDsn" env:"PETGET_POSTGRES_DSN"`
	PepperFile   string `yaml:"pepperFile" env:"PETGET_PEPPER_FILE"`

	// JWTSecret wins over JWTSecretFile. When neither holds a secret one is
	// generated into JWTSecretFile.
	JWTSecret     string   `yaml:"jwtSecret" env:"JWT_SECRET"`
	JWTSecretFile string   `yaml:"jwtSecretFile" env:"JWT_SECRET_FILE"`
	JWTIssuer     string   `yaml:"jwtIssuer" env:"JWT_ISSUER"`
	AccessTTL     Duration `yaml:"accessTtl" env:"JWT_ACCESS_TTL"`
	RefreshTTL    Duration `yaml:"refreshTtl" env:"JWT_REFRESH_TTL"`

	TenantHeader     string `yaml:"tenantHeader" env:"PETGET_TENANT_HEADER"`
	TenantReadPolicy string `yaml:"tenantReadPolicy" env:"PETGET_TENANT_READ_POLICY"` // open or closed
	BootstrapToken   string `yaml:"bootstrapToken" env:"BOOTSTRAP_TOKEN"`

	TracingExporter string `yaml:"tracingExporter" env:"PETGET_TRACING_EXPORTER"` // none or stdout
}

func defaultConfig() Config {
	return Config{
		Env:                  "dev",
		LogLevel:             "info",
		LogFormat:            "json",
		Port:                 8080,
		ShutdownGracePeriod:  Duration(10 * time.Second),
		HousekeepingInterval: Duration(10 * time.Minute),
		StoreDriver:          DriverSQLite,
		DatabaseFile:         "petget.db",
		PepperFile:           "pepper",
		JWTSecretFile:        "jwt-secret",
		JWTIssuer:            "petget",
		AccessTTL:            Duration(24 * time.Hour),
		RefreshTTL:           Duration(7 * 24 * time.Hour),
		TenantHeader:         "X-Tenant-ID",
		TenantReadPolicy:     ReadPolicyOpen,
		TracingExporter:      "none",
	}
}

// LoadConfig builds the configuration from defaults, then the YAML file named
// by PETGET_CONFIG_FILE (if any), then the environment.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("PETGET_CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("databaseFile is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("postgresDsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.StoreDriver))
	}

	switch c.TenantReadPolicy {
	case ReadPolicyOpen, ReadPolicyClosed:
	default:
		errs = append(errs, fmt.Errorf("tenantReadPolicy must be %q or %q", ReadPolicyOpen, ReadPolicyClosed))
	}

	switch c.TracingExporter {
	case "none", "stdout":
	default:
		errs = append(errs, fmt.Errorf("unknown tracing exporter %q", c.TracingExporter))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if c.TenantHeader == "" {
		errs = append(errs, errors.New("tenantHeader must not be empty"))
	}

	return errors.Join(errs...)
}
