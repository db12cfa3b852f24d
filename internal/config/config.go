package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type ServerConfig struct {
	Port          string        `mapstructure:"port"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFormat     string        `mapstructure:"log_format"` // text or json
	SecureCookies bool          `mapstructure:"secure_cookies"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Path            string `mapstructure:"path"` // sqlite only
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`     // Secret
	Password        string `mapstructure:"password"` // Secret
	SSLMode         string `mapstructure:"sslmode"`
	ConnectAttempts uint   `mapstructure:"connect_attempts"`
}

type FontConfig struct {
	Devanagari string `mapstructure:"devanagari"`
}

type BackupConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	Bucket        string `mapstructure:"bucket"`
	Region        string `mapstructure:"region"`
	AccessKey     string `mapstructure:"access_key"` // Secret
	SecretKey     string `mapstructure:"secret_key"` // Secret
	Passphrase    string `mapstructure:"passphrase"` // Secret
	RetentionDays int    `mapstructure:"retention_days"`
}

// Enabled reports whether enough is configured to talk to object storage.
func (b BackupConfig) Enabled() bool {
	return b.Bucket != "" && b.AccessKey != "" && b.SecretKey != "" && b.Passphrase != ""
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Fonts    FontConfig     `mapstructure:"fonts"`
	Backup   BackupConfig   `mapstructure:"backup"`
}

// Load reads the optional .env file, the config file at filePath (if it
// exists) and the environment. Environment values win over the file.
func Load(filePath string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := newViper()
	if filePath != "" {
		v.SetConfigFile(filePath)
		if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", filePath, err)
			}
		}
	}

	return unmarshal(v)
}

// LoadEnv reads configuration from the environment and defaults only.
func LoadEnv() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	return unmarshal(newViper())
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	// bindEnvs only errors on an empty key list, which the table never has.
	_ = bindEnvs(v)
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the combinations Load cannot express through defaults.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database.path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
			return errors.New("database.host, database.name and database.user are required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Server.SessionTTL <= 0 {
		return errors.New("server.session_ttl must be positive")
	}
	if c.Backup.RetentionDays <= 0 {
		return errors.New("backup.retention_days must be positive")
	}
	return nil
}

// DSN returns the driver-specific connection string.
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverPostgres {
		parts := []string{
			"host=" + quoteDSN(d.Host),
			fmt.Sprintf("port=%d", d.Port),
			"dbname=" + quoteDSN(d.Name),
			"user=" + quoteDSN(d.User),
			"sslmode=" + quoteDSN(d.SSLMode),
		}
		if d.Password != "" {
			parts = append(parts, "password="+quoteDSN(d.Password))
		}
		return strings.Join(parts, " ")
	}

	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	if d.Path != ":memory:" {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	return "file:" + d.Path + "?" + q.Encode()
}

// quoteDSN quotes a libpq keyword value when it contains spaces or quotes.
func quoteDSN(s string) string {
	if s != "" && !strings.ContainsAny(s, ` '\`) {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}

var defaults = map[string]any{
	"server.port":               "8080",
	"server.log_level":          "info",
	"server.log_format":         "text",
	"server.secure_cookies":     false,
	"server.session_ttl":        "720h",
	"database.driver":           DriverSQLite,
	"database.path":             "nondvahi.db",
	"database.port":             5432,
	"database.sslmode":          "require",
	"database.connect_attempts": 5,
	"fonts.devanagari":          "fonts/NotoSerifDevanagari-VariableFont_wdth,wght.ttf",
	"backup.region":             "auto",
	"backup.retention_days":     30,
}

var (
	// The DB_* aliases are the secret names older deployments use.
	envBindings = map[string][]string{
		"server.port":               {"NONDVAHI_PORT", "PORT"},
		"server.log_level":          {"NONDVAHI_LOG_LEVEL", "LOG_LEVEL"},
		"server.log_format":         {"NONDVAHI_LOG_FORMAT"},
		"server.secure_cookies":     {"NONDVAHI_SECURE_COOKIES"},
		"server.session_ttl":        {"NONDVAHI_SESSION_TTL"},
		"database.driver":           {"NONDVAHI_DB_DRIVER", "DB_DRIVER"},
		"database.path":             {"NONDVAHI_DB_PATH", "DB_PATH"},
		"database.host":             {"NONDVAHI_DB_HOST", "DB_HOST"},
		"database.port":             {"NONDVAHI_DB_PORT", "DB_PORT"},
		"database.name":             {"NONDVAHI_DB_NAME", "DB_NAME"},
		"database.user":             {"NONDVAHI_DB_USER", "DB_USER"},
		"database.password":         {"NONDVAHI_DB_PASSWORD", "DB_PASSWORD"},
		"database.sslmode":          {"NONDVAHI_DB_SSLMODE", "DB_SSLMODE"},
		"database.connect_attempts": {"NONDVAHI_DB_CONNECT_ATTEMPTS"},
		"fonts.devanagari":          {"NONDVAHI_FONT_DEVANAGARI"},
		"backup.endpoint":           {"NONDVAHI_BACKUP_ENDPOINT", "S3_ENDPOINT"},
		"backup.bucket":             {"NONDVAHI_BACKUP_BUCKET", "S3_BUCKET"},
		"backup.region":             {"NONDVAHI_BACKUP_REGION", "S3_REGION"},
		"backup.access_key":         {"NONDVAHI_BACKUP_ACCESS_KEY", "S3_ACCESS_KEY"},
		"backup.secret_key":         {"NONDVAHI_BACKUP_SECRET_KEY", "S3_SECRET_KEY"},
		"backup.passphrase":         {"NONDVAHI_BACKUP_PASSPHRASE"},
		"backup.retention_days":     {"NONDVAHI_BACKUP_RETENTION_DAYS"},
	}
)

func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		inputs := slices.Insert(slices.Clone(envs), 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}
