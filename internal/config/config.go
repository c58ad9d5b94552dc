package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// ConfigFileEnv names an optional TOML/YAML/JSON file whose values act as defaults.
	ConfigFileEnv = "SMARTSPEND_CONFIG"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Security SecurityConfig
	Session  SessionConfig
	App      AppConfig
	Reports  ReportsConfig
}

type ServerConfig struct {
	Port             string
	Host             string
	Environment      string
	LogLevel         string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	ShutdownTimeout  time.Duration
	CORSAllowOrigins []string
}

type DatabaseConfig struct {
	Driver          string
	Path            string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
	MigrationsPath  string
}

type JWTConfig struct {
	AccessTokenDuration time.Duration
	PrivateKey          *rsa.PrivateKey
	PublicKey           *rsa.PublicKey
	Issuer              string
}

type SecurityConfig struct {
	BCryptCost         int
	RateLimitPerSecond int
	RateLimitBurst     int
	PasswordMinLength  int
}

type SessionConfig struct {
	CookieName string
	Secure     bool
}

type AppConfig struct {
	CurrencySymbol  string
	ForecastHorizon int
	ChartWidth      int
	ChartHeight     int
	// AuditRetention is how long audit entries are kept. Zero keeps them forever.
	AuditRetention time.Duration
}

type ReportsConfig struct {
	S3Bucket string
	S3Region string
	S3Prefix string
}

// Load reads configuration from the process environment, a local .env file and,
// when SMARTSPEND_CONFIG is set, a config file.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(ConfigFileEnv))
}

// LoadFile is Load with an explicit config file path. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	src := source{}
	if path != "" {
		fileValues, err := loadConfigFile(path)
		if err != nil {
			return nil, err
		}
		src.file = fileValues
	}

	config := &Config{
		Server: ServerConfig{
			Port:            src.getEnv("SERVER_PORT", "8501"),
			Host:            src.getEnv("SERVER_HOST", "localhost"),
			Environment:     src.getEnv("APP_ENV", "development"),
			LogLevel:        src.getEnv("LOG_LEVEL", "info"),
			ReadTimeout:     src.getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    src.getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: src.getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(src.getEnv("DB_DRIVER", DriverSQLite)),
			Path:            src.getEnv("DB_PATH", "smartspend.db"),
			Host:            src.getEnv("DB_HOST", "localhost"),
			Port:            src.getEnv("DB_PORT", "5432"),
			User:            src.getEnv("DB_USER", "smartspend"),
			Password:        src.getEnv("DB_PASSWORD", "smartspend"),
			Name:            src.getEnv("DB_NAME", "smartspend"),
			SSLMode:         src.getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  src.getIntEnv("DB_MAX_CONNECTIONS", 10),
			MaxIdleConns:    src.getIntEnv("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: src.getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			AutoMigrate:     src.getBoolEnv("AUTO_MIGRATE", true),
			MigrationsPath:  src.getEnv("MIGRATIONS_PATH", "db/migrations"),
		},
		Security: SecurityConfig{
			BCryptCost:         src.getIntEnv("BCRYPT_COST", 12),
			RateLimitPerSecond: src.getIntEnv("RATE_LIMIT_PER_SECOND", 10),
			RateLimitBurst:     src.getIntEnv("RATE_LIMIT_BURST", 20),
			PasswordMinLength:  src.getIntEnv("PASSWORD_MIN_LENGTH", 6),
		},
		JWT: JWTConfig{
			AccessTokenDuration: src.getDurationEnv("JWT_ACCESS_TOKEN_DURATION", 12*time.Hour),
			Issuer:              src.getEnv("JWT_ISSUER", "smartspend"),
		},
		Session: SessionConfig{
			CookieName: src.getEnv("SESSION_COOKIE_NAME", "smartspend_session"),
			Secure:     src.getBoolEnv("SESSION_COOKIE_SECURE", false),
		},
		App: AppConfig{
			CurrencySymbol:  src.getEnv("CURRENCY_SYMBOL", "₹"),
			ForecastHorizon: src.getIntEnv("FORECAST_HORIZON", 3),
			ChartWidth:      src.getIntEnv("CHART_WIDTH", 640),
			ChartHeight:     src.getIntEnv("CHART_HEIGHT", 360),
			AuditRetention:  src.getDurationEnv("AUDIT_RETENTION", 90*24*time.Hour),
		},
		Reports: ReportsConfig{
			S3Bucket: src.getEnv("REPORTS_S3_BUCKET", ""),
			S3Region: src.getEnv("REPORTS_S3_REGION", "us-east-1"),
			S3Prefix: src.getEnv("REPORTS_S3_PREFIX", "reports"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	config.Server.CORSAllowOrigins = config.loadCORSAllowOrigins(src)

	var err error
	config.JWT.PrivateKey, config.JWT.PublicKey, err = config.loadJWTKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to load RSA keys: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", c.Database.Driver, DriverSQLite, DriverPostgres)
	}

	if c.Security.PasswordMinLength < 1 {
		return errors.New("PASSWORD_MIN_LENGTH must be positive")
	}

	if c.App.ForecastHorizon < 1 || c.App.ForecastHorizon > 12 {
		return errors.New("FORECAST_HORIZON must be between 1 and 12")
	}

	if c.App.AuditRetention < 0 {
		return errors.New("AUDIT_RETENTION must not be negative")
	}

	return nil
}

// DSN returns the connection string for the configured driver. SQLite enables
// foreign keys through the DSN so every pooled connection enforces them.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return SQLiteDSN(c.Path)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// SQLiteDSN appends the foreign key pragma to a SQLite path.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// URL returns the postgres connection string in URL form, as lib/pq and golang-migrate accept it.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsTesting() bool {
	return c.Server.Environment == "testing"
}

// Address is the listen address for the HTTP server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + c.Server.Port
}

// source resolves a key from the environment first, then from the config file.
type source struct {
	file map[string]string
}

func (s source) lookup(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return s.file[key]
}

func (s source) getEnv(key, defaultValue string) string {
	if value := s.lookup(key); value != "" {
		return value
	}
	return defaultValue
}

func (s source) getIntEnv(key string, defaultValue int) int {
	if value := s.lookup(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func (s source) getBoolEnv(key string, defaultValue bool) bool {
	if value := s.lookup(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func (s source) getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := s.lookup(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// loadJWTKeys loads RSA keys for JWT signing and verification.
// Explicit JWT_PRIVATE_KEY/JWT_PUBLIC_KEY win in every environment; production refuses to run
// without them; other environments generate a throwaway keypair.
func (c *Config) loadJWTKeys() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKeyB64 := os.Getenv("JWT_PRIVATE_KEY")
	publicKeyB64 := os.Getenv("JWT_PUBLIC_KEY")

	if privateKeyB64 != "" && publicKeyB64 != "" {
		slog.Debug("loading RSA keypair from environment variables")
		return loadKeysFromEnvVars(privateKeyB64, publicKeyB64)
	}

	if c.IsProduction() {
		return nil, nil, errors.New("JWT_PRIVATE_KEY and JWT_PUBLIC_KEY environment variables must be set in production environments")
	}

	slog.Info("generating ephemeral RSA keypair for session tokens; sessions will not survive a restart")
	return GenerateRSAKeyPair()
}

func loadKeysFromEnvVars(privateKeyB64, publicKeyB64 string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKeyBytes, err := base64.StdEncoding.DecodeString(privateKeyB64)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT_PRIVATE_KEY: %w", err)
	}

	publicKeyBytes, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT_PUBLIC_KEY: %w", err)
	}

	privateKey, err := loadRSAPrivateKey(privateKeyBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	publicKey, err := loadRSAPublicKey(publicKeyBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	return privateKey, publicKey, nil
}

func (c *Config) loadCORSAllowOrigins(src source) []string {
	corsOrigins := src.lookup("CORS_ALLOW_ORIGINS")
	if corsOrigins == "" {
		if c.IsProduction() {
			slog.Warn("CORS_ALLOW_ORIGINS not set in production, defaulting to '*'")
		}
		return []string{"*"}
	}

	origins := strings.Split(corsOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}

	return origins
}

// GenerateRSAKeyPair generates a new RSA key pair
func GenerateRSAKeyPair() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}

	return privateKey, &privateKey.PublicKey, nil
}

func loadRSAPrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the key")
	}

	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}

		privateKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("not an RSA private key")
		}

		return privateKey, nil
	}

	return privateKey, nil
}

func loadRSAPublicKey(pemData []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the key")
	}

	publicKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	rsaPublicKey, ok := publicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an RSA public key")
	}

	return rsaPublicKey, nil
}
