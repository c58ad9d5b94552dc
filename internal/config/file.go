package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of a config file. Every field maps onto one
// environment variable; environment variables still take precedence.
type FileConfig struct {
	Server struct {
		Port        string `toml:"port" yaml:"port" json:"port"`
		Host        string `toml:"host" yaml:"host" json:"host"`
		Environment string `toml:"environment" yaml:"environment" json:"environment"`
		LogLevel    string `toml:"log_level" yaml:"log_level" json:"log_level"`
	} `toml:"server" yaml:"server" json:"server"`

	Database struct {
		Driver         string `toml:"driver" yaml:"driver" json:"driver"`
		Path           string `toml:"path" yaml:"path" json:"path"`
		Host           string `toml:"host" yaml:"host" json:"host"`
		Port           string `toml:"port" yaml:"port" json:"port"`
		User           string `toml:"user" yaml:"user" json:"user"`
		Password       string `toml:"password" yaml:"password" json:"password"`
		Name           string `toml:"name" yaml:"name" json:"name"`
		SSLMode        string `toml:"ssl_mode" yaml:"ssl_mode" json:"ssl_mode"`
		AutoMigrate    *bool  `toml:"auto_migrate" yaml:"auto_migrate" json:"auto_migrate"`
		MigrationsPath string `toml:"migrations_path" yaml:"migrations_path" json:"migrations_path"`
	} `toml:"database" yaml:"database" json:"database"`

	Security struct {
		BCryptCost        int `toml:"bcrypt_cost" yaml:"bcrypt_cost" json:"bcrypt_cost"`
		PasswordMinLength int `toml:"password_min_length" yaml:"password_min_length" json:"password_min_length"`
	} `toml:"security" yaml:"security" json:"security"`

	App struct {
		CurrencySymbol  string `toml:"currency_symbol" yaml:"currency_symbol" json:"currency_symbol"`
		ForecastHorizon int    `toml:"forecast_horizon" yaml:"forecast_horizon" json:"forecast_horizon"`
		AuditRetention  string `toml:"audit_retention" yaml:"audit_retention" json:"audit_retention"`
	} `toml:"app" yaml:"app" json:"app"`

	Reports struct {
		S3Bucket string `toml:"s3_bucket" yaml:"s3_bucket" json:"s3_bucket"`
		S3Region string `toml:"s3_region" yaml:"s3_region" json:"s3_region"`
		S3Prefix string `toml:"s3_prefix" yaml:"s3_prefix" json:"s3_prefix"`
	} `toml:"reports" yaml:"reports" json:"reports"`
}

// ParseConfigFile decodes a TOML, YAML or JSON file selected by extension.
func ParseConfigFile(path string) (*FileConfig, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", filepath.Ext(path))
	}

	return &fc, nil
}

func loadConfigFile(path string) (map[string]string, error) {
	fc, err := ParseConfigFile(path)
	if err != nil {
		return nil, err
	}
	return fc.envValues(), nil
}

// envValues flattens the file into environment-variable keys, skipping unset fields.
func (fc *FileConfig) envValues() map[string]string {
	values := map[string]string{}
	set := func(key, value string) {
		if value != "" {
			values[key] = value
		}
	}
	setInt := func(key string, value int) {
		if value != 0 {
			values[key] = strconv.Itoa(value)
		}
	}

	set("SERVER_PORT", fc.Server.Port)
	set("SERVER_HOST", fc.Server.Host)
	set("APP_ENV", fc.Server.Environment)
	set("LOG_LEVEL", fc.Server.LogLevel)

	set("DB_DRIVER", fc.Database.Driver)
	set("DB_PATH", fc.Database.Path)
	set("DB_HOST", fc.Database.Host)
	set("DB_PORT", fc.Database.Port)
	set("DB_USER", fc.Database.User)
	set("DB_PASSWORD", fc.Database.Password)
	set("DB_NAME", fc.Database.Name)
	set("DB_SSL_MODE", fc.Database.SSLMode)
	set("MIGRATIONS_PATH", fc.Database.MigrationsPath)
	if fc.Database.AutoMigrate != nil {
		values["AUTO_MIGRATE"] = strconv.FormatBool(*fc.Database.AutoMigrate)
	}

	setInt("BCRYPT_COST", fc.Security.BCryptCost)
	setInt("PASSWORD_MIN_LENGTH", fc.Security.PasswordMinLength)

	set("CURRENCY_SYMBOL", fc.App.CurrencySymbol)
	setInt("FORECAST_HORIZON", fc.App.ForecastHorizon)
	set("AUDIT_RETENTION", fc.App.AuditRetention)

	set("REPORTS_S3_BUCKET", fc.Reports.S3Bucket)
	set("REPORTS_S3_REGION", fc.Reports.S3Region)
	set("REPORTS_S3_PREFIX", fc.Reports.S3Prefix)

	return values
}
