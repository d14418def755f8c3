package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIBase          = "https://map.wpamesh.net/api"
	DefaultDirectoryURL     = "https://wpamesh.net/wp-json/wpamesh/v1/nodes"
	DefaultDaysActive       = 3
	DefaultPageSize         = 100
	DefaultTelemetryPort    = 67
	DefaultTimeout          = 10 * time.Second
	DefaultDirectoryFetcher = FetcherHTTP
	DefaultLogLevel         = "info"

	FetcherHTTP = "http"
	FetcherCurl = "curl"

	// EnvPrefix namespaces environment overrides, e.g. MESHSTAT_API_BASE.
	EnvPrefix = "MESHSTAT"
)

var (
	DefaultRouterRoles = []string{"ROUTER", "ROUTER_LATE", "REPEATER"}
	DefaultExportTiers = []string{"core_router", "supplemental"}
)

// Config holds every tunable of the report and export commands.
type Config struct {
	APIBase          string        `yaml:"api_base" mapstructure:"api_base"`
	DirectoryURL     string        `yaml:"directory_url" mapstructure:"directory_url"`
	DaysActive       int           `yaml:"days_active" mapstructure:"days_active"`
	RouterRoles      []string      `yaml:"router_roles" mapstructure:"router_roles"`
	PageSize         int           `yaml:"page_size" mapstructure:"page_size"`
	TelemetryPort    int           `yaml:"telemetry_port" mapstructure:"telemetry_port"`
	Timeout          time.Duration `yaml:"timeout" mapstructure:"timeout"`
	ExportTiers      []string      `yaml:"export_tiers" mapstructure:"export_tiers"`
	DirectoryFetcher string        `yaml:"directory_fetcher" mapstructure:"directory_fetcher"`
	LogLevel         string        `yaml:"log_level" mapstructure:"log_level"`
}

// keys lists every config key so env variables are picked up even when the
// key is absent from the file.
var keys = []string{
	"api_base",
	"directory_url",
	"days_active",
	"router_roles",
	"page_size",
	"telemetry_port",
	"timeout",
	"export_tiers",
	"directory_fetcher",
	"log_level",
}

var decodeHooks = mapstructure.ComposeDecodeHookFunc(
	decodeStringList,
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.StringToSliceHookFunc(","),
)

// decodeStringList trims entries and drops empties from list values.
func decodeStringList(src reflect.Type, dst reflect.Type, data interface{}) (interface{}, error) {
	if dst != reflect.TypeOf([]string{}) || src.Kind() != reflect.String {
		return data, nil
	}
	return splitList(data.(string)), nil
}

// Load builds the configuration from, in increasing precedence: defaults,
// the YAML file at path (optional), MESHSTAT_* environment variables and
// flags that were set on the command line. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	if flags != nil {
		for flagName, key := range flagKeys {
			if f := flags.Lookup(flagName); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHooks)); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}

	ApplyDefaults(&cfg)
	return cfg, nil
}

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"api":            "api_base",
	"directory-url":  "directory_url",
	"days":           "days_active",
	"roles":          "router_roles",
	"page-size":      "page_size",
	"telemetry-port": "telemetry_port",
	"timeout":        "timeout",
	"tiers":          "export_tiers",
	"fetcher":        "directory_fetcher",
	"log-level":      "log_level",
}

// Save writes a YAML config file to disk.
func Save(path string, cfg Config) error {
	ApplyDefaults(&cfg)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate reports every invalid field at once.
func Validate(cfg Config) error {
	var result *multierror.Error
	if cfg.APIBase == "" {
		result = multierror.Append(result, errors.New("api_base is required"))
	}
	if cfg.DaysActive <= 0 {
		result = multierror.Append(result, errors.Errorf("days_active must be positive, got %d", cfg.DaysActive))
	}
	if cfg.PageSize <= 0 {
		result = multierror.Append(result, errors.Errorf("page_size must be positive, got %d", cfg.PageSize))
	}
	if cfg.TelemetryPort < 0 {
		result = multierror.Append(result, errors.Errorf("telemetry_port must not be negative, got %d", cfg.TelemetryPort))
	}
	if len(cfg.RouterRoles) == 0 {
		result = multierror.Append(result, errors.New("router_roles must not be empty"))
	}
	if cfg.Timeout <= 0 {
		result = multierror.Append(result, errors.Errorf("timeout must be positive, got %s", cfg.Timeout))
	}
	if cfg.DirectoryFetcher != FetcherHTTP && cfg.DirectoryFetcher != FetcherCurl {
		result = multierror.Append(result, errors.Errorf("directory_fetcher must be %q or %q, got %q", FetcherHTTP, FetcherCurl, cfg.DirectoryFetcher))
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// ApplyDefaults fills in default values when empty.
func ApplyDefaults(cfg *Config) {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	cfg.APIBase = strings.TrimRight(cfg.APIBase, "/")
	if cfg.DirectoryURL == "" {
		cfg.DirectoryURL = DefaultDirectoryURL
	}
	if cfg.DaysActive == 0 {
		cfg.DaysActive = DefaultDaysActive
	}
	if len(cfg.RouterRoles) == 0 {
		cfg.RouterRoles = append([]string(nil), DefaultRouterRoles...)
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.TelemetryPort == 0 {
		cfg.TelemetryPort = DefaultTelemetryPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if len(cfg.ExportTiers) == 0 {
		cfg.ExportTiers = append([]string(nil), DefaultExportTiers...)
	}
	if cfg.DirectoryFetcher == "" {
		cfg.DirectoryFetcher = DefaultDirectoryFetcher
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
