// Package config loads the configuration of s3tui from a YAML file, a .env
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v2"
)

// ErrInvalidConfig is returned by Validate when the configuration cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	// DriverAWS selects the AWS SDK gateway.
	DriverAWS = "aws"
	// DriverMinio selects the minio-go gateway.
	DriverMinio = "minio"

	// DefaultMaxConcurrentRequests is the number of download workers.
	DefaultMaxConcurrentRequests = 5
	// DefaultPreviewMaxSize is the largest object fetched for a preview.
	DefaultPreviewMaxSize = 10 * 1024 * 1024
	// DefaultDetectConfidence is the minimum confidence (0-100) accepted from
	// encoding auto-detection.
	DefaultDetectConfidence = 50
	// DefaultHighlightTheme is the chroma style used for previews.
	DefaultHighlightTheme = "monokai"
)

// DefaultEncodings is the candidate list tried when decoding text previews.
var DefaultEncodings = []string{"utf-8", "utf-16le", "utf-16be", "shift_jis"}

// Config is the struct for the configuration
type Config struct {
	S3       S3Config       `yaml:"s3"`
	Download DownloadConfig `yaml:"download"`
	Preview  PreviewConfig  `yaml:"preview"`
	UI       UIConfig       `yaml:"ui"`
	LogLevel string         `yaml:"loglevel"`
	LogFile  string         `yaml:"logfile"`
}

// S3Config holds the connection settings of the storage gateway.
type S3Config struct {
	Driver        string `yaml:"driver"`
	Endpoint      string `yaml:"endpoint"`
	Region        string `yaml:"region"`
	SsoAwsProfile string `yaml:"profile"`
	AccessKey     string `yaml:"accesskey"`
	APIKey        string `yaml:"apikey"`
	Bucket        string `yaml:"bucket"`
	Prefix        string `yaml:"prefix"`
	PathStyle     bool   `yaml:"pathstyle"`
	Delimiter     string `yaml:"delimiter"`
}

// DownloadConfig holds the download settings.
type DownloadConfig struct {
	Dir                   string `yaml:"dir"`
	MaxConcurrentRequests int    `yaml:"max_concurrent_requests"`
}

// PreviewConfig holds the preview pipeline settings.
type PreviewConfig struct {
	Encodings          []string `yaml:"encodings"`
	AutoDetectEncoding bool     `yaml:"auto_detect_encoding"`
	DetectConfidence   int      `yaml:"detect_confidence"`
	Highlight          *bool    `yaml:"highlight"`
	HighlightTheme     string   `yaml:"highlight_theme"`
	Image              *bool    `yaml:"image"`
	ImageProtocols     []string `yaml:"image_protocols"`
	MaxSize            int64    `yaml:"max_size"`
}

// UIConfig holds the settings of the terminal UI.
type UIConfig struct {
	AutoRefresh         string        `yaml:"auto_refresh"`
	HealthCheckInterval time.Duration `yaml:"health_check_interval"`
}

// HighlightEnabled reports whether syntax highlighting is on (default true).
func (p PreviewConfig) HighlightEnabled() bool {
	return p.Highlight == nil || *p.Highlight
}

// ImageEnabled reports whether image previews are on (default true).
func (p PreviewConfig) ImageEnabled() bool {
	return p.Image == nil || *p.Image
}

// ReadYamlCnxFile reads a yaml file and returns a Config struct
func ReadYamlCnxFile(filename string) (Config, error) {
	var config Config

	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return config, fmt.Errorf("ReadYamlCnxFile: error reading %s: %w", filename, err)
	}

	err = yaml.Unmarshal(yamlFile, &config)
	if err != nil {
		return config, fmt.Errorf("ReadYamlCnxFile: error parsing %s: %w", filename, err)
	}
	return config, nil
}

// DefaultConfigFile returns ~/.s3tui/config.yaml.
func DefaultConfigFile() string {
	return filepath.Join(homeDir(), ".s3tui", "config.yaml")
}

// Load reads filename (or the default configuration file when filename is
// empty and the default file exists), loads the .env file of the working
// directory, overlays the environment and applies defaults.
func Load(filename string) (Config, error) {
	var cfg Config
	var err error

	if filename == "" {
		if _, statErr := os.Stat(DefaultConfigFile()); statErr == nil {
			filename = DefaultConfigFile()
		}
	}
	if filename != "" {
		if cfg, err = ReadYamlCnxFile(filename); err != nil {
			return cfg, err
		}
	}

	// .env is optional
	_ = godotenv.Load()
	cfg.ApplyEnv(os.Getenv)
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyEnv overlays the S3TUI_* variables on the configuration. Empty
// variables leave the configuration untouched.
func (c *Config) ApplyEnv(getenv func(string) string) {
	overlay := func(dst *string, name string) {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}
	overlay(&c.S3.Driver, "S3TUI_DRIVER")
	overlay(&c.S3.Endpoint, "S3TUI_ENDPOINT")
	overlay(&c.S3.Region, "S3TUI_REGION")
	overlay(&c.S3.SsoAwsProfile, "S3TUI_PROFILE")
	overlay(&c.S3.AccessKey, "S3TUI_ACCESS_KEY")
	overlay(&c.S3.APIKey, "S3TUI_SECRET_KEY")
	overlay(&c.S3.Bucket, "S3TUI_BUCKET")
	overlay(&c.Download.Dir, "S3TUI_DOWNLOAD_DIR")
	overlay(&c.LogLevel, "S3TUI_LOG_LEVEL")
}

// ApplyDefaults fills every unset field with its default value.
func (c *Config) ApplyDefaults() {
	if c.S3.Driver == "" {
		c.S3.Driver = DriverAWS
	}
	if c.S3.Delimiter == "" {
		c.S3.Delimiter = "/"
	}
	if c.Download.Dir == "" {
		c.Download.Dir = filepath.Join(homeDir(), ".s3tui", "download")
	}
	c.Download.Dir = expandHome(c.Download.Dir)
	if c.Download.MaxConcurrentRequests == 0 {
		c.Download.MaxConcurrentRequests = DefaultMaxConcurrentRequests
	}
	if len(c.Preview.Encodings) == 0 {
		c.Preview.Encodings = append([]string(nil), DefaultEncodings...)
	}
	if c.Preview.DetectConfidence == 0 {
		c.Preview.DetectConfidence = DefaultDetectConfidence
	}
	if c.Preview.HighlightTheme == "" {
		c.Preview.HighlightTheme = DefaultHighlightTheme
	}
	if c.Preview.MaxSize == 0 {
		c.Preview.MaxSize = DefaultPreviewMaxSize
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogFile = expandHome(c.LogFile)
}

// Validate checks the configuration after defaults have been applied.
func (c Config) Validate() error {
	var errs []error

	switch c.S3.Driver {
	case DriverAWS:
	case DriverMinio:
		if c.S3.Endpoint == "" {
			errs = append(errs, errors.New("s3.endpoint is required by the minio driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown s3.driver %q", c.S3.Driver))
	}
	if (c.S3.AccessKey == "") != (c.S3.APIKey == "") {
		errs = append(errs, errors.New("s3.accesskey and s3.apikey must be set together"))
	}
	if c.S3.Prefix != "" && c.S3.Bucket == "" {
		errs = append(errs, errors.New("s3.prefix requires s3.bucket"))
	}
	// the virtual hierarchy is built on "/" separated keys
	if d := c.S3.Delimiter; d != "" && d != "/" {
		errs = append(errs, fmt.Errorf("s3.delimiter must be \"/\", got %q", d))
	}
	if c.Download.MaxConcurrentRequests < 1 {
		errs = append(errs, fmt.Errorf("download.max_concurrent_requests must be >= 1, got %d",
			c.Download.MaxConcurrentRequests))
	}
	if c.Preview.DetectConfidence < 0 || c.Preview.DetectConfidence > 100 {
		errs = append(errs, fmt.Errorf("preview.detect_confidence must be in [0,100], got %d",
			c.Preview.DetectConfidence))
	}
	if c.UI.AutoRefresh != "" {
		if _, err := cron.ParseStandard(c.UI.AutoRefresh); err != nil {
			errs = append(errs, fmt.Errorf("ui.auto_refresh: %w", err))
		}
	}
	if c.UI.HealthCheckInterval < 0 {
		errs = append(errs, errors.New("ui.health_check_interval must not be negative"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown loglevel %q", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func expandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
