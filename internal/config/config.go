// Package config provides YAML-based configuration for the upload service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendLocal = "local"
	BackendMinio = "minio"
)

// AppConfig represents the root configuration document.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bind_address"`
	EnableCORS   bool   `yaml:"enable_cors"`
	AllowOrigins string `yaml:"allow_origins"`
	ReadTimeout  int    `yaml:"read_timeout_seconds"`
	WriteTimeout int    `yaml:"write_timeout_seconds"`
	IdleTimeout  int    `yaml:"idle_timeout_seconds"`
}

// StorageConfig contains upload volume settings
type StorageConfig struct {
	Backend           string      `yaml:"backend"`
	VolumePath        string      `yaml:"volume_path"`
	MaxUploadSize     string      `yaml:"max_upload_size"`
	AllowedExtensions []string    `yaml:"allowed_extensions"`
	Minio             MinioConfig `yaml:"minio"`
}

// MinioConfig configures the object-storage backend.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level          string `yaml:"level"`
	Development    bool   `yaml:"development"`
	RequestLogging bool   `yaml:"request_logging"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8080,
			BindAddress:  "0.0.0.0",
			EnableCORS:   false,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 60,
			IdleTimeout:  120,
		},
		Storage: StorageConfig{
			Backend:       BackendLocal,
			VolumePath:    "./data/uploads",
			MaxUploadSize: "16M",
			AllowedExtensions: []string{
				"txt", "pdf", "png", "jpg", "jpeg", "gif", "doc", "docx",
				"xls", "xlsx", "csv", "json", "xml", "zip",
			},
			Minio: MinioConfig{
				Endpoint: "localhost:9000",
				Bucket:   "uploads",
				Region:   "us-east-1",
			},
		},
		Logging: LoggingConfig{
			Level:          "info",
			Development:    false,
			RequestLogging: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// LoadConfig loads configuration from a YAML file. A missing file is
// created with the defaults. A .env file next to the config, if any, is
// loaded before environment overrides are applied.
func LoadConfig(configPath string) (*AppConfig, error) {
	configDir := filepath.Dir(configPath)
	_ = godotenv.Load(filepath.Join(configDir, ".env"))

	config := DefaultConfig()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnvironmentOverrides()
	config.resolvePaths(configDir)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes the configuration as YAML.
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# Volume uploader configuration\n# This file is auto-generated on first run\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports the first invalid setting.
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Storage.Backend {
	case BackendLocal:
		if c.Storage.VolumePath == "" {
			return fmt.Errorf("storage.volume_path is required for the local backend")
		}
	case BackendMinio:
		if c.Storage.Minio.Endpoint == "" || c.Storage.Minio.Bucket == "" {
			return fmt.Errorf("storage.minio.endpoint and storage.minio.bucket are required")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if _, err := ParseSize(c.Storage.MaxUploadSize); err != nil {
		return fmt.Errorf("storage.max_upload_size: %w", err)
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("UPLOAD_VOLUME_PATH"); v != "" {
		c.Storage.VolumePath = v
	}
	if v := os.Getenv("UPLOAD_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("UPLOAD_MAX_SIZE"); v != "" {
		c.Storage.MaxUploadSize = v
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		c.Storage.Minio.Endpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.Storage.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Storage.Minio.SecretKey = v
	}
	if v := os.Getenv("MINIO_BUCKET"); v != "" {
		c.Storage.Minio.Bucket = v
	}
	if v := os.Getenv("MINIO_REGION"); v != "" {
		c.Storage.Minio.Region = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if c.Storage.VolumePath != "" && !filepath.IsAbs(c.Storage.VolumePath) {
		c.Storage.VolumePath = filepath.Join(configDir, c.Storage.VolumePath)
	}
}

// GetVolumePath returns the absolute upload volume path
func (c *AppConfig) GetVolumePath() string {
	return c.Storage.VolumePath
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// GetMaxUploadBytes returns the upload limit in bytes. Validate has
// already rejected unparsable values.
func (c *AppConfig) GetMaxUploadBytes() int64 {
	n, _ := ParseSize(c.Storage.MaxUploadSize)
	return n
}

// GetAllowedExtensions returns the lower-cased, de-duplicated, sorted
// extension allow-list without leading dots.
func (c *AppConfig) GetAllowedExtensions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, ext := range c.Storage.AllowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// EnsureDirectories creates the local volume directory when the local
// backend is in use.
func (c *AppConfig) EnsureDirectories() error {
	if c.Storage.Backend != BackendLocal {
		return nil
	}
	if err := os.MkdirAll(c.Storage.VolumePath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.Storage.VolumePath, err)
	}
	return nil
}

// ParseSize parses sizes such as "16M", "512K", "2G" or a plain byte count.
// The unit suffix is accepted in the form echo's BodyLimit uses.
func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}
	s = strings.TrimSuffix(s, "B")
	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "K"):
		mult = 1 << 10
	case strings.HasSuffix(s, "M"):
		mult = 1 << 20
	case strings.HasSuffix(s, "G"):
		mult = 1 << 30
	}
	if mult > 1 {
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return n * mult, nil
}
