// Package config loads the docker-local-proxy configuration.
// A Config is built once per invocation and handed to every component.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/go-connections/nat"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bnema/docker-local-proxy/internal/domain"
	"github.com/bnema/docker-local-proxy/internal/logging"
)

// Default values shared by the CLI and the config file.
const (
	DefaultFilterName     = "internal-proxy"
	DefaultNetworkName    = "docker-local-proxy"
	DefaultComposeProject = "docker-local-proxy"
	DefaultHostsPath      = "/etc/hosts"
	DefaultStartMarker    = "### START GENERATED BY docker-local-proxy ###"
	DefaultEndMarker      = "### END docker-local-proxy ###"
	DefaultManifestFile   = "docker-compose.yml"
	DefaultManifestKey    = "nginx-proxy"
	DefaultGeneratedDir   = "generated"
	DefaultHTTPConfigFile = "http_proxies.conf"
	DefaultTCPConfigFile  = "tcp_proxies.conf"

	envPrefix  = "DLP"
	configName = "docker-local-proxy"
)

// Config holds the application configuration.
type Config struct {
	Ports struct {
		HTTP []int `mapstructure:"http"`
		TCP  []int `mapstructure:"tcp"`
	} `mapstructure:"ports"`

	Discovery struct {
		FilterName              string `mapstructure:"filter_name"`
		Separator               string `mapstructure:"separator"`
		HostnameLabel           string `mapstructure:"hostname_label"`
		HostnameSuffix          string `mapstructure:"hostname_suffix"`
		AllowDuplicateHostnames bool   `mapstructure:"allow_duplicate_hostnames"`
	} `mapstructure:"discovery"`

	Project struct {
		Dir            string `mapstructure:"dir"`
		GeneratedDir   string `mapstructure:"generated_dir"`
		HTTPConfigFile string `mapstructure:"http_config_file"`
		TCPConfigFile  string `mapstructure:"tcp_config_file"`
	} `mapstructure:"project"`

	Network struct {
		Name string `mapstructure:"name"`
	} `mapstructure:"network"`

	Hosts struct {
		Path        string `mapstructure:"path"`
		StartMarker string `mapstructure:"start_marker"`
		EndMarker   string `mapstructure:"end_marker"`
	} `mapstructure:"hosts"`

	Manifest struct {
		Path    string `mapstructure:"path"`
		Service string `mapstructure:"service"`
	} `mapstructure:"manifest"`

	Compose struct {
		Project string `mapstructure:"project"`
		Binary  string `mapstructure:"binary"`
	} `mapstructure:"compose"`

	Mode struct {
		NetworkOnly bool `mapstructure:"network_only"`
		HostsOnly   bool `mapstructure:"hosts_only"`
		DryRun      bool `mapstructure:"dry_run"`
	} `mapstructure:"mode"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		File   struct {
			Enabled    bool   `mapstructure:"enabled"`
			Path       string `mapstructure:"path"`
			MaxSize    int    `mapstructure:"max_size"`
			MaxBackups int    `mapstructure:"max_backups"`
			MaxAge     int    `mapstructure:"max_age"`
		} `mapstructure:"file"`
	} `mapstructure:"logging"`
}

// SetDefaults registers every known key so environment overrides apply.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ports.http", []int{80})
	v.SetDefault("ports.tcp", []int{5432})

	v.SetDefault("discovery.filter_name", DefaultFilterName)
	v.SetDefault("discovery.separator", "-")
	v.SetDefault("discovery.hostname_label", domain.LabelHostname)
	v.SetDefault("discovery.hostname_suffix", "localhost")
	v.SetDefault("discovery.allow_duplicate_hostnames", false)

	v.SetDefault("project.dir", ".")
	v.SetDefault("project.generated_dir", DefaultGeneratedDir)
	v.SetDefault("project.http_config_file", DefaultHTTPConfigFile)
	v.SetDefault("project.tcp_config_file", DefaultTCPConfigFile)

	v.SetDefault("network.name", DefaultNetworkName)

	v.SetDefault("hosts.path", DefaultHostsPath)
	v.SetDefault("hosts.start_marker", DefaultStartMarker)
	v.SetDefault("hosts.end_marker", DefaultEndMarker)

	v.SetDefault("manifest.path", DefaultManifestFile)
	v.SetDefault("manifest.service", DefaultManifestKey)

	v.SetDefault("compose.project", DefaultComposeProject)
	v.SetDefault("compose.binary", "docker")

	v.SetDefault("mode.network_only", false)
	v.SetDefault("mode.hosts_only", false)
	v.SetDefault("mode.dry_run", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.enabled", false)
	v.SetDefault("logging.file.path", "")
	v.SetDefault("logging.file.max_size", 10)
	v.SetDefault("logging.file.max_backups", 3)
	v.SetDefault("logging.file.max_age", 28)
}

// Load reads defaults, the optional config file, the project .env file and
// DLP_* environment variables into v, then decodes and validates the result.
// Flags must be bound to v before calling Load.
func Load(v *viper.Viper, configPath string) (Config, error) {
	SetDefaults(v)

	projectDir := v.GetString("project.dir")
	if err := loadDotEnv(projectDir); err != nil {
		return Config{}, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("toml")
		v.AddConfigPath(projectDir)
		if userConfigDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(userConfigDir, configName))
		}
		v.AddConfigPath("/etc/" + configName)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg, err := Decode(v)
	if err != nil {
		return Config{}, err
	}
	if abs, err := filepath.Abs(cfg.Project.Dir); err == nil {
		cfg.Project.Dir = abs
	}
	return cfg, nil
}

// Decode unmarshals v into a Config and validates it.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotEnv(projectDir string) error {
	err := godotenv.Load(filepath.Join(projectDir, ".env"))
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load .env: %w", err)
}

// Validate checks the values no component can recover from.
func (c Config) Validate() error {
	if len(c.Ports.HTTP) == 0 && len(c.Ports.TCP) == 0 {
		return fmt.Errorf("%w: at least one http or tcp port is required", domain.ErrInvalidConfig)
	}
	for _, p := range c.Ports.HTTP {
		if !validPort(p) {
			return fmt.Errorf("%w: http port %d must be between 1 and 65535", domain.ErrInvalidConfig, p)
		}
	}
	for _, p := range c.Ports.TCP {
		if !validPort(p) {
			return fmt.Errorf("%w: tcp port %d must be between 1 and 65535", domain.ErrInvalidConfig, p)
		}
	}
	if c.Discovery.FilterName == "" {
		return fmt.Errorf("%w: discovery.filter_name must not be empty", domain.ErrInvalidConfig)
	}
	if c.Hosts.StartMarker == "" || c.Hosts.EndMarker == "" || c.Hosts.StartMarker == c.Hosts.EndMarker {
		return fmt.Errorf("%w: hosts markers must be non-empty and distinct", domain.ErrInvalidConfig)
	}
	if c.Mode.NetworkOnly && c.Mode.HostsOnly {
		return fmt.Errorf("%w: networkOnly and hostsOnly are mutually exclusive", domain.ErrInvalidConfig)
	}
	return nil
}

func validPort(p int) bool {
	return p >= 1 && p <= 65535
}

// PortPolicy returns the configured ports in their given order.
func (c Config) PortPolicy() domain.PortPolicy {
	return domain.PortPolicy{
		HTTPPorts:    append([]int(nil), c.Ports.HTTP...),
		TCPBasePorts: append([]int(nil), c.Ports.TCP...),
	}
}

// ProjectPath resolves p against the project directory unless it is absolute.
func (c Config) ProjectPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Project.Dir, p)
}

// GeneratedDir is the directory holding the rendered proxy configs.
func (c Config) GeneratedDir() string {
	return c.ProjectPath(c.Project.GeneratedDir)
}

// HTTPConfigPath is the rendered HTTP virtual host config.
func (c Config) HTTPConfigPath() string {
	return filepath.Join(c.GeneratedDir(), c.Project.HTTPConfigFile)
}

// TCPConfigPath is the rendered TCP stream config.
func (c Config) TCPConfigPath() string {
	return filepath.Join(c.GeneratedDir(), c.Project.TCPConfigFile)
}

// ManifestPath is the compose file the proxy is started from.
func (c Config) ManifestPath() string {
	return c.ProjectPath(c.Manifest.Path)
}

// LogConfig converts the logging section for the logging package.
func (c Config) LogConfig() logging.Config {
	return logging.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		File: logging.FileConfig{
			Enabled:    c.Logging.File.Enabled,
			Path:       c.Logging.File.Path,
			MaxSize:    c.Logging.File.MaxSize,
			MaxBackups: c.Logging.File.MaxBackups,
			MaxAge:     c.Logging.File.MaxAge,
			Compress:   true,
		},
	}
}

// ParsePortList parses a comma-separated port list such as "80,443".
// Empty items are ignored.
func ParsePortList(raw string) ([]int, error) {
	var ports []int
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		port, err := nat.ParsePort(item)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid port %q", domain.ErrInvalidConfig, item)
		}
		if !validPort(port) {
			return nil, fmt.Errorf("%w: port %d must be between 1 and 65535", domain.ErrInvalidConfig, port)
		}
		ports = append(ports, port)
	}
	return ports, nil
}
