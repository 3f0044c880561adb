package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. EXAMIZ_API_URL.
const EnvPrefix = "EXAMIZ"

// Config holds all examiz configuration.
type Config struct {
	// APIURL is the backend /api root the client talks to.
	APIURL string `mapstructure:"api_url"`

	// Timeout bounds each backend request.
	Timeout time.Duration `mapstructure:"timeout"`

	// StudentName pre-fills the name prompt.
	StudentName string `mapstructure:"student_name"`

	// LogFile receives the client's structured log. Empty discards it.
	LogFile string `mapstructure:"log_file"`

	AI    AIConfig    `mapstructure:"ai"`
	Proxy ProxyConfig `mapstructure:"proxy"`
}

// AIConfig controls the AI-usage hint checks.
type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Delay    time.Duration `mapstructure:"delay"`
	MinChars int           `mapstructure:"min_chars"`
}

// ProxyConfig configures `examiz proxy`.
type ProxyConfig struct {
	Addr       string        `mapstructure:"addr"`
	BackendURL string        `mapstructure:"backend_url"`
	Mode       string        `mapstructure:"mode"` // gin mode: debug, release, test
	Timeout    time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		APIURL:  "http://localhost:8000/api",
		Timeout: 30 * time.Second,
		AI: AIConfig{
			Enabled:  true,
			Delay:    1500 * time.Millisecond,
			MinChars: 30,
		},
		Proxy: ProxyConfig{
			Addr:    ":8888",
			Mode:    "release",
			Timeout: 30 * time.Second,
		},
	}
}

// Load builds a Config from defaults, an optional YAML file, a .env file in
// the working directory and EXAMIZ_* environment variables, in increasing
// priority. An empty path searches ./examiz.yaml and the user config dir.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("examiz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "examiz"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// BACKEND_URL is the variable existing proxy deployments already set.
	if err := v.BindEnv("proxy.backend_url", EnvPrefix+"_PROXY_BACKEND_URL", "BACKEND_URL"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("api_url", d.APIURL)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("student_name", d.StudentName)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("ai.enabled", d.AI.Enabled)
	v.SetDefault("ai.delay", d.AI.Delay)
	v.SetDefault("ai.min_chars", d.AI.MinChars)
	v.SetDefault("proxy.addr", d.Proxy.Addr)
	v.SetDefault("proxy.backend_url", d.Proxy.BackendURL)
	v.SetDefault("proxy.mode", d.Proxy.Mode)
	v.SetDefault("proxy.timeout", d.Proxy.Timeout)
}

// Validate rejects values the client or proxy cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return errors.New("api_url must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.AI.Delay < 0 {
		return fmt.Errorf("ai.delay must not be negative, got %s", c.AI.Delay)
	}
	if c.AI.MinChars < 0 {
		return fmt.Errorf("ai.min_chars must not be negative, got %d", c.AI.MinChars)
	}
	switch c.Proxy.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("proxy.mode must be debug, release or test, got %q", c.Proxy.Mode)
	}
	return nil
}

// yamlView is the printable form of Config, with durations as strings.
type yamlView struct {
	APIURL      string `yaml:"api_url"`
	Timeout     string `yaml:"timeout"`
	StudentName string `yaml:"student_name"`
	LogFile     string `yaml:"log_file"`
	AI          struct {
		Enabled  bool   `yaml:"enabled"`
		Delay    string `yaml:"delay"`
		MinChars int    `yaml:"min_chars"`
	} `yaml:"ai"`
	Proxy struct {
		Addr       string `yaml:"addr"`
		BackendURL string `yaml:"backend_url"`
		Mode       string `yaml:"mode"`
		Timeout    string `yaml:"timeout"`
	} `yaml:"proxy"`
}

// YAML renders the effective configuration in the config file format.
func (c *Config) YAML() ([]byte, error) {
	var y yamlView
	y.APIURL = c.APIURL
	y.Timeout = c.Timeout.String()
	y.StudentName = c.StudentName
	y.LogFile = c.LogFile
	y.AI.Enabled = c.AI.Enabled
	y.AI.Delay = c.AI.Delay.String()
	y.AI.MinChars = c.AI.MinChars
	y.Proxy.Addr = c.Proxy.Addr
	y.Proxy.BackendURL = c.Proxy.BackendURL
	y.Proxy.Mode = c.Proxy.Mode
	y.Proxy.Timeout = c.Proxy.Timeout.String()
	return yaml.Marshal(&y)
}
