package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pdv_desk/pkg/utils"
)

// ClientConfig holds the desktop-side configuration: where the local database lives,
// which Remote Store to talk to and where the bridge listens.
type ClientConfig struct {
	ServerURL   string        `yaml:"server_url"`
	DBPath      string        `yaml:"db_path"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	BridgeAddr  string        `yaml:"bridge_addr"`
	LogLevel    string        `yaml:"log_level"`
	Breaker     BreakerConfig `yaml:"breaker"`
}

// BreakerConfig tunes the circuit breaker in front of the Remote Store.
type BreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	SuccessThreshold int           `yaml:"success_threshold"`
	OpenTimeout      time.Duration `yaml:"open_timeout"`
}

// DefaultClient returns the built-in client defaults.
func DefaultClient() *ClientConfig {
	return &ClientConfig{
		ServerURL:   "http://localhost:3001",
		DBPath:      defaultDBPath(),
		HTTPTimeout: 5 * time.Second,
		BridgeAddr:  "127.0.0.1:3002",
		LogLevel:    "info",
		Breaker: BreakerConfig{
			FailureThreshold: 3,
			SuccessThreshold: 1,
			OpenTimeout:      30 * time.Second,
		},
	}
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "pdv.db"
	}
	return filepath.Join(dir, "PDV Desk", "pdv.db")
}

// LoadClient builds the client configuration: defaults, then the YAML file named by
// PDV_CONFIG (pdv.yaml when unset, ignored if missing), then .env, then environment.
func LoadClient() (*ClientConfig, error) {
	cfg := DefaultClient()

	path := utils.Getenv("PDV_CONFIG", "pdv.yaml")
	if err := cfg.readYAML(path); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg.ServerURL = utils.Getenv("PDV_SERVER_URL", cfg.ServerURL)
	cfg.DBPath = utils.Getenv("PDV_DB_PATH", cfg.DBPath)
	cfg.HTTPTimeout = utils.GetenvDuration("PDV_HTTP_TIMEOUT", cfg.HTTPTimeout)
	cfg.BridgeAddr = utils.Getenv("PDV_BRIDGE_ADDR", cfg.BridgeAddr)
	cfg.LogLevel = utils.Getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.Breaker.FailureThreshold = utils.GetenvInt("PDV_BREAKER_FAILURES", cfg.Breaker.FailureThreshold)
	cfg.Breaker.SuccessThreshold = utils.GetenvInt("PDV_BREAKER_SUCCESSES", cfg.Breaker.SuccessThreshold)
	cfg.Breaker.OpenTimeout = utils.GetenvDuration("PDV_BREAKER_OPEN_TIMEOUT", cfg.Breaker.OpenTimeout)

	return cfg, nil
}

func (c *ClientConfig) readYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
