package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cp "github.com/otiai10/copy"
	"github.com/pokeclicker-automation/autoseller/internal/settings"
	"gopkg.in/yaml.v3"
)

const (
	FileName     = "autoseller.yaml"
	templateDir  = "template"
	secretPrefix = "dpapi:"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalid      = errors.New("invalid configuration")
)

type Config struct {
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"logLevel"`
	LogDir   string `yaml:"logDir"`
	Bridge   struct {
		RequestTimeout time.Duration `yaml:"requestTimeout"`
	} `yaml:"bridge"`
	Server struct {
		ListenAddr string `yaml:"listenAddr"`
		OpenWindow bool   `yaml:"openWindow"`
	} `yaml:"server"`
	Storage struct {
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
	} `yaml:"storage"`
	Seller struct {
		Interval            time.Duration `yaml:"interval"`
		UnlockWatchInterval time.Duration `yaml:"unlockWatchInterval"`
	} `yaml:"seller"`
	Discord struct {
		Enabled   bool   `yaml:"enabled"`
		Token     string `yaml:"token"`
		ChannelID string `yaml:"channelId"`
	} `yaml:"discord"`
	Telegram struct {
		Enabled bool   `yaml:"enabled"`
		Token   string `yaml:"token"`
		ChatID  int64  `yaml:"chatId"`
	} `yaml:"telegram"`
}

// Bootstrap makes sure configDir holds a config file, copying the shipped
// template on first run, and returns its path.
func Bootstrap(configDir string) (string, error) {
	path := filepath.Join(configDir, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	template := filepath.Join(configDir, templateDir, FileName)
	if _, err := os.Stat(template); err != nil {
		return "", fmt.Errorf("config template not found at %s: %w", template, err)
	}

	if err := cp.Copy(template, path); err != nil {
		return "", fmt.Errorf("error copying config template: %w", err)
	}

	return path, nil
}

// Load reads, defaults, decrypts and validates the config file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	cfg := &Config{}
	if err = yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err = cfg.resolveSecrets(); err != nil {
		return nil, err
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogDir == "" {
		c.LogDir = "logs"
	}
	if c.Bridge.RequestTimeout <= 0 {
		c.Bridge.RequestTimeout = 5 * time.Second
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = "127.0.0.1:8720"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = settings.BackendFile
	}
	if c.Storage.Path == "" {
		switch c.Storage.Backend {
		case settings.BackendSQLite:
			c.Storage.Path = filepath.Join("config", "local_storage.db")
		default:
			c.Storage.Path = filepath.Join("config", "local_storage.yaml")
		}
	}
	if c.Seller.Interval <= 0 {
		c.Seller.Interval = 10 * time.Second
	}
	if c.Seller.UnlockWatchInterval <= 0 {
		c.Seller.UnlockWatchInterval = 10 * time.Second
	}
}

func (c *Config) resolveSecrets() error {
	var err error
	if c.Discord.Token, err = resolveSecret(c.Discord.Token); err != nil {
		return fmt.Errorf("discord token: %w", err)
	}
	if c.Telegram.Token, err = resolveSecret(c.Telegram.Token); err != nil {
		return fmt.Errorf("telegram token: %w", err)
	}

	return nil
}

func resolveSecret(value string) (string, error) {
	if !strings.HasPrefix(value, secretPrefix) {
		return value, nil
	}

	return decryptSecret(strings.TrimPrefix(value, secretPrefix))
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case settings.BackendMemory, settings.BackendFile, settings.BackendSQLite:
	default:
		return fmt.Errorf("%w: storage backend %q", settings.ErrUnknownBackend, c.Storage.Backend)
	}

	if c.Discord.Enabled {
		if c.Discord.Token == "" {
			return fmt.Errorf("discord: %w", ErrMissingToken)
		}
		if c.Discord.ChannelID == "" {
			return fmt.Errorf("%w: discord is enabled without a channelId", ErrInvalid)
		}
	}

	if c.Telegram.Enabled {
		if c.Telegram.Token == "" {
			return fmt.Errorf("telegram: %w", ErrMissingToken)
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("%w: telegram is enabled without a chatId", ErrInvalid)
		}
	}

	return nil
}
