// Package config loads runtime settings from a TOML file and ACS_* env vars.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	KeyTelegramToken      = "telegram.token"
	KeyStoreDriver        = "store.driver"
	KeyStorePath          = "store.path"
	KeySessionsBackend    = "sessions.backend"
	KeySessionsDir        = "sessions.dir"
	KeySessionsPassDir    = "sessions.pass_dir"
	KeyProviderBaseURL    = "provider.base_url"
	KeyProviderTimeout    = "provider.timeout"
	KeyStatusBaseURL      = "status.base_url"
	KeyStatusTimeout      = "status.timeout"
	KeyStatusRetries      = "status.retries"
	KeyStatusRate         = "status.rate_per_second"
	KeyBotConcurrency     = "bot.concurrency"
	KeyBotCommandTimeout  = "bot.command_timeout"
	KeyLogLevel           = "log.level"
	envPrefix             = "ACS"
	configDirName         = ".config/acs"
	configFileName        = "config.toml"
	configFileMode        = 0o600
	configDirMode         = 0o700
	defaultStatusEndpoint = "https://mcapi.us/server/status"
)

const (
	StoreDriverJSON   = "json"
	StoreDriverSQLite = "sqlite"

	SessionsBackendFile  = "file"
	SessionsBackendPass  = "pass"
	SessionsBackendChain = "chain"
)

type Settings struct {
	TelegramToken     string
	StoreDriver       string
	StorePath         string
	SessionsBackend   string
	SessionsDir       string
	SessionsPassDir   string
	ProviderBaseURL   string
	ProviderTimeout   time.Duration
	StatusBaseURL     string
	StatusTimeout     time.Duration
	StatusRetries     uint64
	StatusRatePerSec  float64
	BotConcurrency    int
	BotCommandTimeout time.Duration
	LogLevel          string
}

// Defaults returns the settings tree written by `acs config init`.
func Defaults(homeDir string) map[string]any {
	base := filepath.Join(homeDir, configDirName)
	return map[string]any{
		"telegram": map[string]any{"token": ""},
		// An empty path lets each driver pick its own file under ~/.config/acs.
		"store": map[string]any{
			"driver": StoreDriverJSON,
			"path":   "",
		},
		"sessions": map[string]any{
			"backend":  SessionsBackendFile,
			"dir":      filepath.Join(base, "sessions"),
			"pass_dir": "",
		},
		"provider": map[string]any{
			"base_url": "",
			"timeout":  "30s",
		},
		"status": map[string]any{
			"base_url":        defaultStatusEndpoint,
			"timeout":         "10s",
			"retries":         2,
			"rate_per_second": 2.0,
		},
		"bot": map[string]any{
			"concurrency":     8,
			"command_timeout": "60s",
		},
		"log": map[string]any{"level": "info"},
	}
}

// DefaultPath is $HOME/.config/acs/config.toml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName, configFileName), nil
}

// Load builds a viper instance from defaults, the optional TOML file at path
// and ACS_* environment overrides, in increasing precedence.
func Load(path string) (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	v := viper.New()
	setDefaults(v, "", Defaults(homeDir))

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = filepath.Join(homeDir, configDirName, configFileName)
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper, prefix string, tree map[string]any) {
	for key, value := range tree {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			setDefaults(v, fullKey, nested)
			continue
		}
		v.SetDefault(fullKey, value)
	}
}

// Decode reads and validates typed settings from v.
func Decode(v *viper.Viper) (Settings, error) {
	s := Settings{
		TelegramToken:     strings.TrimSpace(v.GetString(KeyTelegramToken)),
		StoreDriver:       strings.ToLower(strings.TrimSpace(v.GetString(KeyStoreDriver))),
		StorePath:         v.GetString(KeyStorePath),
		SessionsBackend:   strings.ToLower(strings.TrimSpace(v.GetString(KeySessionsBackend))),
		SessionsDir:       v.GetString(KeySessionsDir),
		SessionsPassDir:   v.GetString(KeySessionsPassDir),
		ProviderBaseURL:   strings.TrimSpace(v.GetString(KeyProviderBaseURL)),
		ProviderTimeout:   v.GetDuration(KeyProviderTimeout),
		StatusBaseURL:     strings.TrimSpace(v.GetString(KeyStatusBaseURL)),
		StatusTimeout:     v.GetDuration(KeyStatusTimeout),
		StatusRetries:     v.GetUint64(KeyStatusRetries),
		StatusRatePerSec:  v.GetFloat64(KeyStatusRate),
		BotConcurrency:    v.GetInt(KeyBotConcurrency),
		BotCommandTimeout: v.GetDuration(KeyBotCommandTimeout),
		LogLevel:          v.GetString(KeyLogLevel),
	}

	switch s.StoreDriver {
	case StoreDriverJSON, StoreDriverSQLite:
	default:
		return Settings{}, fmt.Errorf("unsupported %s %q (want %s or %s)", KeyStoreDriver, s.StoreDriver, StoreDriverJSON, StoreDriverSQLite)
	}

	switch s.SessionsBackend {
	case SessionsBackendFile, SessionsBackendPass, SessionsBackendChain:
	default:
		return Settings{}, fmt.Errorf("unsupported %s %q (want file, pass or chain)", KeySessionsBackend, s.SessionsBackend)
	}

	if s.BotConcurrency < 1 {
		return Settings{}, fmt.Errorf("%s must be at least 1", KeyBotConcurrency)
	}
	if s.StatusRatePerSec < 0 {
		return Settings{}, fmt.Errorf("%s must not be negative", KeyStatusRate)
	}

	return s, nil
}

// WriteDefault writes the default settings as TOML to path. An existing file
// is kept unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %q already exists", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat config file: %w", err)
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}

	data, err := toml.Marshal(Defaults(homeDir))
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), configDirMode); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, configFileMode); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
