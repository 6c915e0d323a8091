// Package config loads agent configuration from an optional YAML file,
// then applies environment overrides on top. Environment always wins so
// fleet operators can tweak one agent without editing shared files.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"loothound/internal/app/decide"
	"loothound/internal/app/run"
)

const (
	SignerDirect = "direct"
	SignerBridge = "bridge"
)

type Config struct {
	RPCURL     string `yaml:"rpc_url" env:"LOOTHOUND_RPC_URL"`
	Address    string `yaml:"address" env:"LOOTHOUND_ADDRESS"`
	SignerMode string `yaml:"signer_mode" env:"LOOTHOUND_SIGNER_MODE"`
	BridgeURL  string `yaml:"bridge_url" env:"LOOTHOUND_BRIDGE_URL"`

	JournalDSN  string `yaml:"journal_dsn" env:"LOOTHOUND_JOURNAL_DSN"`
	SessionPath string `yaml:"session_path" env:"LOOTHOUND_SESSION_PATH"`
	LogDir      string `yaml:"log_dir" env:"LOOTHOUND_LOG_DIR"`
	LogLevel    string `yaml:"log_level" env:"LOOTHOUND_LOG_LEVEL"`

	AdventurerID uint64 `yaml:"adventurer_id" env:"LOOTHOUND_ADVENTURER_ID"`

	Policy decide.Policy    `yaml:"policy"`
	Runner run.Config       `yaml:"runner"`
	Pacing run.PacingConfig `yaml:"pacing"`
}

func Default() Config {
	return Config{
		SignerMode:  SignerDirect,
		JournalDSN:  "loothound.db",
		SessionPath: "session.json",
		LogLevel:    "info",
		Policy:      decide.DefaultPolicy(),
		Runner:      run.DefaultConfig(),
		Pacing:      run.DefaultPacing(),
	}
}

// Load reads the YAML file at path when it exists, then layers env vars.
// An empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc_url is required")
	}
	switch c.SignerMode {
	case SignerDirect:
	case SignerBridge:
		if c.BridgeURL == "" {
			return fmt.Errorf("bridge_url is required when signer_mode is %q", SignerBridge)
		}
	default:
		return fmt.Errorf("unknown signer_mode %q", c.SignerMode)
	}
	return nil
}
