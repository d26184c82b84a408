package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"beatme-server/internal/util"
	"beatme-server/pkg/table"
)

// Config provides configuration for the BeatMe server
type Config struct {
	loaded bool
	Addr   string `yaml:"addr" envconfig:"addr"`
	Table  struct {
		Seats      int `yaml:"seats" envconfig:"seats"`
		BuyIn      int `yaml:"buyIn" envconfig:"buy_in"`
		SmallBlind int `yaml:"smallBlind" envconfig:"small_blind"`
		BigBlind   int `yaml:"bigBlind" envconfig:"big_blind"`
		// NextHandDelay is in milliseconds
		NextHandDelay int `yaml:"nextHandDelay" envconfig:"next_hand_delay"`
	} `yaml:"table"`
	JWT struct {
		Secret string `yaml:"secret" envconfig:"secret"`
	} `yaml:"jwt"`
	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
}

var config Config

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	opts := table.DefaultOptions()

	var cfg Config
	cfg.Addr = ":5000"
	cfg.Table.Seats = opts.Seats
	cfg.Table.BuyIn = opts.BuyIn
	cfg.Table.SmallBlind = opts.SmallBlind
	cfg.Table.BigBlind = opts.BigBlind
	cfg.Table.NextHandDelay = int(opts.NextHandDelay / time.Millisecond)
	cfg.Log.Level = "info"

	return cfg
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// The config file is optional, environment variables take precedence over it.
func Load() error {
	cfg, err := load(util.Getenv("BEATME_CONFIG_FILE", "config.yaml"))
	if err != nil {
		return err
	}

	config = cfg
	config.loaded = true
	return nil
}

func load(configFile string) (Config, error) {
	cfg := DefaultConfig()

	file, err := os.Open(configFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	if file != nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("could not decode %s: %w", configFile, err)
		}
	}

	if err := envconfig.Process("beatme", &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// TableOptions returns the validated table options
func (c Config) TableOptions() (table.Options, error) {
	opts := table.Options{
		Seats:         c.Table.Seats,
		BuyIn:         c.Table.BuyIn,
		SmallBlind:    c.Table.SmallBlind,
		BigBlind:      c.Table.BigBlind,
		NextHandDelay: time.Duration(c.Table.NextHandDelay) * time.Millisecond,
	}

	if err := opts.Validate(); err != nil {
		return table.Options{}, err
	}

	return opts, nil
}
