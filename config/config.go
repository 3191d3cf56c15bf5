// Package config contains ownedkv tool configuration loaded from YAML file
// and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables overriding file values.
const EnvPrefix = "OWNEDKV_"

// Backend kinds.
const (
	BackendMemory  = "memory"
	BackendBoltDB  = "boltdb"
	BackendLevelDB = "leveldb"
	BackendRedis   = "redis"
	BackendChain   = "chain"
)

// Network presets with known Owned KV contract deployments.
const (
	NetworkMainNet    = "mainnet"
	NetworkTestNet    = "testnet"
	NetworkPrivateNet = "privatenet"
)

var presets = map[string]string{
	NetworkMainNet:    "a87cc2a513f5d8b4a42432343687c2127c60bc3f",
	NetworkTestNet:    "c186bcb4dc6db8e08be09191c6173456144c4b8d",
	NetworkPrivateNet: "c186bcb4dc6db8e08be09191c6173456144c4b8d",
}

// ErrInvalidConfig is returned for configuration failing validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the ownedkv tool configuration.
type Config struct {
	Backend  string   `yaml:"backend" env:"BACKEND"`
	Path     string   `yaml:"path" env:"PATH"`
	Redis    Redis    `yaml:"redis" envPrefix:"REDIS_"`
	RPC      RPC      `yaml:"rpc" envPrefix:"RPC_"`
	Wallet   Wallet   `yaml:"wallet" envPrefix:"WALLET_"`
	Contract Contract `yaml:"contract" envPrefix:"CONTRACT_"`
}

// Redis is a Redis backend section.
type Redis struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
	Prefix   string `yaml:"prefix" env:"PREFIX"`
}

// RPC is a Neo node connection section.
type RPC struct {
	Endpoint string        `yaml:"endpoint" env:"ENDPOINT"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// Wallet describes the account transactions are signed with.
type Wallet struct {
	Path     string `yaml:"path" env:"PATH"`
	Address  string `yaml:"address" env:"ADDRESS"`
	Password string `yaml:"password" env:"PASSWORD"`
}

// Contract points to the Owned KV contract either by hash or by network
// preset. Hash takes precedence.
type Contract struct {
	Hash    string `yaml:"hash" env:"HASH"`
	Network string `yaml:"network" env:"NETWORK"`
}

// DefaultPath is the database location of file backends used by default.
const DefaultPath = "ownedkv.db"

// Default returns configuration keeping records in BoltDB file at
// DefaultPath, so the records survive between tool runs.
func Default() *Config {
	return &Config{
		Backend: BackendBoltDB,
		Path:    DefaultPath,
		Redis: Redis{
			Addr:   "localhost:6379",
			Prefix: "ownedkv:",
		},
		RPC: RPC{
			Timeout: 30 * time.Second,
		},
		Contract: Contract{
			Network: NetworkMainNet,
		},
	}
}

// Load reads configuration from the YAML file (if path is not empty) on top
// of defaults, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse YAML: %v", ErrInvalidConfig, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("%w: parse env: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendBoltDB, BackendLevelDB:
		if c.Path == "" {
			return fmt.Errorf("%w: %s backend requires path", ErrInvalidConfig, c.Backend)
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis backend requires address", ErrInvalidConfig)
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("%w: negative redis database %d", ErrInvalidConfig, c.Redis.DB)
		}
	case BackendChain:
		if c.RPC.Endpoint == "" {
			return fmt.Errorf("%w: chain backend requires RPC endpoint", ErrInvalidConfig)
		}
		if c.Wallet.Path == "" {
			return fmt.Errorf("%w: chain backend requires wallet", ErrInvalidConfig)
		}
		if _, err := c.Contract.ScriptHash(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}

	if c.RPC.Timeout < 0 {
		return fmt.Errorf("%w: negative RPC timeout", ErrInvalidConfig)
	}

	return nil
}

// ScriptHash returns contract hash set explicitly or by network preset.
func (c Contract) ScriptHash() (util.Uint160, error) {
	s := c.Hash
	if s == "" {
		var ok bool
		s, ok = presets[c.Network]
		if !ok {
			return util.Uint160{}, fmt.Errorf("%w: unknown network %q", ErrInvalidConfig, c.Network)
		}
	}

	h, err := util.Uint160DecodeStringLE(trimHexPrefix(s))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("%w: contract hash: %v", ErrInvalidConfig, err)
	}

	return h, nil
}

func trimHexPrefix(s string) string {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
