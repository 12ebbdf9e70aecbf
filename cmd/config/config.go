package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every variable that overrides the config
const EnvPrefix = "HOOPS_"

// Config describes the sandbox network and the services run on it
type Config struct {
	Ledger  LedgerConfig   `toml:"ledger" yaml:"ledger"`
	Admin   string         `toml:"admin" yaml:"admin"`
	Holders []string       `toml:"holders" yaml:"holders"`
	Usdc    string         `toml:"usdc" yaml:"usdc"`
	Tokens  []*TokenConfig `toml:"tokens" yaml:"tokens"`
	Pools   []*PoolConfig  `toml:"pools" yaml:"pools"`
	API     APIConfig      `toml:"api" yaml:"api"`
	Log     LogConfig      `toml:"log" yaml:"log"`
}

type LedgerConfig struct {
	Timestamp uint64 `toml:"timestamp" yaml:"timestamp"`
	Sequence  uint32 `toml:"sequence" yaml:"sequence"`
}

type TokenConfig struct {
	Symbol string `toml:"symbol" yaml:"symbol"`
	Supply uint64 `toml:"supply" yaml:"supply"`
}

type PoolConfig struct {
	Kind     string `toml:"kind" yaml:"kind"`
	TokenA   string `toml:"token_a" yaml:"token_a"`
	TokenB   string `toml:"token_b" yaml:"token_b"`
	ReserveA uint64 `toml:"reserve_a" yaml:"reserve_a"`
	ReserveB uint64 `toml:"reserve_b" yaml:"reserve_b"`
}

type APIConfig struct {
	Bind         string `toml:"bind" yaml:"bind"`
	Port         int    `toml:"port" yaml:"port"`
	CacheSize    int    `toml:"cache_size" yaml:"cache_size"`
	CacheSeconds int    `toml:"cache_seconds" yaml:"cache_seconds"`
}

type LogConfig struct {
	Level       string `toml:"level" yaml:"level"`
	Development bool   `toml:"development" yaml:"development"`
}

// Default returns the values a loaded file starts from
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			Timestamp: 1700000000,
			Sequence:  1,
		},
		Admin: "0x00000000000000000000000000000000000000ad",
		API: APIConfig{
			Bind:         "0.0.0.0",
			Port:         48000,
			CacheSize:    512,
			CacheSeconds: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// BindAddress returns host:port of the api server
func (c *Config) BindAddress() string {
	return c.API.Bind + ":" + strconv.Itoa(c.API.Port)
}

// Load reads the file over the defaults and applies the .env files and the environment
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := LoadEnvFiles(cfg, envFiles...); err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile parse the config from the file of the path, .yaml and .yml files are read as yaml
func LoadFile(path string, v interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(file, v)
	default:
		return LoadReader(file, v)
	}
}

// LoadString parse the config from the string
func LoadString(data string, v interface{}) error {
	return LoadReader(bytes.NewReader([]byte(data)), v)
}

// LoadReader parse the config from the file of the reader
func LoadReader(r io.Reader, v interface{}) error {
	dec := toml.NewDecoder(r)
	if _, err := dec.Decode(v); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// LoadYAML parse the yaml config from the reader
func LoadYAML(r io.Reader, v interface{}) error {
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return errors.WithStack(err)
	}
	return nil
}

// LoadEnvFiles applies the HOOPS_ variables of the dotenv files, missing files are skipped
func LoadEnvFiles(cfg *Config, paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		vars, err := godotenv.Read(p)
		if err != nil {
			return errors.Wrap(err, p)
		}
		if err := ApplyEnv(cfg, func(key string) (string, bool) {
			v, has := vars[key]
			return v, has
		}); err != nil {
			return err
		}
	}
	return nil
}

// ApplyEnv overrides scalar settings with HOOPS_ variables
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"ADMIN":     &cfg.Admin,
		"USDC":      &cfg.Usdc,
		"API_BIND":  &cfg.API.Bind,
		"LOG_LEVEL": &cfg.Log.Level,
	}
	for k, p := range str {
		if v, has := lookup(EnvPrefix + k); has {
			*p = v
		}
	}
	ints := map[string]*int{
		"API_PORT":          &cfg.API.Port,
		"API_CACHE_SIZE":    &cfg.API.CacheSize,
		"API_CACHE_SECONDS": &cfg.API.CacheSeconds,
	}
	for k, p := range ints {
		if v, has := lookup(EnvPrefix + k); has {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrapf(err, "%v%v", EnvPrefix, k)
			}
			*p = n
		}
	}
	if v, has := lookup(EnvPrefix + "LOG_DEVELOPMENT"); has {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "%vLOG_DEVELOPMENT", EnvPrefix)
		}
		cfg.Log.Development = b
	}
	if v, has := lookup(EnvPrefix + "HOLDERS"); has {
		cfg.Holders = nil
		for _, h := range strings.Split(v, ",") {
			if h = strings.TrimSpace(h); h != "" {
				cfg.Holders = append(cfg.Holders, h)
			}
		}
	}
	return nil
}
