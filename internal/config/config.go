package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version  string        `yaml:"version" json:"version"`
	Server   ServerConfig  `yaml:"server" json:"server"`
	Storage  StorageConfig `yaml:"storage" json:"storage"`
	Log      LogConfig     `yaml:"log" json:"log"`
	Timezone string        `yaml:"timezone" json:"timezone"`
	Balance  Balance       `yaml:"balance" json:"balance"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type StorageConfig struct {
	Driver     string      `yaml:"driver" json:"driver"`
	DataDir    string      `yaml:"data_dir" json:"data_dir"`
	SQLitePath string      `yaml:"sqlite_path" json:"sqlite_path"`
	Redis      RedisConfig `yaml:"redis" json:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"-"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

type LogConfig struct {
	Mode string `yaml:"mode" json:"mode"`
}

func (s *StorageConfig) ApplyDefaults() {
	if strings.TrimSpace(s.Driver) == "" {
		s.Driver = StoreFile
	}
	if strings.TrimSpace(s.DataDir) == "" {
		s.DataDir = "data"
	}
	if strings.TrimSpace(s.SQLitePath) == "" {
		s.SQLitePath = s.DataDir + "/grimoire.db"
	}
	if strings.TrimSpace(s.Redis.Addr) == "" {
		s.Redis.Addr = "localhost:6379"
	}
	if strings.TrimSpace(s.Redis.Prefix) == "" {
		s.Redis.Prefix = "grimoire"
	}
}

func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = ":42069"
	}
	if strings.TrimSpace(c.Log.Mode) == "" {
		c.Log.Mode = "dev"
	}
	if strings.TrimSpace(c.Timezone) == "" {
		c.Timezone = "Local"
	}
	c.Storage.ApplyDefaults()
	c.Balance.ApplyDefaults()
}

// Defaults returns a config with every default applied.
func Defaults() *Config {
	c := &Config{Balance: Default()}
	c.ApplyDefaults()
	return c
}

// Load reads the YAML file at path. A missing file yields Defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Defaults(), nil
		}
		return nil, err
	}
	var r Config
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	r.ApplyDefaults()
	return &r, nil
}
