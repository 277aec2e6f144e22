package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is split in two files: public.yaml holds values that are safe to
// commit, private.yaml holds credentials and is mounted at deploy time.
type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	BaseUrl        string   `yaml:"base_url"` // used to build confirmation links
	LogLevel       string   `yaml:"log_level"`
	LogJSON        bool     `yaml:"log_json"`
	SecureCookies  bool     `yaml:"secure_cookies"`
	JwtTTLSeconds  int      `yaml:"jwt_ttl_seconds"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Private struct {
	Pg     Pg     `yaml:"pg"`
	Smtp   Smtp   `yaml:"smtp"`
	JwtKey string `yaml:"jwt_key"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Smtp struct {
	Server     string `yaml:"server"`
	Port       int    `yaml:"port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
	Timeout    int    `yaml:"timeout"` // seconds
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return time.Duration(c.Public.JwtTTLSeconds) * time.Second
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	return &Config{public, private}
}
