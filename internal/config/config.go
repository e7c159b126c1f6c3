package config

import (
	"bytes"
	"fmt"
	"net"
	neturl "net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 3330
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "keywordforge"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379

	defaultMaxKeywordsPerUpload = 10000
	defaultMaxUploadSizeMB      = 10
	defaultGenerationWorkers    = 4
	defaultOpenAIModel          = "gpt-4o-mini"
	defaultShopifyAPIVersion    = "2025-07"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int              `yaml:"port"`
	Env            string           `yaml:"env"` // "development" | "production"
	Database       DatabaseConfig   `yaml:"database"`
	Redis          RedisConfig      `yaml:"redis"`
	AllowedOrigins []string         `yaml:"allowed_origins"`
	JWTSecret      string           `yaml:"jwt_secret"`
	OpenAI         OpenAIConfig     `yaml:"openai"`
	Shopify        ShopifyConfig    `yaml:"shopify"`
	Limits         LimitsConfig     `yaml:"limits"`
	Generation     GenerationConfig `yaml:"generation"`
}

type DatabaseConfig struct {
	DSN       string `yaml:"dsn"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	Name      string `yaml:"name"`
	Charset   string `yaml:"charset"`
	ParseTime bool   `yaml:"parse_time"`
	Loc       string `yaml:"loc"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

// OpenAIConfig configures the blog drafting provider. Endpoint is optional
// and points at any OpenAI-compatible API.
type OpenAIConfig struct {
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`
}

type ShopifyConfig struct {
	APIVersion string `yaml:"api_version"`
}

type LimitsConfig struct {
	MaxKeywordsPerUpload int `yaml:"max_keywords_per_upload"`
	MaxUploadSizeMB      int `yaml:"max_upload_size_mb"`
}

type GenerationConfig struct {
	Workers int `yaml:"workers"`
}

// Load reads and validates the YAML config file.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg := defaultAppConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	cfg.normalize()

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %q, expected 1-65535", cfg.Port, path)
	}
	if cfg.Database.Port < 1 || cfg.Database.Port > 65535 {
		return nil, fmt.Errorf("invalid database.port %d in %q, expected 1-65535", cfg.Database.Port, path)
	}
	if cfg.Redis.Port < 1 || cfg.Redis.Port > 65535 {
		return nil, fmt.Errorf("invalid redis.port %d in %q, expected 1-65535", cfg.Redis.Port, path)
	}
	if cfg.Limits.MaxKeywordsPerUpload < 1 {
		return nil, fmt.Errorf("invalid limits.max_keywords_per_upload %d in %q", cfg.Limits.MaxKeywordsPerUpload, path)
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseConfig{
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
		},
		OpenAI: OpenAIConfig{
			Model: defaultOpenAIModel,
		},
		Shopify: ShopifyConfig{
			APIVersion: defaultShopifyAPIVersion,
		},
		Limits: LimitsConfig{
			MaxKeywordsPerUpload: defaultMaxKeywordsPerUpload,
			MaxUploadSizeMB:      defaultMaxUploadSizeMB,
		},
		Generation: GenerationConfig{
			Workers: defaultGenerationWorkers,
		},
	}
}

func (c *AppConfig) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env == "" {
		c.Env = defaultEnv
	}
	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	c.OpenAI.Model = strings.TrimSpace(c.OpenAI.Model)
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = defaultOpenAIModel
	}
	c.OpenAI.Endpoint = strings.TrimRight(strings.TrimSpace(c.OpenAI.Endpoint), "/")
	c.Shopify.APIVersion = strings.TrimSpace(c.Shopify.APIVersion)
	if c.Shopify.APIVersion == "" {
		c.Shopify.APIVersion = defaultShopifyAPIVersion
	}
	if c.Generation.Workers < 1 {
		c.Generation.Workers = defaultGenerationWorkers
	}
	if c.Limits.MaxUploadSizeMB < 1 {
		c.Limits.MaxUploadSizeMB = defaultMaxUploadSizeMB
	}

	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.AllowedOrigins = origins
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

// DSN builds the MySQL DSN from the database section.
func (c *AppConfig) DSN() string {
	db := c.Database
	if v := strings.TrimSpace(db.DSN); v != "" {
		return v
	}

	params := neturl.Values{}
	params.Set("charset", orDefault(db.Charset, defaultDBCharset))
	params.Set("parseTime", strconv.FormatBool(db.ParseTime))
	params.Set("loc", orDefault(db.Loc, defaultDBLoc))

	host := net.JoinHostPort(orDefault(db.Host, defaultDBHost), strconv.Itoa(orDefaultInt(db.Port, defaultDBPort)))
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?%s",
		orDefault(db.User, defaultDBUser),
		orDefault(db.Password, defaultDBPassword),
		host,
		orDefault(db.Name, defaultDBName),
		params.Encode(),
	)
}

// RedisURL builds the Redis connection URL from the redis section.
func (c *AppConfig) RedisURL() string {
	r := c.Redis
	if v := strings.TrimSpace(r.URL); v != "" {
		if strings.HasPrefix(v, "redis://") || strings.HasPrefix(v, "rediss://") {
			return v
		}
		return "redis://" + v
	}

	scheme := "redis"
	if r.TLS {
		scheme = "rediss"
	}
	u := &neturl.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(orDefault(r.Host, defaultRedisHost), strconv.Itoa(orDefaultInt(r.Port, defaultRedisPort))),
		Path:   "/" + strconv.Itoa(r.DB),
	}
	username := strings.TrimSpace(r.Username)
	password := strings.TrimSpace(r.Password)
	if username != "" {
		u.User = neturl.UserPassword(username, password)
	} else if password != "" {
		u.User = neturl.UserPassword("", password)
	}
	return u.String()
}

// MaxUploadSizeBytes returns the upload cap in bytes.
func (c *AppConfig) MaxUploadSizeBytes() int64 {
	return int64(c.Limits.MaxUploadSizeMB) * 1024 * 1024
}

func orDefault(v, def string) string {
	if trimmed := strings.TrimSpace(v); trimmed != "" {
		return trimmed
	}
	return def
}

func orDefaultInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}
