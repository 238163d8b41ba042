package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string
	Port int
}

// AliasConfig holds the alias generation settings.
type AliasConfig struct {
	Domain     string // domain new aliases are minted under, e.g. "ghstmail.me"
	MaxPerUser int    // maximum aliases a single account may hold
}

// SMTPConfig holds the inbound SMTP server and outbound relay settings.
type SMTPConfig struct {
	BindAddr  string // inbound listener, e.g. ":25"
	Domain    string // HELO/EHLO domain
	RelayAddr string // upstream smarthost for forwarded mail, "host:port"
}

// CORSConfig holds the allowed origins for the HTTP API.
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string // debug, info, warn, error
	Development bool
	File        string // optional log file; rotation applies when set
}

// DatabaseConfig holds the PostgreSQL connection settings. An empty DSN
// selects the in-memory store.
type DatabaseConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds the alias resolve cache settings. An empty address
// disables the cache.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret        string
	Issuer        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// ClientConfig holds settings for the terminal client.
type ClientConfig struct {
	APIBaseURL string
}

// Config is the root configuration for all Ghstmail binaries.
type Config struct {
	Server   ServerConfig
	Alias    AliasConfig
	SMTP     SMTPConfig
	CORS     CORSConfig
	Log      LogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Client   ClientConfig
}

// Load reads configuration from the environment, an optional .env file,
// and built-in defaults, in that order of precedence. Environment
// variables use the GHSTMAIL_ prefix, e.g. GHSTMAIL_SERVER_PORT.
func Load() (*Config, error) {
	loadEnvFile()

	viper.SetEnvPrefix("ghstmail")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("alias.domain", "ghstmail.me")
	viper.SetDefault("alias.max_per_user", 20)
	viper.SetDefault("smtp.bind_addr", ":25")
	viper.SetDefault("smtp.domain", "ghstmail.me")
	viper.SetDefault("smtp.relay_addr", "")
	viper.SetDefault("cors.allowed_origins", "*")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)
	viper.SetDefault("log.file", "")
	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "5m")
	viper.SetDefault("redis.address", "")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.issuer", "ghstmail")
	viper.SetDefault("jwt.access_expiry", "15m")
	viper.SetDefault("jwt.refresh_expiry", "168h")
	viper.SetDefault("client.api_base_url", "https://api.ghstmail.me")

	aliasDomain := strings.ToLower(strings.TrimSpace(viper.GetString("alias.domain")))
	if aliasDomain == "" {
		return nil, fmt.Errorf("alias.domain must not be empty")
	}

	maxPerUser := viper.GetInt("alias.max_per_user")
	if maxPerUser <= 0 {
		maxPerUser = 20
	}

	corsOrigins := parseList(viper.GetString("cors.allowed_origins"))
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	connMaxLifetime, err := time.ParseDuration(viper.GetString("database.conn_max_lifetime"))
	if err != nil {
		connMaxLifetime = 5 * time.Minute
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("jwt.access_expiry"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("jwt.refresh_expiry"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	jwtSecret := viper.GetString("jwt.secret")
	if jwtSecret == "change-me-in-production" {
		return nil, fmt.Errorf("JWT secret cannot be the default value; set GHSTMAIL_JWT_SECRET")
	}
	if len(jwtSecret) < 32 {
		return nil, fmt.Errorf("JWT secret must be at least 32 characters long")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("server.host"),
			Port: viper.GetInt("server.port"),
		},
		Alias: AliasConfig{
			Domain:     aliasDomain,
			MaxPerUser: maxPerUser,
		},
		SMTP: SMTPConfig{
			BindAddr:  viper.GetString("smtp.bind_addr"),
			Domain:    viper.GetString("smtp.domain"),
			RelayAddr: viper.GetString("smtp.relay_addr"),
		},
		CORS: CORSConfig{
			AllowedOrigins: corsOrigins,
		},
		Log: LogConfig{
			Level:       viper.GetString("log.level"),
			Development: viper.GetBool("log.development"),
			File:        viper.GetString("log.file"),
		},
		Database: DatabaseConfig{
			DSN:             viper.GetString("database.dsn"),
			MaxOpenConns:    viper.GetInt("database.max_open_conns"),
			MaxIdleConns:    viper.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:        jwtSecret,
			Issuer:        viper.GetString("jwt.issuer"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Client: ClientConfig{
			APIBaseURL: strings.TrimRight(viper.GetString("client.api_base_url"), "/"),
		},
	}

	return cfg, nil
}

// LoadClient is Load without the server-side secret checks, for the
// terminal client which never signs tokens.
func LoadClient() (*Config, error) {
	loadEnvFile()

	viper.SetEnvPrefix("ghstmail")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("client.api_base_url", "https://api.ghstmail.me")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")

	return &Config{
		Client: ClientConfig{
			APIBaseURL: strings.TrimRight(viper.GetString("client.api_base_url"), "/"),
		},
		Log: LogConfig{
			Level: viper.GetString("log.level"),
			File:  viper.GetString("log.file"),
		},
	}, nil
}

// parseList splits a comma-separated string into trimmed, non-empty items.
func parseList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// loadEnvFile loads .env from the working directory or its parent.
// Missing files are fine; existing environment variables win.
func loadEnvFile() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}
	parentEnv := filepath.Join("..", ".env")
	if _, err := os.Stat(parentEnv); err == nil {
		_ = godotenv.Load(parentEnv)
	}
}
