package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig
	Contact  ContactConfig
	Admin    AdminConfig
	Database DatabaseConfig
	Content  ContentConfig
	Carousel CarouselConfig
}

type ServerConfig struct {
	Port        string
	Mode        string
	SessionIdle time.Duration `mapstructure:"session_idle"`
	// MaxConns caps concurrent connections; carousel streams hold theirs open.
	MaxConns int `mapstructure:"max_conns"`
}

// ContactConfig selects the relay. With a FormEndpoint set, submissions go
// to the hosted form; otherwise they are emailed over SMTP.
type ContactConfig struct {
	FormEndpoint string `mapstructure:"form_endpoint"`
	Subject      string
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     string `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPass     string `mapstructure:"smtp_pass"`
	ToEmail      string `mapstructure:"to_email"`
}

type AdminConfig struct {
	Username string
	Password string
}

type DatabaseConfig struct {
	Path      string
	Retention time.Duration
}

type ContentConfig struct {
	Path  string
	Watch bool
}

type CarouselConfig struct {
	Interval time.Duration
}

// legacy maps keys to the unprefixed variables older deployments use.
var legacy = map[string]string{
	"server.port":           "PORT",
	"contact.form_endpoint": "FORM_ENDPOINT",
	"contact.smtp_host":     "SMTP_HOST",
	"contact.smtp_port":     "SMTP_PORT",
	"contact.smtp_user":     "SMTP_USER",
	"contact.smtp_pass":     "SMTP_PASS",
	"contact.to_email":      "TO_EMAIL",
	"admin.username":        "ADMIN_USERNAME",
	"admin.password":        "ADMIN_PASSWORD",
}

// Load reads an optional config file named by ARCANA_CONFIG and the
// environment. Env var overrides use prefix ARCANA_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.session_idle", 2*time.Hour)
	v.SetDefault("server.max_conns", 512)
	v.SetDefault("contact.form_endpoint", "https://formspree.io/f/mdkqygln")
	v.SetDefault("contact.subject", "A raven arrives…")
	v.SetDefault("contact.smtp_host", "smtp.gmail.com")
	v.SetDefault("contact.smtp_port", "587")
	v.SetDefault("contact.to_email", "sylviamullins@arcanacodeforges.com")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "admin123")
	v.SetDefault("database.path", "arcana.db")
	v.SetDefault("database.retention", 365*24*time.Hour)
	v.SetDefault("content.path", "")
	v.SetDefault("content.watch", false)
	v.SetDefault("carousel.interval", 3*time.Second)

	if path := os.Getenv("ARCANA_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("ARCANA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, env := range legacy {
		// the prefixed name wins over the legacy one
		if err := v.BindEnv(key, envName(key), env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// DefaultAdminCredentials reports whether the built-in login is in use.
func (c Config) DefaultAdminCredentials() bool {
	return c.Admin.Username == "admin" && c.Admin.Password == "admin123"
}

func envName(key string) string {
	return "ARCANA_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
