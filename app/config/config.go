package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log     Log     `yaml:"log"`
	App     App     `yaml:"app"`
	Weather Weather `yaml:"weather"`
	Store   Store   `yaml:"store"`
	Server  Server  `yaml:"server"`
}

type App struct {
	// Application id, obtained from registering the app with the platform
	ID string `yaml:"id" example:"3c845f47-c56a-4ca9-a1cb-12dbebd72c3b" validate:"required"`
	// Application secret
	Secret string `yaml:"secret" validate:"required"`
	// Webhook secret, obtained from registering the webhook
	WebhookSecret string `yaml:"webhook_secret" validate:"required"`
}

type Weather struct {
	// Weather service username
	User string `yaml:"user" validate:"required"`
	// Weather service password
	Password string `yaml:"password" validate:"required"`
}

type Store struct {
	// Action state store URI. A plain name selects the in-memory store,
	// redis:// selects Redis, any other URI is treated as a SQLite DSN
	URI string `yaml:"uri" example:"file:state.db"`
}

type Server struct {
	// HTTP port to listen on behind a TLS-terminating reverse proxy.
	// Leave empty to serve HTTPS directly
	Port string `yaml:"port" example:"8080"`
	// HTTPS port for direct TLS mode
	SSLPort string `yaml:"ssl_port" example:"443"`
	// Paths to the TLS certificate and key for direct TLS mode
	SSLCert string `yaml:"ssl_cert" example:"./server.crt"`
	SSLKey  string `yaml:"ssl_key" example:"./server.key"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// env-only configuration is fine
	case err != nil:
		return nil, oops.Errorf("failed to read config file: %w", err)
	default:
		if err = yaml.Unmarshal(data, &result); err != nil {
			return nil, oops.Errorf("failed to parse YAML config: %w", err)
		}
	}

	fillEnv(&result.App.ID, "WEATHER_APP_ID")
	fillEnv(&result.App.Secret, "WEATHER_APP_SECRET")
	fillEnv(&result.App.WebhookSecret, "WEATHER_WEBHOOK_SECRET")
	fillEnv(&result.Weather.User, "WEATHER_TWC_USER")
	fillEnv(&result.Weather.Password, "WEATHER_TWC_PASSWORD")
	fillEnv(&result.Store.URI, "WEATHER_STORE")
	fillEnv(&result.Server.Port, "PORT")
	fillEnv(&result.Server.SSLPort, "SSLPORT")
	fillEnv(&result.Server.SSLCert, "SSLCERT")
	fillEnv(&result.Server.SSLKey, "SSLKEY")

	if result.Store.URI == "" {
		result.Store.URI = "state"
	}
	if result.Server.Port == "" {
		if result.Server.SSLPort == "" {
			result.Server.SSLPort = "443"
		}
		if result.Server.SSLCert == "" {
			result.Server.SSLCert = "./server.crt"
		}
		if result.Server.SSLKey == "" {
			result.Server.SSLKey = "./server.key"
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

func fillEnv(dst *string, key string) {
	if *dst == "" {
		*dst = os.Getenv(key)
	}
}
