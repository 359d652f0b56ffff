package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath = "config.yaml"
	defaultEnvPath    = ".env.local"
)

type Config struct {
	Log      Log      `yaml:"log"`
	WhatsApp WhatsApp `yaml:"whatsapp"`
	OpenAI   OpenAI   `yaml:"openai"`
	HTTP     HTTP     `yaml:"http"`
	Bot      Bot      `yaml:"bot"`
}

type WhatsApp struct {
	// WebSocket URL of the whatsapp-web.js bridge
	BridgeURL string `yaml:"bridge_url" example:"ws://localhost:3001/ws" validate:"required,url"`
	// How long to wait for the bridge to acknowledge a send or download request
	RequestTimeout time.Duration `yaml:"request_timeout" example:"30s" validate:"gt=0"`
}

type OpenAI struct {
	// OpenAI base url
	BaseURL string `yaml:"base_url" example:"https://api.openai.com/v1" validate:"required"`
	// OpenAI token
	Token string `yaml:"token" example:"${OPENAI_API_KEY}" validate:"required"`
	// OpenAI model
	Model string `yaml:"model" example:"gpt-3.5-turbo" validate:"required"`
	// HTTP timeout of a single completion
	Timeout time.Duration `yaml:"timeout" example:"30s" validate:"gt=0"`
}

type HTTP struct {
	// Address of the QR / health / operator endpoint
	Listen string `yaml:"listen" example:":3000" validate:"required"`
}

type Bot struct {
	// Inactivity period after which a handed-off conversation returns to the bot
	TakeoverTimeout time.Duration `yaml:"takeover_timeout" example:"10m" validate:"gt=0"`
	// Minimum spacing between two processed messages of one conversation
	DebounceInterval time.Duration `yaml:"debounce_interval" example:"2s" validate:"gte=0"`
	// Lower bound of the artificial reply delay
	ReplyDelayMin time.Duration `yaml:"reply_delay_min" example:"2s" validate:"gte=0"`
	// Upper bound of the artificial reply delay
	ReplyDelayMax time.Duration `yaml:"reply_delay_max" example:"3s" validate:"gtefield=ReplyDelayMin"`
	// Restart the inactivity timer on every message received during a handoff
	RearmOnActivity bool `yaml:"rearm_on_activity" example:"false"`
	// Answer farewells (gracias, adiós, ok...) with the closing text
	FarewellEnabled *bool `yaml:"farewell_enabled" example:"true"`
	// Number of messages processed concurrently
	Workers int `yaml:"workers" example:"16" validate:"gt=0"`
	// Capacity of the inbound message queue
	QueueSize int `yaml:"queue_size" example:"64" validate:"gt=0"`
}

func (b Bot) Farewell() bool {
	return b.FarewellEnabled == nil || *b.FarewellEnabled
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
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	return LoadFile(path, defaultEnvPath)
}

func LoadFile(path, envPath string) (*Config, error) {
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, oops.Errorf("failed to load env file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var result Config

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	applyDefaults(&result)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

func applyDefaults(cfg *Config) {
	if cfg.WhatsApp.RequestTimeout == 0 {
		cfg.WhatsApp.RequestTimeout = 30 * time.Second
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-3.5-turbo"
	}
	if cfg.OpenAI.Timeout == 0 {
		cfg.OpenAI.Timeout = 30 * time.Second
	}
	if cfg.HTTP.Listen == "" {
		cfg.HTTP.Listen = ":3000"
	}
	if cfg.Bot.TakeoverTimeout == 0 {
		cfg.Bot.TakeoverTimeout = 10 * time.Minute
	}
	if cfg.Bot.DebounceInterval == 0 {
		cfg.Bot.DebounceInterval = 2 * time.Second
	}
	if cfg.Bot.ReplyDelayMin == 0 && cfg.Bot.ReplyDelayMax == 0 {
		cfg.Bot.ReplyDelayMin = 2 * time.Second
		cfg.Bot.ReplyDelayMax = 3 * time.Second
	}
	if cfg.Bot.Workers == 0 {
		cfg.Bot.Workers = 16
	}
	if cfg.Bot.QueueSize == 0 {
		cfg.Bot.QueueSize = 64
	}
}
