package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config is the runtime configuration. Commands read it through this
// interface so tests can pass a plain struct.
type Config interface {
	BasePath() string
	Debounce() time.Duration
	ReminderInterval() time.Duration
	ReminderInitialDelay() time.Duration
	LogLevel() string
	Telegram() TelegramConfig
}

// TelegramConfig enables the Telegram notifier when Token is set.
type TelegramConfig struct {
	Token  string        `json:"token" yaml:"token"`
	ChatID int64         `json:"chat_id" yaml:"chat_id"`
	Rate   time.Duration `json:"rate" yaml:"rate"`
}

// Enabled reports whether a token and a recipient are configured.
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

const (
	DefaultPath                 = "~/.agenda"
	DefaultDebounce             = 2 * time.Second
	DefaultReminderInterval     = time.Minute
	DefaultReminderInitialDelay = time.Second
)

// LoadConfig reads .agenda.yaml from $AGENDA_CONFIG_PATH, the working
// directory and $HOME. AGENDA_* environment variables override file values.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", DefaultPath)
	v.SetDefault("debounce", DefaultDebounce)
	v.SetDefault("reminder.interval", DefaultReminderInterval)
	v.SetDefault("reminder.initial_delay", DefaultReminderInitialDelay)
	v.SetDefault("log.level", "info")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.rate", time.Second)

	v.SetConfigName(".agenda") // .yaml is implicit
	v.SetEnvPrefix("AGENDA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("AGENDA_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: reading config file: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expanding path %q: %w", v.GetString("path"), err)
	}

	return &StaticConfig{
		Path:          path,
		DebounceDelay: v.GetDuration("debounce"),
		Interval:      v.GetDuration("reminder.interval"),
		InitialDelay:  v.GetDuration("reminder.initial_delay"),
		Level:         v.GetString("log.level"),
		TelegramSettings: TelegramConfig{
			Token:  v.GetString("telegram.token"),
			ChatID: v.GetInt64("telegram.chat_id"),
			Rate:   v.GetDuration("telegram.rate"),
		},
	}, nil
}

// StaticConfig is a Config with fixed values. Zero durations fall back to
// the defaults.
type StaticConfig struct {
	Path             string
	DebounceDelay    time.Duration
	Interval         time.Duration
	InitialDelay     time.Duration
	Level            string
	TelegramSettings TelegramConfig
}

func (c *StaticConfig) BasePath() string { return c.Path }

func (c *StaticConfig) Debounce() time.Duration {
	return orDefault(c.DebounceDelay, DefaultDebounce)
}

func (c *StaticConfig) ReminderInterval() time.Duration {
	return orDefault(c.Interval, DefaultReminderInterval)
}

func (c *StaticConfig) ReminderInitialDelay() time.Duration {
	return orDefault(c.InitialDelay, DefaultReminderInitialDelay)
}

func (c *StaticConfig) LogLevel() string { return c.Level }

func (c *StaticConfig) Telegram() TelegramConfig { return c.TelegramSettings }

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
