package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aretw0/encyclopedia/pkg/markdown"
)

// EnvPrefix is shared by every environment variable the application reads.
const EnvPrefix = "ENCYCLOPEDIA_"

type Config struct {
	App      AppConfig      `yaml:"app" env-prefix:"ENCYCLOPEDIA_APP_"`
	HTTP     HTTPConfig     `yaml:"http" env-prefix:"ENCYCLOPEDIA_HTTP_"`
	Store    StoreConfig    `yaml:"store" env-prefix:"ENCYCLOPEDIA_STORE_"`
	Markdown MarkdownConfig `yaml:"markdown" env-prefix:"ENCYCLOPEDIA_MARKDOWN_"`
}

type AppConfig struct {
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Pretty   bool   `yaml:"pretty" env:"PRETTY" env-default:"false"`
}

type HTTPConfig struct {
	Addr              string        `yaml:"addr" env:"ADDR" env-default:":8000"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"READ_HEADER_TIMEOUT" env-default:"5s"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"3s"`
}

type StoreConfig struct {
	// Adapter is "fs" or "sqlite".
	Adapter   string `yaml:"adapter" env:"ADAPTER" env-default:"fs"`
	Path      string `yaml:"path" env:"PATH" env-default:"entries"`
	ReadOnly  bool   `yaml:"read_only" env:"READ_ONLY" env-default:"false"`
	MustExist bool   `yaml:"must_exist" env:"MUST_EXIST" env-default:"false"`
}

type MarkdownConfig struct {
	Extensions []string `yaml:"extensions" env:"EXTENSIONS" env-separator:","`
	HardWraps  bool     `yaml:"hard_wraps" env:"HARD_WRAPS" env-default:"false"`
	SafeMode   bool     `yaml:"safe_mode" env:"SAFE_MODE" env-default:"false"`
}

// Adapters lists the storage backends the store section may name.
var Adapters = []string{"fs", "sqlite"}

var logLevels = []any{"debug", "info", "warn", "warning", "error", "DEBUG", "INFO", "WARN", "ERROR"}

// Validate checks the values cleanenv cannot.
func (c Config) Validate() error {
	return validation.Errors{
		"app": validation.ValidateStruct(&c.App,
			validation.Field(&c.App.LogLevel, validation.Required, validation.In(logLevels...)),
		),
		"http": validation.ValidateStruct(&c.HTTP,
			validation.Field(&c.HTTP.Addr, validation.Required),
			validation.Field(&c.HTTP.ReadHeaderTimeout, validation.Min(time.Duration(0))),
			validation.Field(&c.HTTP.ShutdownTimeout, validation.Min(time.Duration(0))),
		),
		"store": validation.ValidateStruct(&c.Store,
			validation.Field(&c.Store.Adapter, validation.Required, validation.In(toAny(Adapters)...)),
			validation.Field(&c.Store.Path, validation.Required),
		),
		"markdown": validation.ValidateStruct(&c.Markdown,
			validation.Field(&c.Markdown.Extensions, validation.Each(validation.In(toAny(markdown.ExtensionNames())...))),
		),
	}.Filter()
}

// MarkdownOptions converts the markdown section for markdown.New.
func (c Config) MarkdownOptions() markdown.Options {
	return markdown.Options{
		Extensions: c.Markdown.Extensions,
		HardWraps:  c.Markdown.HardWraps,
		SafeMode:   c.Markdown.SafeMode,
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
