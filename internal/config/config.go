package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const DefaultBackendURL = "https://parmishsahni.onrender.com"

// Config holds application configuration.
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	Log     LogConfig     `mapstructure:"log"`
	Images  ImagesConfig  `mapstructure:"images"`
	UI      UIConfig      `mapstructure:"ui"`
}

// BackendConfig points at the search bot API.
type BackendConfig struct {
	URL     string        `mapstructure:"url" validate:"required,http_url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// LogConfig controls the file logger. An empty Path disables logging.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// ImagesConfig is where exported images are written.
type ImagesConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	StartTab string `mapstructure:"start_tab" validate:"oneof=search image ocr chat pdf"`
}

// Load reads configuration from defaults, an optional TOML file, a .env file,
// the environment and finally flags. Env var overrides use prefix SEARCHBOT_;
// BACKEND_URL is also honoured for the backend address.
func Load(flags *pflag.FlagSet) (Config, error) {
	// a missing .env is normal
	_ = godotenv.Load()

	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("backend.url", DefaultBackendURL)
	v.SetDefault("backend.timeout", 2*time.Minute)
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "searchbot", "searchbot.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("images.dir", filepath.Join(home, "Pictures", "searchbot"))
	v.SetDefault("ui.start_tab", "search")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SEARCHBOT_CONFIG")
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Changed {
			cfgPath = f.Value.String()
		}
	}
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "searchbot"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SEARCHBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("backend.url", "SEARCHBOT_BACKEND_URL", "BACKEND_URL"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit config path must exist; the default location may not
		if !errors.As(err, &notFound) || cfgPath != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.UI.StartTab = strings.ToLower(strings.TrimSpace(c.UI.StartTab))
	if err := Validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// flagKeys maps config keys to the command-line flags that override them.
var flagKeys = map[string]string{
	"backend.url":     "backend-url",
	"backend.timeout": "timeout",
	"log.path":        "log-file",
	"log.level":       "log-level",
	"images.dir":      "images-dir",
	"ui.start_tab":    "tab",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their config key rather than the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("mapstructure")
	})
	return v
}

// Validate checks a loaded config.
func Validate(c Config) error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s: invalid value %v (%s)", strings.ToLower(fe.Namespace()), fe.Value(), fe.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
