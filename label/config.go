package label

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/lewtec/photolabel/internal/export"
	"github.com/lewtec/photolabel/internal/metadata"
)

// DefaultOutputPrefix is prepended to the name of every downloaded file
const DefaultOutputPrefix = "[LABELED] "

type Config struct {
	Log         LogConfig
	Preferences PreferencesConfig
	Render      RenderConfig
	Extract     ExtractConfig
	Output      OutputConfig
	Locale      LocaleConfig
}

type LogConfig struct {
	Level string
}

type PreferencesConfig struct {
	Database  string
	Namespace string
}

type RenderConfig struct {
	Quality  float64
	FontsDir string `mapstructure:"fonts_dir"`
	Timeout  time.Duration
}

type ExtractConfig struct {
	FilenamePrefix string `mapstructure:"filename_prefix"`
}

type OutputConfig struct {
	Prefix string
}

type LocaleConfig struct {
	Default string
}

// LoadConfig reads photolabel.yaml from filename, or from the working
// directory and the user config directory when filename is empty. A
// missing file is fine, environment variables prefixed with PHOTOLABEL_
// override both.
func LoadConfig(filename string) (*Config, error) {
	v := viper.New()
	if filename != "" {
		v.SetConfigFile(filename)
	} else {
		v.SetConfigName("photolabel")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}
	v.SetEnvPrefix("PHOTOLABEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("while loading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		)
	}); err != nil {
		return nil, fmt.Errorf("while decoding config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Render.Quality <= 0 || c.Render.Quality > 1 {
		return fmt.Errorf("render.quality: %w: got %v", export.ErrInvalidQuality, c.Render.Quality)
	}
	if c.Render.Timeout < 0 {
		return fmt.Errorf("render.timeout must not be negative, got %s", c.Render.Timeout)
	}
	if c.Preferences.Namespace == "" {
		return fmt.Errorf("preferences.namespace must not be empty")
	}
	if c.Preferences.Database == "" {
		return fmt.Errorf("preferences.database must not be empty")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("preferences.database", defaultDatabasePath())
	v.SetDefault("preferences.namespace", DefaultNamespace)

	v.SetDefault("render.quality", export.DefaultQuality)
	v.SetDefault("render.fonts_dir", "")
	v.SetDefault("render.timeout", "1m")

	v.SetDefault("extract.filename_prefix", metadata.DefaultFilenamePrefix)

	v.SetDefault("output.prefix", DefaultOutputPrefix)

	v.SetDefault("locale.default", DefaultLocale)
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "photolabel")
}

func defaultDatabasePath() string {
	if dir := configDir(); dir != "" {
		return filepath.Join(dir, "preferences.db")
	}
	return "photolabel-preferences.db"
}
