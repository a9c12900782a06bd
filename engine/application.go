package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/spaghettifunk/poser/engine/core"
)

type ApplicationConfig struct {
	// The application name used in log lines and rendered headers.
	Name string `mapstructure:"name" toml:"name"`
	// Folder holding the pose file and the thumbnails.
	AssetsDir    string `mapstructure:"assets_dir" toml:"assets_dir"`
	PoseExt      string `mapstructure:"pose_ext" toml:"pose_ext"`
	ThumbnailExt string `mapstructure:"thumbnail_ext" toml:"thumbnail_ext"`
	LogLevel     string `mapstructure:"log_level" toml:"log_level"`
	// Number of thumbnails per catalog row.
	Columns int `mapstructure:"columns" toml:"columns"`
	// How many applied poses are remembered.
	HistorySize int `mapstructure:"history_size" toml:"history_size"`
	// Thumbnails are scaled to fit a square of this size.
	ThumbnailSize int `mapstructure:"thumbnail_size" toml:"thumbnail_size"`
	// Reload the library when the assets folder changes.
	Watch bool `mapstructure:"watch" toml:"watch"`
}

func DefaultApplicationConfig() ApplicationConfig {
	return ApplicationConfig{
		Name:          "Poser",
		AssetsDir:     "assets",
		PoseExt:       "xml",
		ThumbnailExt:  "png",
		LogLevel:      "info",
		Columns:       3,
		HistorySize:   10,
		ThumbnailSize: 100,
		Watch:         false,
	}
}

// LoadApplicationConfig reads the configuration from path (TOML) when it is
// not empty, on top of the defaults. POSER_* environment variables win over
// both, e.g. POSER_ASSETS_DIR.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	v := viper.New()

	defaults := DefaultApplicationConfig()
	v.SetDefault("name", defaults.Name)
	v.SetDefault("assets_dir", defaults.AssetsDir)
	v.SetDefault("pose_ext", defaults.PoseExt)
	v.SetDefault("thumbnail_ext", defaults.ThumbnailExt)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("columns", defaults.Columns)
	v.SetDefault("history_size", defaults.HistorySize)
	v.SetDefault("thumbnail_size", defaults.ThumbnailSize)
	v.SetDefault("watch", defaults.Watch)

	v.SetConfigType("toml")
	v.SetEnvPrefix("POSER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg ApplicationConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot be fixed up later.
func (c *ApplicationConfig) Validate() error {
	if strings.TrimSpace(c.AssetsDir) == "" {
		return fmt.Errorf("config: assets_dir must not be empty")
	}
	if strings.TrimSpace(c.PoseExt) == "" || strings.TrimSpace(c.ThumbnailExt) == "" {
		return fmt.Errorf("config: pose_ext and thumbnail_ext must not be empty")
	}
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	if c.ThumbnailSize <= 0 {
		return fmt.Errorf("config: thumbnail_size must be positive, got %d", c.ThumbnailSize)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c *ApplicationConfig) Level() core.LogLevel {
	level, err := core.ParseLogLevel(c.LogLevel)
	if err != nil {
		return core.InfoLevel
	}
	return level
}

// SaveApplicationConfig writes cfg as TOML, creating the parent folder.
func SaveApplicationConfig(path string, cfg ApplicationConfig) error {
	b, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
