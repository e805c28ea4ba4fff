package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/coldsurfers/create-mvp-surf/internal/branding"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
	cacheDir = "cache"
)

// Recognized configuration keys.
const (
	KeyTemplate = "template"
	KeyMode     = "mode"
	KeyCache    = "cache"
	KeyVerbose  = "verbose"
	KeyNotify   = "notify"
)

// Keys lists every key accepted by Set.
var Keys = []string{KeyTemplate, KeyMode, KeyCache, KeyVerbose, KeyNotify}

// Settings is the resolved configuration for one run.
type Settings struct {
	Template string
	Mode     string
	Cache    bool
	Verbose  bool
	// Notify enables the new-release banner.
	Notify bool
}

// Dir returns the path to the config directory (~/.create-mvp-surf/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// CacheDir returns the directory holding cached template archives.
func CacheDir() string {
	return filepath.Join(Dir(), cacheDir)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyTemplate, branding.TemplateSource())
	viper.SetDefault(KeyMode, "tar")
	viper.SetDefault(KeyCache, false)
	viper.SetDefault(KeyVerbose, false)
	viper.SetDefault(KeyNotify, true)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// BindFlags lets explicitly set flags take precedence over env and file values.
func BindFlags(flags *pflag.FlagSet) error {
	for _, key := range Keys {
		f := flags.Lookup(key)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %q: %w", key, err)
		}
	}
	return nil
}

// Current returns the resolved settings.
func Current() Settings {
	return Settings{
		Template: viper.GetString(KeyTemplate),
		Mode:     viper.GetString(KeyMode),
		Cache:    viper.GetBool(KeyCache),
		Verbose:  viper.GetBool(KeyVerbose),
		Notify:   viper.GetBool(KeyNotify),
	}
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("unknown config key %q (valid keys: %v)", key, Keys)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
