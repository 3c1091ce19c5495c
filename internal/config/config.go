package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"catalog-cli/internal/api"
)

const (
	BaseURL   = "base_url"
	Timeout   = "timeout"
	UserAgent = "user_agent"
	LogLevel  = "log_level"
	LogFile   = "log_file"
	Retries   = "retries"

	fileName  = ".catalog"
	envPrefix = "CATALOG"
)

// Keys lists the settings that `config set` accepts.
var Keys = []string{BaseURL, Timeout, UserAgent, LogLevel, LogFile, Retries}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault(BaseURL, api.BaseURL)
	viper.SetDefault(Timeout, api.DefaultTimeout)
	viper.SetDefault(UserAgent, api.DefaultUserAgent)
	viper.SetDefault(LogLevel, "info")
	viper.SetDefault(LogFile, "catalog.log")
	viper.SetDefault(Retries, 3)
}

// InitConfig initializes the configuration
func InitConfig() {
	SetDefaults()

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	viper.AddConfigPath(home)
	viper.SetConfigType("yaml")
	viper.SetConfigName(fileName)

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // CATALOG_BASE_URL, CATALOG_TIMEOUT, ...

	// A missing file is fine, a broken one is worth a warning.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: ignoring config file: %v\n", err)
		}
	}
}

// Set validates and stores key in ~/.catalog.yaml.
func Set(key, value string) error {
	if !IsKey(key) {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	switch key {
	case Timeout:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout %q: %w", value, err)
		}
	case Retries:
		if n, err := strconv.Atoi(value); err != nil || n < 0 {
			return fmt.Errorf("invalid retries %q: want a non-negative integer", value)
		}
	}

	viper.Set(key, value)
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return viper.WriteConfigAs(filepath.Join(home, fileName+".yaml"))
}

func Get(key string) (string, error) {
	if !IsKey(key) {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	return viper.GetString(key), nil
}

// All returns every known key with its effective value, sorted by key.
func All() [][2]string {
	keys := append([]string(nil), Keys...)
	sort.Strings(keys)
	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, [2]string{k, viper.GetString(k)})
	}
	return out
}

func IsKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// ClientOptions reads the transport settings.
func ClientOptions() api.Options {
	return api.Options{
		BaseURL:   viper.GetString(BaseURL),
		Timeout:   viper.GetDuration(Timeout),
		UserAgent: viper.GetString(UserAgent),
	}
}

func GetLogLevel() string {
	return viper.GetString(LogLevel)
}

func GetLogFile() string {
	return viper.GetString(LogFile)
}

// GetRetries is the number of attempts per page, including the first.
func GetRetries() uint {
	return viper.GetUint(Retries)
}
