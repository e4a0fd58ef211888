// Package config centralizes Viper defaults and typed accessors for
// pipeline settings. Values resolve in the usual Viper order: explicit
// flags, environment variables, config file, then the defaults below.
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyWeeksAhead     = "weeks_ahead"
	KeyOptimize       = "optimize"
	KeyMatchThreshold = "match_threshold"
	KeyWorkers        = "workers"
	KeyFacilitiesFile = "facilities_file"
	KeySourceURL      = "source_url"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
)

// EnvPrefix namespaces the environment variables, e.g. POOLSYNC_WEEKS_AHEAD.
const EnvPrefix = "POOLSYNC"

// SetDefaults registers every default. Call once before reading keys.
func SetDefaults() {
	viper.SetDefault(KeyWeeksAhead, 4)
	viper.SetDefault(KeyOptimize, true)
	viper.SetDefault(KeyMatchThreshold, 0.6)
	viper.SetDefault(KeyWorkers, 4)
	viper.SetDefault(KeyFacilitiesFile, "facilities.yaml")
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyLogFormat, "auto")
}

// BindEnv wires the POOLSYNC_* environment namespace into Viper.
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

// GetString reads a string key, letting a raw OS variable win when Viper
// has no value bound for it.
func GetString(key string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return os.Getenv(EnvPrefix + "_" + strings.ToUpper(key))
}

// WeeksAhead returns how many weeks of sessions to generate.
func WeeksAhead() int { return viper.GetInt(KeyWeeksAhead) }

// Optimize reports whether conflict resolution is enabled.
func Optimize() bool { return viper.GetBool(KeyOptimize) }

// MatchThreshold returns the facility matching threshold.
func MatchThreshold() float64 { return viper.GetFloat64(KeyMatchThreshold) }

// Workers returns the record-processing concurrency bound.
func Workers() int { return viper.GetInt(KeyWorkers) }

// FacilitiesFile returns the facility directory path.
func FacilitiesFile() string { return GetString(KeyFacilitiesFile) }

// SourceURL returns the upstream feed URL, empty when reading from file.
func SourceURL() string { return GetString(KeySourceURL) }
