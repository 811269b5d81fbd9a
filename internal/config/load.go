// Package config loads harness settings from file, environment and defaults.
// Settings are read once before a run starts; nothing re-reads them while
// benchmarks execute, so knobs cannot change mid-measurement.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kirbyfan64/Celero/internal/stats"
)

// Settings carries everything outside the public registration API: the
// adaptive stopping rule, archive backend, telemetry and logging.
type Settings struct {
	Verbose bool
	LogFile string

	AdaptiveMinSamples int
	AdaptiveMaxSamples int
	AdaptiveRelStdErr  float64

	ArchiveBackend string
	ArchiveFile    string
	ArchiveDSN     string

	// RegressionThreshold is the mean-time percentage increase treated as
	// a regression when comparing against the archived run.
	RegressionThreshold float64

	MetricsAddr string
}

// Load initializes viper and returns the effective settings. cfgFile
// overrides the default search for ./celero.yaml; environment variables use
// the CELERO_ prefix (dots become underscores).
func Load(cfgFile string) Settings {
	// explicit .env loading; a missing file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("celero")
	}

	viper.SetEnvPrefix("CELERO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("verbose", false)
	viper.SetDefault("log_file", "")
	viper.SetDefault("adaptive.min_samples", stats.DefaultMinSamples)
	viper.SetDefault("adaptive.max_samples", stats.DefaultMaxSamples)
	viper.SetDefault("adaptive.rel_stderr", stats.DefaultRelStdErr)
	viper.SetDefault("archive.backend", "file")
	viper.SetDefault("archive.file", ".celero/history.json")
	viper.SetDefault("archive.dsn", "")
	viper.SetDefault("regression_threshold", 10.0)
	viper.SetDefault("metrics_addr", "")

	// Missing config file is not an error; defaults and env apply.
	_ = viper.ReadInConfig()

	return Settings{
		Verbose:             viper.GetBool("verbose"),
		LogFile:             viper.GetString("log_file"),
		AdaptiveMinSamples:  viper.GetInt("adaptive.min_samples"),
		AdaptiveMaxSamples:  viper.GetInt("adaptive.max_samples"),
		AdaptiveRelStdErr:   viper.GetFloat64("adaptive.rel_stderr"),
		ArchiveBackend:      viper.GetString("archive.backend"),
		ArchiveFile:         viper.GetString("archive.file"),
		ArchiveDSN:          viper.GetString("archive.dsn"),
		RegressionThreshold: viper.GetFloat64("regression_threshold"),
		MetricsAddr:         viper.GetString("metrics_addr"),
	}
}

// Adaptive converts the settings into the sampler configuration.
func (s Settings) Adaptive() stats.AdaptiveConfig {
	return stats.AdaptiveConfig{
		MinSamples: s.AdaptiveMinSamples,
		MaxSamples: s.AdaptiveMaxSamples,
		RelStdErr:  s.AdaptiveRelStdErr,
	}
}
