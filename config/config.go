package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RIDEPULSE_LOAD_STRICT.
const EnvPrefix = "RIDEPULSE"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full ridepulse configuration.
type Config struct {
	Source    SourceConfig    `mapstructure:"source"`
	Load      LoadConfig      `mapstructure:"load"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Export    ExportConfig    `mapstructure:"export"`
}

// SourceConfig selects the booking feed.
type SourceConfig struct {
	Path       string `mapstructure:"path"`   // local path or s3://bucket/key
	Region     string `mapstructure:"region"` // AWS region for s3 sources
	Sample     int    `mapstructure:"sample" validate:"gte=0,lte=1000000"`
	SampleSeed int64  `mapstructure:"sample-seed"`
}

// LoadConfig controls the CSV loader.
type LoadConfig struct {
	Strict    bool `mapstructure:"strict"`
	ChunkSize int  `mapstructure:"chunk-size" validate:"gte=1"`
	MaxErrors int  `mapstructure:"max-errors" validate:"gte=1"`
	Progress  bool `mapstructure:"progress"`
}

// MetricsConfig tunes the derived panels.
type MetricsConfig struct {
	TopN          int     `mapstructure:"top-n" validate:"gte=1,lte=100"`
	HistogramBins int     `mapstructure:"histogram-bins" validate:"gte=1,lte=500"`
	Percentile    float64 `mapstructure:"percentile" validate:"gt=0,lte=1"`
	TableRows     int     `mapstructure:"table-rows" validate:"gte=0"`
}

// DashboardConfig sizes the per-section caches.
type DashboardConfig struct {
	CacheSize int           `mapstructure:"cache-size" validate:"gte=1"`
	Sections  []string      `mapstructure:"sections" validate:"min=1,dive,required"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level    string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format   string `mapstructure:"format" validate:"oneof=json text"`
	Output   string `mapstructure:"output" validate:"oneof=stderr stdout file"`
	FilePath string `mapstructure:"file-path" validate:"required_if=Output file"`
}

// ExportConfig controls report and dataset exports.
type ExportConfig struct {
	Format string `mapstructure:"format" validate:"oneof=json csv xlsx parquet"`
	Path   string `mapstructure:"path"`
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
	Region string `mapstructure:"region"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source.path", "")
	v.SetDefault("source.region", "")
	v.SetDefault("source.sample", 0)
	v.SetDefault("source.sample-seed", 42)
	v.SetDefault("load.strict", false)
	v.SetDefault("load.chunk-size", 1000)
	v.SetDefault("load.max-errors", 10)
	v.SetDefault("load.progress", true)
	v.SetDefault("metrics.top-n", 10)
	v.SetDefault("metrics.histogram-bins", 30)
	v.SetDefault("metrics.percentile", 0.95)
	v.SetDefault("metrics.table-rows", 0)
	v.SetDefault("dashboard.cache-size", 16)
	v.SetDefault("dashboard.sections", []string{"overview", "revenue", "operations"})
	v.SetDefault("dashboard.timeout", "30s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.file-path", "")
	v.SetDefault("export.format", "json")
	v.SetDefault("export.path", "")
	v.SetDefault("export.bucket", "")
	v.SetDefault("export.prefix", "")
	v.SetDefault("export.region", "")
}

// Load reads configuration from defaults, an optional file, and the
// environment, in increasing priority. Flags bound on v take precedence.
// An empty cfgFile looks for ridepulse.{yaml,json} in the working directory
// and $HOME/.ridepulse, and tolerates its absence.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("ridepulse")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.ridepulse")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	decoderConfigOption := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
