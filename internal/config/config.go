package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/contactkeval/range-touch/internal/simulation"
)

// ErrInvalidConfig is wrapped by every validation failure that is not a
// simulation parameter problem.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix prefixes environment overrides, e.g. RANGE_TOUCH_SIMULATION_ATR.
const EnvPrefix = "RANGE_TOUCH"

type Config struct {
	Simulation simulation.Params `mapstructure:"simulation"`
	Engine     simulation.Config `mapstructure:"engine"`
	Report     ReportConfig      `mapstructure:"report"`
	Server     ServerConfig      `mapstructure:"server"`
	Verbosity  int               `mapstructure:"verbosity"` // 0=errors,1=info,2=debug,3=trace
}

type ReportConfig struct {
	Dir         string  `mapstructure:"dir"`
	SamplePaths int     `mapstructure:"sample_paths"` // paths kept for charts and paths.csv, 0 = all
	Confidence  float64 `mapstructure:"confidence"`   // confidence level of the probability intervals
}

type ServerConfig struct {
	Addr          string `mapstructure:"addr"`
	MaxIterations int    `mapstructure:"max_iterations"`
	MaxDays       int    `mapstructure:"max_days"`
}

const (
	DefaultCurrentPrice  = 100.0
	DefaultATR           = 5.0
	DefaultRangePrice    = 15.0
	DefaultDays          = 15
	DefaultIterations    = 100000
	DefaultReportDir     = "./out"
	DefaultSamplePaths   = 50
	DefaultConfidence    = 0.95
	DefaultAddr          = ":8080"
	DefaultMaxIterations = 1000000
	DefaultMaxDays       = 365
	DefaultVerbosity     = 1
)

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"simulation.current_price": DefaultCurrentPrice,
		"simulation.atr":           DefaultATR,
		"simulation.range_price":   DefaultRangePrice,
		"simulation.days":          DefaultDays,
		"simulation.iterations":    DefaultIterations,
		"engine.seed":              0,
		"engine.workers":           runtime.NumCPU(),
		"engine.chunk_size":        simulation.DefaultChunkSize,
		"report.dir":               DefaultReportDir,
		"report.sample_paths":      DefaultSamplePaths,
		"report.confidence":        DefaultConfidence,
		"server.addr":              DefaultAddr,
		"server.max_iterations":    DefaultMaxIterations,
		"server.max_days":          DefaultMaxDays,
		"verbosity":                DefaultVerbosity,
	}
}

// Load reads the config file at path (JSON, YAML or TOML by extension),
// fills in defaults and applies RANGE_TOUCH_* environment overrides.
// An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration without touching the
// filesystem or environment.
func Default() *Config {
	return &Config{
		Simulation: simulation.Params{
			CurrentPrice: DefaultCurrentPrice,
			ATR:          DefaultATR,
			RangePrice:   DefaultRangePrice,
			Days:         DefaultDays,
			Iterations:   DefaultIterations,
		},
		Engine: simulation.Config{
			Workers:   runtime.NumCPU(),
			ChunkSize: simulation.DefaultChunkSize,
		},
		Report: ReportConfig{
			Dir:         DefaultReportDir,
			SamplePaths: DefaultSamplePaths,
			Confidence:  DefaultConfidence,
		},
		Server: ServerConfig{
			Addr:          DefaultAddr,
			MaxIterations: DefaultMaxIterations,
			MaxDays:       DefaultMaxDays,
		},
		Verbosity: DefaultVerbosity,
	}
}

func (c *Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("%w: engine.workers must be >= 0", ErrInvalidConfig)
	}
	if c.Engine.ChunkSize < 0 {
		return fmt.Errorf("%w: engine.chunk_size must be >= 0", ErrInvalidConfig)
	}
	if c.Report.Dir == "" {
		return fmt.Errorf("%w: report.dir is empty", ErrInvalidConfig)
	}
	if c.Report.SamplePaths < 0 {
		return fmt.Errorf("%w: report.sample_paths must be >= 0", ErrInvalidConfig)
	}
	if c.Report.Confidence <= 0 || c.Report.Confidence >= 1 {
		return fmt.Errorf("%w: report.confidence must be in (0, 1)", ErrInvalidConfig)
	}
	if c.Server.MaxIterations <= 0 {
		return fmt.Errorf("%w: server.max_iterations must be positive", ErrInvalidConfig)
	}
	if c.Server.MaxDays <= 0 {
		return fmt.Errorf("%w: server.max_days must be positive", ErrInvalidConfig)
	}
	return nil
}
