package config

import (
	"github.com/ajitpratap0/columnar/pkg/compression"
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/logger"
	"github.com/ajitpratap0/columnar/pkg/observability"
)

// Config is the complete configuration of the column tools. Each section
// maps onto the configuration type of the package it drives.
type Config struct {
	Column  ColumnConfig         `yaml:"column" mapstructure:"column"`
	Codec   compression.Config   `yaml:"codec" mapstructure:"codec"`
	Logging logger.Config        `yaml:"logging" mapstructure:"logging"`
	Tracing observability.Config `yaml:"tracing" mapstructure:"tracing"`
	Bench   BenchConfig          `yaml:"bench" mapstructure:"bench"`
}

// ColumnConfig sizes freshly created columns.
type ColumnConfig struct {
	// ReserveRows is passed to Reserve on every new column. Zero disables
	// reservation.
	ReserveRows int `yaml:"reserve_rows" mapstructure:"reserve_rows"`
	// ReserveBytes is the per-row byte estimate for binary columns.
	ReserveBytes int `yaml:"reserve_bytes" mapstructure:"reserve_bytes"`
}

// BenchConfig drives the synthetic workload of colbench.
type BenchConfig struct {
	Rows      int     `yaml:"rows" mapstructure:"rows"`
	Seed      int64   `yaml:"seed" mapstructure:"seed"`
	KeepRatio float64 `yaml:"keep_ratio" mapstructure:"keep_ratio"`
	NullRatio float64 `yaml:"null_ratio" mapstructure:"null_ratio"`
	// MaxStringLen bounds generated VARCHAR values.
	MaxStringLen int `yaml:"max_string_len" mapstructure:"max_string_len"`
	Iterations   int `yaml:"iterations" mapstructure:"iterations"`

	// Output, when set, is the file the filtered chunk is written to and
	// read back from.
	Output string `yaml:"output,omitempty" mapstructure:"output"`
}

// Default returns a configuration that validates.
func Default() *Config {
	return &Config{
		Column: ColumnConfig{
			ReserveRows:  4096,
			ReserveBytes: 16,
		},
		Codec: *compression.DefaultConfig(),
		Logging: logger.Config{
			Level:       "info",
			Encoding:    "console",
			OutputPaths: []string{"stderr"},
		},
		Tracing: observability.DefaultConfig(),
		Bench: BenchConfig{
			Rows:         100_000,
			Seed:         1,
			KeepRatio:    0.5,
			NullRatio:    0.1,
			MaxStringLen: 32,
			Iterations:   3,
		},
	}
}

// Validate checks value ranges. It does not touch the filesystem.
func (c *Config) Validate() error {
	if c.Column.ReserveRows < 0 {
		return errors.New(errors.ErrorTypeValidation, "column.reserve_rows cannot be negative")
	}
	if c.Column.ReserveBytes < 0 {
		return errors.New(errors.ErrorTypeValidation, "column.reserve_bytes cannot be negative")
	}
	if _, err := compression.ParseAlgorithm(string(c.Codec.Algorithm)); err != nil {
		return err
	}
	if c.Codec.Level < 0 || c.Codec.Level > compression.Best {
		return errors.Newf(errors.ErrorTypeValidation, "codec.level must be between 0 and %d", compression.Best)
	}
	if c.Codec.Concurrency < 0 {
		return errors.New(errors.ErrorTypeValidation, "codec.concurrency cannot be negative")
	}
	switch c.Tracing.Exporter {
	case "", "none", "stdout":
	default:
		return errors.Newf(errors.ErrorTypeValidation, "unknown tracing exporter %q", c.Tracing.Exporter)
	}
	if !unitRange(c.Tracing.SamplingRate) {
		return errors.New(errors.ErrorTypeValidation, "tracing.sampling_rate must be between 0 and 1")
	}
	if c.Bench.Rows <= 0 {
		return errors.New(errors.ErrorTypeValidation, "bench.rows must be positive")
	}
	if !unitRange(c.Bench.KeepRatio) {
		return errors.New(errors.ErrorTypeValidation, "bench.keep_ratio must be between 0 and 1")
	}
	if !unitRange(c.Bench.NullRatio) {
		return errors.New(errors.ErrorTypeValidation, "bench.null_ratio must be between 0 and 1")
	}
	if c.Bench.MaxStringLen < 0 {
		return errors.New(errors.ErrorTypeValidation, "bench.max_string_len cannot be negative")
	}
	if c.Bench.Iterations <= 0 {
		return errors.New(errors.ErrorTypeValidation, "bench.iterations must be positive")
	}
	return nil
}

func unitRange(v float64) bool { return v >= 0 && v <= 1 }
