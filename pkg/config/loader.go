package config

import (
	"bytes"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

// EnvPrefix prefixes environment overrides. A key such as codec.algorithm
// is read from COLUMNAR_CODEC_ALGORITHM.
const EnvPrefix = "COLUMNAR"

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads the YAML file at path on top of Default, applies environment
// overrides and validates the result. An empty path loads defaults and
// environment only. ${VAR} references in the file are expanded before
// parsing.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to read config file")
		}
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader(substituteEnvVars(data))); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse YAML")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal YAML")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to write config file")
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can see it during
// Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("column.reserve_rows", d.Column.ReserveRows)
	v.SetDefault("column.reserve_bytes", d.Column.ReserveBytes)

	v.SetDefault("codec.algorithm", string(d.Codec.Algorithm))
	v.SetDefault("codec.level", int(d.Codec.Level))
	v.SetDefault("codec.concurrency", d.Codec.Concurrency)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.development", d.Logging.Development)
	v.SetDefault("logging.encoding", d.Logging.Encoding)
	v.SetDefault("logging.output_paths", d.Logging.OutputPaths)

	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("tracing.service_version", d.Tracing.ServiceVersion)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.sampling_rate", d.Tracing.SamplingRate)
	v.SetDefault("tracing.pretty_print", d.Tracing.PrettyPrint)

	v.SetDefault("bench.rows", d.Bench.Rows)
	v.SetDefault("bench.seed", d.Bench.Seed)
	v.SetDefault("bench.keep_ratio", d.Bench.KeepRatio)
	v.SetDefault("bench.null_ratio", d.Bench.NullRatio)
	v.SetDefault("bench.max_string_len", d.Bench.MaxStringLen)
	v.SetDefault("bench.iterations", d.Bench.Iterations)
	v.SetDefault("bench.output", d.Bench.Output)
}

// substituteEnvVars replaces ${VAR_NAME} with the variable's value. Unset
// variables expand to the empty string.
func substituteEnvVars(content []byte) []byte {
	return envRef.ReplaceAllFunc(content, func(ref []byte) []byte {
		name := envRef.FindSubmatch(ref)[1]
		return []byte(os.Getenv(string(name)))
	})
}
