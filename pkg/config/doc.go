// Package config loads the configuration of the column tools.
//
// A single Config groups one section per package it drives:
//   - Column: reservation hints for newly created columns
//   - Codec: the compression algorithm, level and page concurrency used by
//     the chunk codec
//   - Logging: the zap logger
//   - Tracing: the OpenTelemetry exporter
//   - Bench: the synthetic workload of colbench
//
// # Loading
//
// Load starts from Default, overlays a YAML file and finally applies
// environment overrides. Any key can be overridden with its upper case path
// joined by underscores and prefixed with COLUMNAR:
//
//	COLUMNAR_CODEC_ALGORITHM=zstd COLUMNAR_BENCH_ROWS=1000000 colbench run
//
// The file itself may reference variables with ${VAR_NAME}:
//
//	codec:
//	  algorithm: ${CODEC}
//	  level: 9
//
// The loaded configuration is validated before it is returned.
package config
