// Package columnar is a set of in-memory column primitives for query
// execution: a registry of logical types and their physical layout,
// growable fixed-width, variable-length and nullable columns, shared
// column handles, and row-aligned chunks that can be filtered, encoded
// into compressed pages and exchanged with Apache Arrow.
//
// # Key Packages
//
//	pkg/types         - Logical types, physical kinds and wide value types
//	pkg/column        - Fixed, binary and nullable columns; shared Ptr handles
//	pkg/chunk         - Schemas, chunks, the page codec, Arrow and JSON output
//	pkg/compression   - Pluggable page compressors (gzip, snappy, lz4, zstd, s2, deflate)
//	pkg/mmap          - Memory-mapped reads of encoded chunk files
//	pkg/pool          - Buffer and slice pools
//	pkg/config        - YAML configuration with environment overrides
//	pkg/errors        - Structured error handling
//	pkg/logger        - Structured logging
//	pkg/metrics       - Prometheus metrics
//	pkg/observability - OpenTelemetry tracing
//
// # Quick Start
//
//	schema := chunk.NewSchema(
//	    chunk.Field{Name: "id", Type: types.TypeBigInt},
//	    chunk.Field{Name: "name", Type: types.TypeVarchar, Nullable: true},
//	)
//	ch, _ := chunk.NewChunk(schema)
//	_ = ch.AppendRow(int64(1), []byte("a"))
//	_ = ch.AppendRow(int64(2), nil)
//
//	codec, _ := chunk.NewCodec(compression.DefaultConfig())
//	var buf bytes.Buffer
//	_, _ = codec.Encode(ctx, &buf, ch)
//	back, _ := codec.Decode(ctx, &buf)
//
// # Command Line
//
// cmd/colbench generates synthetic chunks and reports how long filtering,
// encoding, decoding and the Arrow round trip take:
//
//	colbench run --rows 1000000 --algo zstd --metrics
//	colbench run --out /tmp/bench.cck && colbench cat /tmp/bench.cck --lines
//	colbench types
//
// # Configuration
//
// Settings are read from YAML and can be overridden with COLUMNAR_
// environment variables, for example COLUMNAR_CODEC_ALGORITHM=zstd.
// ${VAR} references inside the file are expanded before parsing.
package columnar
