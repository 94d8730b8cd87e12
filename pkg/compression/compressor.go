// Package compression compresses encoded column pages.
//
// Every algorithm is exposed through the same Compressor interface. Block
// operations produce self-contained frames so that a page can be decoded
// without any surrounding context; the streaming variants are used when
// dumping whole chunks to files.
//
// # Basic Usage
//
//	comp, err := compression.NewCompressor(&compression.Config{
//	    Algorithm: compression.Zstd,
//	    Level:     compression.Default,
//	})
//	packed, err := comp.Compress(page)
//	page, err = comp.Decompress(packed)
//
// Speed (fastest to slowest): LZ4 > Snappy/S2 > Zstd > Gzip/Deflate.
// Ratio (best to worst): Zstd > Gzip/Deflate > S2 > Snappy > LZ4.
package compression

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/pool"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm names a compression algorithm.
type Algorithm string

const (
	None    Algorithm = "none"
	Gzip    Algorithm = "gzip"
	Snappy  Algorithm = "snappy"
	LZ4     Algorithm = "lz4"
	Zstd    Algorithm = "zstd"
	S2      Algorithm = "s2"
	Deflate Algorithm = "deflate"
)

// Algorithms lists every supported algorithm.
func Algorithms() []Algorithm {
	return []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2, Deflate}
}

// ParseAlgorithm resolves a case-insensitive algorithm name. The empty
// string means None.
func ParseAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return None, nil
	}
	for _, a := range Algorithms() {
		if string(a) == name {
			return a, nil
		}
	}
	return None, errors.Newf(errors.ErrorTypeValidation, "unsupported compression algorithm: %s", name)
}

// Level trades compression speed against ratio.
type Level int

const (
	Fastest Level = 1
	Default Level = 5
	Better  Level = 7
	Best    Level = 9
)

// MaxDecompressedSize bounds the output of a single Decompress call.
const MaxDecompressedSize = 1 << 30

// ErrTooLarge is returned when a frame inflates past MaxDecompressedSize.
var ErrTooLarge = errors.Sentinel(errors.ErrorTypeData, "decompressed data exceeds size limit")

// Compressor compresses and decompresses byte frames. Implementations are
// safe for concurrent use.
type Compressor interface {
	// Compress returns a compressed copy of data.
	Compress(data []byte) ([]byte, error)
	// Decompress reverses Compress.
	Decompress(data []byte) ([]byte, error)
	CompressStream(dst io.Writer, src io.Reader) error
	DecompressStream(dst io.Writer, src io.Reader) error
	Algorithm() Algorithm
	Level() Level
}

// Config selects and tunes a compressor.
type Config struct {
	Algorithm Algorithm `yaml:"algorithm" mapstructure:"algorithm"`
	Level     Level     `yaml:"level" mapstructure:"level"`
	// Concurrency bounds the number of pages compressed at once.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// DefaultConfig returns LZ4 at the default level.
func DefaultConfig() *Config {
	return &Config{
		Algorithm:   LZ4,
		Level:       Default,
		Concurrency: 4,
	}
}

// NewCompressor creates a compressor for config. A nil config selects
// DefaultConfig.
func NewCompressor(config *Config) (Compressor, error) {
	if config == nil {
		config = DefaultConfig()
	}
	base := baseCompressor{algorithm: config.Algorithm, level: config.Level}

	switch config.Algorithm {
	case None, "":
		base.algorithm = None
		return &noneCompressor{base}, nil
	case Gzip:
		return newGzipCompressor(base), nil
	case Snappy:
		return &snappyCompressor{base}, nil
	case LZ4:
		return &lz4Compressor{baseCompressor: base, compressionLevel: mapLZ4Level(config.Level)}, nil
	case Zstd:
		return newZstdCompressor(base)
	case S2:
		return &s2Compressor{base}, nil
	case Deflate:
		return &deflateCompressor{baseCompressor: base, flateLevel: mapDeflateLevel(config.Level)}, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeValidation, "unsupported compression algorithm: %s", config.Algorithm)
	}
}

// CompressorPool hands out compressors sharing one configuration.
type CompressorPool struct {
	pool   sync.Pool
	config *Config
}

// NewCompressorPool validates config and returns a pool for it.
func NewCompressorPool(config *Config) (*CompressorPool, error) {
	if config == nil {
		config = DefaultConfig()
	}
	first, err := NewCompressor(config)
	if err != nil {
		return nil, err
	}
	cp := &CompressorPool{config: config}
	cp.pool.New = func() interface{} {
		c, _ := NewCompressor(config)
		return c
	}
	cp.pool.Put(first)
	return cp, nil
}

func (cp *CompressorPool) Get() Compressor {
	return cp.pool.Get().(Compressor)
}

func (cp *CompressorPool) Put(c Compressor) {
	cp.pool.Put(c)
}

func (cp *CompressorPool) Compress(data []byte) ([]byte, error) {
	c := cp.Get()
	defer cp.Put(c)
	return c.Compress(data)
}

func (cp *CompressorPool) Decompress(data []byte) ([]byte, error) {
	c := cp.Get()
	defer cp.Put(c)
	return c.Decompress(data)
}

type baseCompressor struct {
	algorithm Algorithm
	level     Level
}

func (bc *baseCompressor) Algorithm() Algorithm { return bc.algorithm }

func (bc *baseCompressor) Level() Level { return bc.level }

// drain copies r into a pooled buffer and returns an owned copy of the
// result, failing once MaxDecompressedSize is exceeded.
func drain(r io.Reader) ([]byte, error) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	n, err := io.Copy(buf, io.LimitReader(r, MaxDecompressedSize+1))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "decompress")
	}
	if n > MaxDecompressedSize {
		return nil, ErrTooLarge
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// finish returns an owned copy of a pooled output buffer.
func finish(buf *bytes.Buffer) []byte {
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	pool.PutBuffer(buf)
	return out
}

type noneCompressor struct {
	baseCompressor
}

func (nc *noneCompressor) Compress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func (nc *noneCompressor) Decompress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func (nc *noneCompressor) CompressStream(dst io.Writer, src io.Reader) error {
	_, err := io.Copy(dst, src)
	return err
}

func (nc *noneCompressor) DecompressStream(dst io.Writer, src io.Reader) error {
	_, err := io.Copy(dst, src)
	return err
}

type gzipCompressor struct {
	baseCompressor
	writerPool sync.Pool
	readerPool sync.Pool
}

func newGzipCompressor(base baseCompressor) *gzipCompressor {
	level := mapGzipLevel(base.level)
	gc := &gzipCompressor{baseCompressor: base}
	gc.writerPool.New = func() interface{} {
		w, _ := gzip.NewWriterLevel(nil, level)
		return w
	}
	gc.readerPool.New = func() interface{} {
		return new(gzip.Reader)
	}
	return gc
}

func (gc *gzipCompressor) Compress(data []byte) ([]byte, error) {
	buf := pool.GetBuffer()
	if err := gc.CompressStream(buf, bytes.NewReader(data)); err != nil {
		pool.PutBuffer(buf)
		return nil, err
	}
	return finish(buf), nil
}

func (gc *gzipCompressor) Decompress(data []byte) ([]byte, error) {
	r := gc.readerPool.Get().(*gzip.Reader)
	defer gc.readerPool.Put(r)

	if err := r.Reset(bytes.NewReader(data)); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "gzip header")
	}
	return drain(r)
}

func (gc *gzipCompressor) CompressStream(dst io.Writer, src io.Reader) error {
	w := gc.writerPool.Get().(*gzip.Writer)
	defer gc.writerPool.Put(w)

	w.Reset(dst)
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return w.Close()
}

func (gc *gzipCompressor) DecompressStream(dst io.Writer, src io.Reader) error {
	r := gc.readerPool.Get().(*gzip.Reader)
	defer gc.readerPool.Put(r)

	if err := r.Reset(src); err != nil {
		return err
	}
	_, err := io.Copy(dst, r)
	return err
}

type snappyCompressor struct {
	baseCompressor
}

func (sc *snappyCompressor) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (sc *snappyCompressor) Decompress(data []byte) ([]byte, error) {
	n, err := snappy.DecodedLen(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "snappy frame")
	}
	if n > MaxDecompressedSize {
		return nil, ErrTooLarge
	}
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "snappy frame")
	}
	return out, nil
}

func (sc *snappyCompressor) CompressStream(dst io.Writer, src io.Reader) error {
	w := snappy.NewBufferedWriter(dst)
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return w.Close()
}

func (sc *snappyCompressor) DecompressStream(dst io.Writer, src io.Reader) error {
	_, err := io.Copy(dst, snappy.NewReader(src))
	return err
}

type lz4Compressor struct {
	baseCompressor
	compressionLevel lz4.CompressionLevel
}

func (lc *lz4Compressor) Compress(data []byte) ([]byte, error) {
	buf := pool.GetBuffer()
	if err := lc.CompressStream(buf, bytes.NewReader(data)); err != nil {
		pool.PutBuffer(buf)
		return nil, err
	}
	return finish(buf), nil
}

func (lc *lz4Compressor) Decompress(data []byte) ([]byte, error) {
	return drain(lz4.NewReader(bytes.NewReader(data)))
}

func (lc *lz4Compressor) CompressStream(dst io.Writer, src io.Reader) error {
	w := lz4.NewWriter(dst)
	if err := w.Apply(lz4.CompressionLevelOption(lc.compressionLevel)); err != nil {
		return err
	}
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return w.Close()
}

func (lc *lz4Compressor) DecompressStream(dst io.Writer, src io.Reader) error {
	_, err := io.Copy(dst, lz4.NewReader(src))
	return err
}

// zstdCompressor shares one encoder and one decoder; EncodeAll and
// DecodeAll are safe for concurrent use.
type zstdCompressor struct {
	baseCompressor
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	level   zstd.EncoderLevel
}

func newZstdCompressor(base baseCompressor) (*zstdCompressor, error) {
	level := mapZstdLevel(base.level)
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "zstd encoder")
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxDecompressedSize))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "zstd decoder")
	}
	return &zstdCompressor{baseCompressor: base, encoder: enc, decoder: dec, level: level}, nil
}

func (zc *zstdCompressor) Compress(data []byte) ([]byte, error) {
	return zc.encoder.EncodeAll(data, nil), nil
}

func (zc *zstdCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := zc.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "zstd frame")
	}
	return out, nil
}

func (zc *zstdCompressor) CompressStream(dst io.Writer, src io.Reader) error {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zc.level))
	if err != nil {
		return err
	}
	if _, err := io.Copy(enc, src); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func (zc *zstdCompressor) DecompressStream(dst io.Writer, src io.Reader) error {
	dec, err := zstd.NewReader(src)
	if err != nil {
		return err
	}
	defer dec.Close()
	_, err = io.Copy(dst, dec)
	return err
}

type s2Compressor struct {
	baseCompressor
}

func (sc *s2Compressor) Compress(data []byte) ([]byte, error) {
	if sc.level >= Better {
		return s2.EncodeBetter(nil, data), nil
	}
	return s2.Encode(nil, data), nil
}

func (sc *s2Compressor) Decompress(data []byte) ([]byte, error) {
	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "s2 frame")
	}
	if n > MaxDecompressedSize {
		return nil, ErrTooLarge
	}
	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "s2 frame")
	}
	return out, nil
}

func (sc *s2Compressor) CompressStream(dst io.Writer, src io.Reader) error {
	w := s2.NewWriter(dst)
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return w.Close()
}

func (sc *s2Compressor) DecompressStream(dst io.Writer, src io.Reader) error {
	_, err := io.Copy(dst, s2.NewReader(src))
	return err
}

type deflateCompressor struct {
	baseCompressor
	flateLevel int
}

func (dc *deflateCompressor) Compress(data []byte) ([]byte, error) {
	buf := pool.GetBuffer()
	if err := dc.CompressStream(buf, bytes.NewReader(data)); err != nil {
		pool.PutBuffer(buf)
		return nil, err
	}
	return finish(buf), nil
}

func (dc *deflateCompressor) Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	return drain(r)
}

func (dc *deflateCompressor) CompressStream(dst io.Writer, src io.Reader) error {
	w, err := flate.NewWriter(dst, dc.flateLevel)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return w.Close()
}

func (dc *deflateCompressor) DecompressStream(dst io.Writer, src io.Reader) error {
	r := flate.NewReader(src)
	defer r.Close()
	_, err := io.Copy(dst, r)
	return err
}

func mapGzipLevel(level Level) int {
	switch level {
	case Fastest:
		return gzip.BestSpeed
	case Best:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

func mapLZ4Level(level Level) lz4.CompressionLevel {
	switch level {
	case Fastest:
		return lz4.Fast
	case Best:
		return lz4.Level9
	default:
		return lz4.Level5
	}
}

func mapZstdLevel(level Level) zstd.EncoderLevel {
	switch level {
	case Fastest:
		return zstd.SpeedFastest
	case Better:
		return zstd.SpeedBetterCompression
	case Best:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

func mapDeflateLevel(level Level) int {
	switch level {
	case Fastest:
		return flate.BestSpeed
	case Best:
		return flate.BestCompression
	default:
		return flate.DefaultCompression
	}
}
