package chunk

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/columnar/pkg/column"
	"github.com/ajitpratap0/columnar/pkg/compression"
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/logger"
	"github.com/ajitpratap0/columnar/pkg/metrics"
	"github.com/ajitpratap0/columnar/pkg/observability"
	"github.com/ajitpratap0/columnar/pkg/pool"
	"github.com/ajitpratap0/columnar/pkg/types"
)

// Encoded chunk layout. Header integers are little endian.
//
//	magic      "CCK1"
//	order      uint8    byte order of fixed-width pages (1 little, 2 big)
//	algorithm  uint8 length + name
//	columns    uint16
//	rows       uint32
//	per column:
//	  name     uint16 length + bytes
//	  type     uint8    logical type
//	  flags    uint8    bit 0 nullable
//	  delete   uint8    delete state
//	  raw      uint32   page length before compression
//	  packed   uint32   page length after compression
//	  page     packed bytes
//
// A page holds the null flags first when the column is nullable. Binary
// columns continue with rows+1 little endian offsets and the payload; fixed
// columns with their packed values in host order.
const magic = "CCK1"

const (
	orderLittle uint8 = 1
	orderBig    uint8 = 2

	flagNullable uint8 = 1

	maxColumns = 1<<16 - 1
)

var hostOrder = func() uint8 {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return orderLittle
	}
	return orderBig
}()

// Codec serializes chunks to the page format. It is safe for concurrent
// use.
type Codec struct {
	cfg  compression.Config
	comp compression.Compressor
}

// NewCodec creates a codec compressing with cfg, or with
// compression.DefaultConfig when cfg is nil.
func NewCodec(cfg *compression.Config) (*Codec, error) {
	if cfg == nil {
		cfg = compression.DefaultConfig()
	}
	comp, err := compression.NewCompressor(cfg)
	if err != nil {
		return nil, err
	}
	return &Codec{cfg: *cfg, comp: comp}, nil
}

// Algorithm returns the algorithm used by Encode.
func (c *Codec) Algorithm() compression.Algorithm { return c.comp.Algorithm() }

// Encode writes ch to w and returns the number of bytes written.
func (c *Codec) Encode(ctx context.Context, w io.Writer, ch *Chunk) (n int64, err error) {
	algo := c.comp.Algorithm()
	ctx, span := observability.StartSpan(ctx, "chunk.Encode",
		attribute.String("algorithm", string(algo)),
		attribute.Int("rows", ch.NumRows()),
		attribute.Int("columns", ch.NumColumns()))
	defer func() { observability.EndSpan(span, err) }()

	if ch.NumColumns() > maxColumns {
		return 0, errors.Newf(errors.ErrorTypeValidation, "%d columns exceed the limit of %d", ch.NumColumns(), maxColumns)
	}
	timer := metrics.NewTimer("encode")
	defer timer.ObserveDuration()

	raw := make([][]byte, ch.NumColumns())
	for i, col := range ch.columns {
		raw[i] = encodePage(col)
	}
	packed, err := runPages(ctx, compression.CompressAll, c.comp, raw, c.cfg.Concurrency)
	if err != nil {
		return 0, err
	}

	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	var scratch []byte
	scratch = append(scratch, magic...)
	scratch = append(scratch, hostOrder, uint8(len(algo)))
	scratch = append(scratch, algo...)
	scratch = binary.LittleEndian.AppendUint16(scratch, uint16(ch.NumColumns()))
	scratch = binary.LittleEndian.AppendUint32(scratch, uint32(ch.NumRows()))
	buf.Write(scratch)

	for i, f := range ch.schema.Fields {
		scratch = scratch[:0]
		scratch = binary.LittleEndian.AppendUint16(scratch, uint16(len(f.Name)))
		scratch = append(scratch, f.Name...)
		var flags uint8
		if f.Nullable {
			flags |= flagNullable
		}
		scratch = append(scratch, uint8(f.Type), flags, uint8(ch.columns[i].DeleteState()))
		scratch = binary.LittleEndian.AppendUint32(scratch, uint32(len(raw[i])))
		scratch = binary.LittleEndian.AppendUint32(scratch, uint32(len(packed[i])))
		buf.Write(scratch)
		buf.Write(packed[i])
	}

	written, err := w.Write(buf.Bytes())
	n = int64(written)
	if err != nil {
		return n, errors.Wrap(err, errors.ErrorTypeInternal, "write encoded chunk")
	}
	metrics.CodecBytes.WithLabelValues("encode", string(algo)).Add(float64(n))
	logger.WithContext(ctx).Debug("encoded chunk",
		zap.Int("rows", ch.NumRows()),
		zap.Int64("bytes", n),
		zap.String("algorithm", string(algo)))
	return n, nil
}

func encodePage(col column.Column) []byte {
	var page []byte
	data := col
	if nc, ok := col.(*column.NullableColumn); ok {
		page = append(page, nc.NullFlags()...)
		data = nc.DataColumn()
	}
	switch d := data.(type) {
	case *column.BinaryColumn:
		payload := d.Bytes()
		offsets := d.Offsets()
		page = growPage(page, len(offsets)*column.OffsetSize+len(payload))
		for _, off := range offsets {
			page = binary.LittleEndian.AppendUint32(page, off)
		}
		return append(page, payload...)
	case rawColumn:
		return append(page, d.RawBytes()...)
	}
	panic(errors.Newf(errors.ErrorTypeCapability, "cannot encode %T", data))
}

func growPage(page []byte, n int) []byte {
	if cap(page)-len(page) >= n {
		return page
	}
	grown := make([]byte, len(page), len(page)+n)
	copy(grown, page)
	return grown
}

// Decode reads one chunk written by Encode. The algorithm is taken from
// the input, so any codec decodes any encoded chunk.
func (c *Codec) Decode(ctx context.Context, r io.Reader) (ch *Chunk, err error) {
	ctx, span := observability.StartSpan(ctx, "chunk.Decode")
	defer func() { observability.EndSpan(span, err) }()

	timer := metrics.NewTimer("decode")
	defer timer.ObserveDuration()

	in := &pageReader{r: bufio.NewReader(r)}
	if string(in.bytes(len(magic))) != magic {
		return nil, corrupt(in.err, "bad magic")
	}
	order := in.u8()
	algo := compression.Algorithm(in.bytes(int(in.u8())))
	ncols := int(in.u16())
	rows := int(in.u32())
	if in.err != nil {
		return nil, corrupt(in.err, "truncated header")
	}
	if order != orderLittle && order != orderBig {
		return nil, corrupt(nil, "unknown byte order")
	}
	comp, err := c.compressorFor(algo)
	if err != nil {
		return nil, corrupt(err, "unknown algorithm")
	}

	fields := make([]Field, ncols)
	deletes := make([]column.DeleteState, ncols)
	rawLens := make([]int, ncols)
	packed := make([][]byte, ncols)
	total := int64(in.n)
	for i := range fields {
		name := string(in.bytes(int(in.u16())))
		lt := types.LogicalType(in.u8())
		flags := in.u8()
		del := column.DeleteState(in.u8())
		rawLen := int64(in.u32())
		packedLen := int64(in.u32())
		if in.err != nil {
			return nil, corrupt(in.err, "truncated column header")
		}
		if rawLen > compression.MaxDecompressedSize || packedLen > compression.MaxDecompressedSize {
			return nil, corrupt(nil, "page too large")
		}
		if !lt.Valid() {
			return nil, corrupt(nil, "invalid logical type")
		}
		if del > column.DelSatisfied {
			return nil, corrupt(nil, "invalid delete state")
		}
		if !lt.IsBinary() && order != hostOrder {
			return nil, errors.Newf(errors.ErrorTypeData, "column %q was encoded in foreign byte order", name)
		}
		page := in.bytes(int(packedLen))
		if in.err != nil {
			return nil, corrupt(in.err, "truncated page")
		}
		fields[i] = Field{Name: name, Type: lt, Nullable: flags&flagNullable != 0}
		deletes[i] = del
		rawLens[i] = int(rawLen)
		packed[i] = page
		total = int64(in.n)
	}

	schema := NewSchema(fields...)
	if err := schema.Validate(); err != nil {
		return nil, corrupt(err, "invalid schema")
	}

	raw, err := runPages(ctx, compression.DecompressAll, comp, packed, c.cfg.Concurrency)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, corrupt(err, "page decompression")
	}
	cols := make([]column.Column, ncols)
	for i, f := range fields {
		if len(raw[i]) != rawLens[i] {
			return nil, errors.Newf(errors.ErrorTypeData,
				"column %q: page is %d bytes, header says %d", f.Name, len(raw[i]), rawLens[i])
		}
		col, err := decodePage(f, rows, raw[i])
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "column "+f.Name)
		}
		col.SetDeleteState(deletes[i])
		cols[i] = col
	}

	ch, err = FromColumns(schema, cols)
	if err != nil {
		return nil, corrupt(err, "inconsistent columns")
	}
	metrics.CodecBytes.WithLabelValues("decode", string(algo)).Add(float64(total))
	logger.WithContext(ctx).Debug("decoded chunk",
		zap.Int("rows", rows),
		zap.Int64("bytes", total),
		zap.String("algorithm", string(algo)))
	return ch, nil
}

type pageFunc func(context.Context, compression.Compressor, [][]byte, int) ([][]byte, error)

// runPages applies fn to the non-empty pages. Empty pages stay empty in
// both directions.
func runPages(ctx context.Context, fn pageFunc, comp compression.Compressor, pages [][]byte, workers int) ([][]byte, error) {
	idx := make([]int, 0, len(pages))
	work := make([][]byte, 0, len(pages))
	for i, p := range pages {
		if len(p) > 0 {
			idx = append(idx, i)
			work = append(work, p)
		}
	}
	done, err := fn(ctx, comp, work, workers)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(pages))
	for j, i := range idx {
		out[i] = done[j]
	}
	return out, nil
}

func (c *Codec) compressorFor(algo compression.Algorithm) (compression.Compressor, error) {
	if algo == c.comp.Algorithm() {
		return c.comp, nil
	}
	if _, err := compression.ParseAlgorithm(string(algo)); err != nil {
		return nil, err
	}
	return compression.NewCompressor(&compression.Config{Algorithm: algo, Level: compression.Default})
}

func decodePage(f Field, rows int, page []byte) (column.Column, error) {
	var flags []byte
	if f.Nullable {
		if len(page) < rows {
			return nil, errors.New(errors.ErrorTypeData, "page shorter than its null flags")
		}
		flags, page = page[:rows], page[rows:]
	}

	var data column.Column
	if f.Type.IsBinary() {
		need := (rows + 1) * column.OffsetSize
		if len(page) < need {
			return nil, errors.New(errors.ErrorTypeData, "page shorter than its offsets")
		}
		offsets := make([]column.Offset, rows+1)
		for i := range offsets {
			offsets[i] = binary.LittleEndian.Uint32(page[i*column.OffsetSize:])
		}
		bc, err := column.NewBinaryFrom(f.Type, page[need:], offsets)
		if err != nil {
			return nil, err
		}
		data = bc
	} else {
		if types.TraitOf(f.Type).Physical == types.KindBool {
			for _, b := range page {
				if b > 1 {
					return nil, errors.New(errors.ErrorTypeData, "invalid boolean byte")
				}
			}
		}
		data = column.New(f.Type, false)
		n, err := data.AppendNumbers(page)
		if err != nil {
			return nil, err
		}
		if n != rows {
			return nil, errors.Newf(errors.ErrorTypeData, "page holds %d rows, expected %d", n, rows)
		}
	}

	if !f.Nullable {
		return data, nil
	}
	nulls := column.NewNullColumn()
	if _, err := nulls.AppendNumbers(flags); err != nil {
		return nil, err
	}
	return column.NewNullable(data, nulls), nil
}

func corrupt(cause error, msg string) error {
	if cause == nil {
		return errors.New(errors.ErrorTypeData, "corrupt chunk: "+msg)
	}
	return errors.Wrap(cause, errors.ErrorTypeData, "corrupt chunk: "+msg)
}

// pageReader reads little endian fields and remembers the first error.
type pageReader struct {
	r   io.Reader
	n   int
	err error
	buf [4]byte
}

func (p *pageReader) bytes(n int) []byte {
	if p.err != nil {
		return nil
	}
	out := make([]byte, n)
	read, err := io.ReadFull(p.r, out)
	p.n += read
	if err != nil {
		p.err = err
		return nil
	}
	return out
}

func (p *pageReader) fill(n int) []byte {
	if p.err != nil {
		return p.buf[:n]
	}
	read, err := io.ReadFull(p.r, p.buf[:n])
	p.n += read
	if err != nil {
		p.err = err
		clear(p.buf[:])
	}
	return p.buf[:n]
}

func (p *pageReader) u8() uint8 { return p.fill(1)[0] }

func (p *pageReader) u16() uint16 { return binary.LittleEndian.Uint16(p.fill(2)) }

func (p *pageReader) u32() uint32 { return binary.LittleEndian.Uint32(p.fill(4)) }
