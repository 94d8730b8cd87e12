// Package bench generates synthetic chunks and measures the column
// primitives on them: typed appends, filtering, the page codec and the
// arrow bridge.
package bench

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/ajitpratap0/columnar/pkg/chunk"
	"github.com/ajitpratap0/columnar/pkg/column"
	"github.com/ajitpratap0/columnar/pkg/config"
	"github.com/ajitpratap0/columnar/pkg/types"
)

var words = []string{
	"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel",
	"india", "juliet", "kilo", "lima", "mike", "november", "oscar", "papa",
}

// Schema is the layout of generated chunks. It mixes fixed and binary
// columns, nullable and not.
func Schema() *chunk.Schema {
	return chunk.NewSchema(
		chunk.Field{Name: "id", Type: types.TypeBigInt},
		chunk.Field{Name: "code", Type: types.TypeInt},
		chunk.Field{Name: "price", Type: types.TypeDecimalV2, Nullable: true},
		chunk.Field{Name: "ratio", Type: types.TypeDouble, Nullable: true},
		chunk.Field{Name: "name", Type: types.TypeVarchar, Nullable: true},
		chunk.Field{Name: "payload", Type: types.TypeVarbinary},
		chunk.Field{Name: "day", Type: types.TypeDateV1},
		chunk.Field{Name: "active", Type: types.TypeBoolean},
	)
}

// Generator produces deterministic chunks for a seed.
type Generator struct {
	cfg config.BenchConfig
	rng *rand.Rand
}

func NewGenerator(cfg config.BenchConfig) *Generator {
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// Chunk generates rows rows of Schema. reserve is forwarded to
// Chunk.Reserve before appending.
func (g *Generator) Chunk(rows int, reserve config.ColumnConfig) (*chunk.Chunk, error) {
	ch, err := chunk.NewChunk(Schema())
	if err != nil {
		return nil, err
	}
	if reserve.ReserveRows > 0 {
		ch.Reserve(reserve.ReserveRows, reserve.ReserveBytes)
	}
	for i := 0; i < rows; i++ {
		if err := ch.AppendRow(g.row(i)...); err != nil {
			return nil, err
		}
	}
	return ch, nil
}

func (g *Generator) row(i int) []interface{} {
	return []interface{}{
		int64(i),
		int32(g.rng.Intn(1000)),
		g.nullable(types.DecimalV2{Value: types.Int128FromInt64(g.rng.Int63n(1_000_000_000_000))}),
		g.nullable(g.rng.Float64()),
		g.nullable(g.name()),
		g.payload(),
		types.NewUint24(uint32(g.rng.Intn(1 << 24))),
		g.rng.Intn(2) == 0,
	}
}

func (g *Generator) nullable(v interface{}) interface{} {
	if g.rng.Float64() < g.cfg.NullRatio {
		return nil
	}
	return v
}

func (g *Generator) name() string {
	if g.cfg.MaxStringLen == 0 {
		return ""
	}
	limit := g.rng.Intn(g.cfg.MaxStringLen + 1)
	var b strings.Builder
	for b.Len() < limit {
		if b.Len() > 0 {
			b.WriteByte('-')
		}
		b.WriteString(words[g.rng.Intn(len(words))])
	}
	b.WriteString(strconv.Itoa(g.rng.Intn(100)))
	s := b.String()
	if len(s) > g.cfg.MaxStringLen {
		s = s[:g.cfg.MaxStringLen]
	}
	return s
}

func (g *Generator) payload() []byte {
	p := make([]byte, 1+g.rng.Intn(16))
	g.rng.Read(p)
	return p
}

// Selection returns a filter keeping each row with probability KeepRatio.
func (g *Generator) Selection(rows int) column.Filter {
	sel := make(column.Filter, rows)
	for i := range sel {
		if g.rng.Float64() < g.cfg.KeepRatio {
			sel[i] = 1
		}
	}
	return sel
}
