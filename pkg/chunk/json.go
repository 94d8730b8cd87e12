package chunk

import (
	"bufio"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/pool"
	cstrings "github.com/ajitpratap0/columnar/pkg/strings"
)

// MarshalJSON renders the chunk as an array of row objects with keys in
// schema order. Character data is written as strings and other binary data
// as base64. Values wider than 64 bits, decimals and DATE_V1 are written as
// their decimal string. Nulls become null.
func (ch *Chunk) MarshalJSON() ([]byte, error) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	buf.WriteByte('[')
	for r := 0; r < ch.NumRows(); r++ {
		if r > 0 {
			buf.WriteByte(',')
		}
		row, err := ch.appendRowJSON(nil, r)
		if err != nil {
			return nil, err
		}
		buf.Write(row)
	}
	buf.WriteByte(']')
	return append([]byte(nil), buf.Bytes()...), nil
}

// WriteJSONLines writes one JSON object per row, each followed by a
// newline.
func (ch *Chunk) WriteJSONLines(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var line []byte
	for r := 0; r < ch.NumRows(); r++ {
		var err error
		line, err = ch.appendRowJSON(line[:0], r)
		if err != nil {
			return err
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "write json row")
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "flush json rows")
	}
	return nil
}

func (ch *Chunk) appendRowJSON(dst []byte, r int) ([]byte, error) {
	dst = append(dst, '{')
	for i, f := range ch.schema.Fields {
		if i > 0 {
			dst = append(dst, ',')
		}
		key, err := gojson.Marshal(f.Name)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "marshal field name")
		}
		dst = append(dst, key...)
		dst = append(dst, ':')

		value, err := gojson.Marshal(jsonValue(f, ch.columns[i].Get(r)))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData,
				fmt.Sprintf("marshal row %d field %q", r, f.Name))
		}
		dst = append(dst, value...)
	}
	return append(dst, '}'), nil
}

func jsonValue(f Field, v interface{}) interface{} {
	switch d := v.(type) {
	case nil:
		return nil
	case []byte:
		if f.Type.IsString() {
			return cstrings.BytesToString(d)
		}
		return d
	case fmt.Stringer:
		return d.String()
	}
	return v
}
