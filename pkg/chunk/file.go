package chunk

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/mmap"
)

// WriteFile encodes ch into path, replacing any existing file. The data
// is written to a temporary file in the same directory first and renamed
// into place once complete.
func (c *Codec) WriteFile(ctx context.Context, path string, ch *Chunk) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeFile, "create chunk file")
	}
	defer os.Remove(tmp.Name())

	n, err := c.Encode(ctx, tmp, ch)
	if err != nil {
		tmp.Close()
		return n, err
	}
	if err := tmp.Close(); err != nil {
		return n, errors.Wrap(err, errors.ErrorTypeFile, "close chunk file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return n, errors.Wrap(err, errors.ErrorTypeFile, "rename chunk file")
	}
	return n, nil
}

// ReadFile maps path into memory and decodes the chunk it holds. The
// returned chunk owns its buffers; nothing refers to the mapping once
// ReadFile returns.
func (c *Codec) ReadFile(ctx context.Context, path string) (*Chunk, error) {
	r, err := mmap.NewReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return c.Decode(ctx, r.NewSectionReader())
}
