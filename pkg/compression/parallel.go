package compression

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// CompressAll compresses every page with comp, running at most workers
// compressions at once. The result is index aligned with pages.
func CompressAll(ctx context.Context, comp Compressor, pages [][]byte, workers int) ([][]byte, error) {
	return runAll(ctx, comp.Compress, pages, workers)
}

// DecompressAll is the inverse of CompressAll.
func DecompressAll(ctx context.Context, comp Compressor, pages [][]byte, workers int) ([][]byte, error) {
	return runAll(ctx, comp.Decompress, pages, workers)
}

func runAll(ctx context.Context, fn func([]byte) ([]byte, error), pages [][]byte, workers int) ([][]byte, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	out := make([][]byte, len(pages))
	if len(pages) <= 1 || workers == 1 {
		for i, p := range pages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r, err := fn(p)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range pages {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(p)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
