package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ralt/updatelist/internal/scanner"
	"github.com/ulikunitz/xz"
)

// OpenDecompressed opens a file and returns a reader over its decompressed content
func OpenDecompressed(path string, compression scanner.Compression) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch compression {
	case scanner.CompressionNone:
		return f, nil
	case scanner.CompressionGzip:
		gr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &stackedReader{Reader: gr, closers: []func() error{gr.Close, f.Close}}, nil
	case scanner.CompressionXz:
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &stackedReader{Reader: xr, closers: []func() error{f.Close}}, nil
	case scanner.CompressionZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &stackedReader{Reader: zr, closers: []func() error{
			func() error { zr.Close(); return nil },
			f.Close,
		}}, nil
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported compression %s", compression)
	}
}

// stackedReader closes the decompressor and the underlying file in order
type stackedReader struct {
	io.Reader
	closers []func() error
}

func (r *stackedReader) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
