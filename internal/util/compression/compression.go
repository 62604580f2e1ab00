// Package compression provides the codecs used for stored draft content.
package compression

import "fmt"

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// New returns the compressor registered under name ("zstd" or "gzip").
func New(name string) (Compressor, error) {
	switch name {
	case "zstd":
		return ZstdCompressor{}, nil
	case "gzip":
		return GzipCompressor{}, nil
	}
	return nil, fmt.Errorf("unknown compressor %q", name)
}
