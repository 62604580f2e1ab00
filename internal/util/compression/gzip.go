package compression

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipCompressor stores blobs in gzip framing, readable by any gzip tool.
type GzipCompressor struct {
	// Level is a gzip level; zero means gzip.DefaultCompression.
	Level int
}

func (g GzipCompressor) Compress(data []byte) ([]byte, error) {
	level := g.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}

	var b bytes.Buffer
	writer, err := gzip.NewWriterLevel(&b, level)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (g GzipCompressor) Decompress(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}
