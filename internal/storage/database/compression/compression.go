// Package compression provides lz4 block compression for state store values.
package compression

import (
	"fmt"

	"github.com/pierrec/lz4"
)

// LZ4Compressor implements LZ4 block compression.
type LZ4Compressor struct{}

// Compress compresses data using LZ4.
func (c *LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}

	// Allocate buffer for compressed data
	maxSize := lz4.CompressBlockBound(len(data))
	compressed := make([]byte, maxSize)

	compressedSize, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	// A zero size means the block was incompressible.
	if compressedSize == 0 {
		return nil, errIncompressible
	}

	// Return only the used portion
	return compressed[:compressedSize], nil
}

// DecompressSize decompresses LZ4 data whose original size is known. Stored
// values carry the size alongside the payload, so no growth retries are
// needed.
func (c *LZ4Compressor) DecompressSize(data []byte, originalSize int) ([]byte, error) {
	if originalSize < 0 {
		return nil, fmt.Errorf("lz4: negative original size %d", originalSize)
	}
	decompressed := make([]byte, originalSize)
	n, err := lz4.UncompressBlock(data, decompressed)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}
	return decompressed[:n], nil
}

var errIncompressible = fmt.Errorf("lz4: data is incompressible")

// IsIncompressible reports whether a Compress error means the input could
// not be shrunk, in which case callers store the raw bytes instead.
func IsIncompressible(err error) bool {
	return err == errIncompressible
}
