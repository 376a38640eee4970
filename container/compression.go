package container

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType selects how a container payload is stored.
type CompressionType uint8

const (
	// CompressionNone stores the payload as is.
	CompressionNone CompressionType = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD CompressionType = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("CompressionType(%d)", uint8(c))
	}
}

// ParseCompression maps "none", "lz4" or "zstd" to a CompressionType.
func ParseCompression(s string) (CompressionType, error) {
	switch s {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("container: unknown compression %q", s)
	}
}

// MaxUncompressedSize bounds the decoded payload of a container.
const MaxUncompressedSize = 1 << 32

// lz4MaxRatio is the largest expansion an LZ4 block can encode.
const lz4MaxRatio = 255

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderConcurrency(1))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(MaxUncompressedSize))
	return dec
}

// compress returns the stored form of data and the compression actually
// used. Payloads that do not shrink below 90% are stored uncompressed.
func compress(data []byte, ct CompressionType) ([]byte, CompressionType, error) {
	if ct == CompressionNone || len(data) == 0 {
		return data, CompressionNone, nil
	}

	var out []byte
	switch ct {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, 0, err
		}
		out = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		out = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, 0, fmt.Errorf("container: unknown compression %d", ct)
	}

	if len(out) == 0 || float64(len(out)) > float64(len(data))*0.9 {
		return data, CompressionNone, nil
	}
	return out, ct, nil
}

// decompress checks the header's size claim before allocating for it.
func decompress(data []byte, ct CompressionType, size uint64) ([]byte, error) {
	if size > MaxUncompressedSize {
		return nil, fmt.Errorf("%w: uncompressed size %d exceeds limit", ErrCorrupt, size)
	}
	switch ct {
	case CompressionNone:
		if uint64(len(data)) != size {
			return nil, fmt.Errorf("%w: stored size %d, header says %d", ErrCorrupt, len(data), size)
		}
		return data, nil
	case CompressionLZ4:
		if size > uint64(len(data))*lz4MaxRatio {
			return nil, fmt.Errorf("%w: uncompressed size %d impossible for %d lz4 bytes", ErrCorrupt, size, len(data))
		}
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if uint64(n) != size {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if uint64(len(out)) != size {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, ct)
	}
}
