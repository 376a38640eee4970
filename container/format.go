package container

import "errors"

const (
	// MagicNumber identifies container files (ASCII: "SSMC").
	MagicNumber = 0x434D5353
	// Version is the current file format version.
	Version = 1

	headerSize = 32
)

var (
	ErrInvalidMagic   = errors.New("container: invalid magic number")
	ErrInvalidVersion = errors.New("container: unsupported version")
	ErrCorrupt        = errors.New("container: corrupt payload")
)

// FileHeader is the 32-byte header at the start of every container file.
type FileHeader struct {
	Magic            uint32 // 0x434D5353 ("SSMC")
	Version          uint32
	Compression      CompressionType
	Padding          [3]byte
	Checksum         uint32 // CRC32 over compression, sizes and payload
	PayloadSize      uint64 // Stored (possibly compressed) payload bytes
	UncompressedSize uint64
}
