package snapshot

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/wippyai/canonjson/errors"
)

// Compression identifies the payload encoding of a stored snapshot. Values
// are written to disk and must not change.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionLZ4  Compression = 1
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a compression name.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unknown compression %q", name))
	}
}

// shared coders; both are safe for concurrent use
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("snapshot: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("snapshot: zstd decoder initialization failed: " + err.Error())
	}
}

// compress returns the payload and the compression actually applied.
func compress(data []byte, c Compression) ([]byte, Compression, error) {
	var out []byte
	switch c {
	case CompressionNone:
		return data, CompressionNone, nil
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, 0, errors.Wrap(errors.PhaseStore, errors.KindInvalidInput, err, "lz4 compress")
		}
		out = dst[:n]
	case CompressionZstd:
		out = zstdEncoder.EncodeAll(data, nil)
	default:
		return nil, 0, errors.InvalidInput(errors.PhaseStore, "unsupported compression "+c.String())
	}

	if len(out) == 0 || len(out) >= len(data) {
		return data, CompressionNone, nil
	}
	return out, c, nil
}

func decompress(payload []byte, c Compression, size int) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch c {
	case CompressionNone:
		out = payload
	case CompressionLZ4:
		out = make([]byte, size)
		var n int
		n, err = lz4.UncompressBlock(payload, out)
		out = out[:max(n, 0)]
	case CompressionZstd:
		out, err = zstdDecoder.DecodeAll(payload, make([]byte, 0, size))
	default:
		return nil, errors.InvalidInput(errors.PhaseStore, "unsupported compression "+c.String())
	}

	if err != nil {
		return nil, errors.Wrap(errors.PhaseStore, errors.KindIntegrity, err, c.String()+" decompress")
	}
	if len(out) != size {
		return nil, errors.New(errors.PhaseStore, errors.KindIntegrity).
			Detail("%s payload decoded to %d bytes, want %d", c, len(out), size).
			Build()
	}
	return out, nil
}
