package statestore

import (
	"encoding/binary"
	"fmt"

	"github.com/genecyber/goNFTraded/internal/core/trade"
	"github.com/genecyber/goNFTraded/internal/storage/database/compression"
	"github.com/ugorji/go/codec"
)

// Key prefixes. Fixed-width big-endian ids keep iteration order aligned
// with insertion order.
const (
	prefixOffer     = "o/"
	prefixRequested = "ir/"
	prefixOffered   = "io/"
	prefixHistory   = "h/"
	prefixConfig    = "c/"
	keyNextID       = "m/next"
)

// Value envelope markers. Values over compressThreshold are stored
// lz4-compressed with a 4-byte original-length header.
const (
	markerRaw byte = 0
	markerLZ4 byte = 1
)

const compressThreshold = 256

var msgpackHandle = func() *codec.MsgpackHandle {
	h := new(codec.MsgpackHandle)
	h.WriteExt = true
	return h
}()

var lz4c compression.LZ4Compressor

func encodeValue(v interface{}, compress bool) ([]byte, error) {
	var raw []byte
	if err := codec.NewEncoderBytes(&raw, msgpackHandle).Encode(v); err != nil {
		return nil, fmt.Errorf("statestore: encode: %w", err)
	}

	if !compress || len(raw) <= compressThreshold {
		return append([]byte{markerRaw}, raw...), nil
	}

	compressed, err := lz4c.Compress(raw)
	if err != nil {
		if compression.IsIncompressible(err) {
			return append([]byte{markerRaw}, raw...), nil
		}
		return nil, err
	}

	out := make([]byte, 0, 5+len(compressed))
	out = append(out, markerLZ4)
	out = binary.BigEndian.AppendUint32(out, uint32(len(raw)))
	return append(out, compressed...), nil
}

func decodeValue(data []byte, v interface{}) error {
	if len(data) == 0 {
		return fmt.Errorf("statestore: empty value")
	}

	var raw []byte
	switch data[0] {
	case markerRaw:
		raw = data[1:]
	case markerLZ4:
		if len(data) < 5 {
			return fmt.Errorf("statestore: truncated compressed value")
		}
		origLen := binary.BigEndian.Uint32(data[1:5])
		decompressed, err := lz4c.DecompressSize(data[5:], int(origLen))
		if err != nil {
			return err
		}
		raw = decompressed
	default:
		return fmt.Errorf("statestore: unknown value marker 0x%02x", data[0])
	}

	if err := codec.NewDecoderBytes(raw, msgpackHandle).Decode(v); err != nil {
		return fmt.Errorf("statestore: decode: %w", err)
	}
	return nil
}

func offerKey(id uint64) []byte {
	out := make([]byte, 0, len(prefixOffer)+8)
	out = append(out, prefixOffer...)
	return binary.BigEndian.AppendUint64(out, id)
}

func assetKeyBytes(prefix string, key trade.AssetKey) []byte {
	out := make([]byte, 0, len(prefix)+20+8)
	out = append(out, prefix...)
	out = append(out, key.Contract[:]...)
	return binary.BigEndian.AppendUint64(out, key.Unit)
}

func historyKey(key trade.AssetKey, seq int) []byte {
	out := assetKeyBytes(prefixHistory, key)
	return binary.BigEndian.AppendUint64(out, uint64(seq))
}

func configKey(class trade.CollectionClass) []byte {
	out := make([]byte, 0, len(prefixConfig)+4)
	out = append(out, prefixConfig...)
	return binary.BigEndian.AppendUint32(out, uint32(class))
}

// parseAssetKey recovers the AssetKey encoded after prefix, ignoring any
// trailing bytes (the history sequence suffix).
func parseAssetKey(key []byte, prefix string) (trade.AssetKey, bool) {
	rest := key[len(prefix):]
	if len(rest) < 28 {
		return trade.AssetKey{}, false
	}
	var out trade.AssetKey
	copy(out.Contract[:], rest[:20])
	out.Unit = binary.BigEndian.Uint64(rest[20:28])
	return out, true
}
