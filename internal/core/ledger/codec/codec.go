package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4"
	ugorji "github.com/ugorji/go/codec"
)

// Envelope formats. The first byte of every stored row names its format.
const (
	FormatRaw byte = 0x00
	FormatLZ4 byte = 0x01
)

// CompressThreshold is the encoded size from which rows are lz4 compressed.
const CompressThreshold = 256

// lz4 block hash table size
const hashTableSize = 1 << 16

var (
	ErrEmptyRow      = errors.New("row is empty")
	ErrUnknownFormat = errors.New("unknown row format")
	ErrCorruptRow    = errors.New("corrupt row")
)

var (
	handle = &ugorji.MsgpackHandle{}

	hashTables = sync.Pool{
		New: func() any { return make([]int, hashTableSize) },
	}
)

// Encode serializes v as msgpack inside a format envelope.
func Encode(v any) ([]byte, error) {
	var payload []byte
	if err := ugorji.NewEncoderBytes(&payload, handle).Encode(v); err != nil {
		return nil, fmt.Errorf("msgpack encode: %w", err)
	}

	if len(payload) >= CompressThreshold {
		if out, ok, err := compress(payload); err != nil {
			return nil, err
		} else if ok {
			return out, nil
		}
	}

	out := make([]byte, 1+len(payload))
	out[0] = FormatRaw
	copy(out[1:], payload)
	return out, nil
}

// compress returns ok=false when lz4 does not shrink the payload.
func compress(payload []byte) ([]byte, bool, error) {
	ht := hashTables.Get().([]int)
	defer hashTables.Put(ht)
	for i := range ht {
		ht[i] = 0
	}

	buf := make([]byte, lz4.CompressBlockBound(len(payload)))
	n, err := lz4.CompressBlock(payload, buf, ht)
	if err != nil {
		return nil, false, fmt.Errorf("lz4 compression failed: %w", err)
	}
	if n == 0 || n >= len(payload) {
		return nil, false, nil
	}

	out := make([]byte, 1+binary.MaxVarintLen64+n)
	out[0] = FormatLZ4
	m := binary.PutUvarint(out[1:], uint64(len(payload)))
	copy(out[1+m:], buf[:n])
	return out[:1+m+n], true, nil
}

// Decode reverses Encode into out, which must be a pointer.
func Decode(data []byte, out any) error {
	if len(data) == 0 {
		return ErrEmptyRow
	}

	var payload []byte
	switch data[0] {
	case FormatRaw:
		payload = data[1:]
	case FormatLZ4:
		size, m := binary.Uvarint(data[1:])
		if m <= 0 {
			return fmt.Errorf("%w: bad length prefix", ErrCorruptRow)
		}
		payload = make([]byte, size)
		n, err := lz4.UncompressBlock(data[1+m:], payload)
		if err != nil {
			return fmt.Errorf("%w: lz4: %v", ErrCorruptRow, err)
		}
		if uint64(n) != size {
			return fmt.Errorf("%w: expected %d bytes, got %d", ErrCorruptRow, size, n)
		}
	default:
		return fmt.Errorf("%w: %#x", ErrUnknownFormat, data[0])
	}

	if err := ugorji.NewDecoderBytes(payload, handle).Decode(out); err != nil {
		return fmt.Errorf("msgpack decode: %w", err)
	}
	return nil
}
