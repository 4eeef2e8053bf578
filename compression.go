package seq

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"

	"github.com/goforj/seq/seqcore"
)

// CompressionCodec represents a snapshot compression algorithm.
type CompressionCodec = seqcore.CompressionCodec

const (
	CompressionNone   = seqcore.CompressionNone
	CompressionGzip   = seqcore.CompressionGzip
	CompressionSnappy = seqcore.CompressionSnappy
)

var (
	compressMagic = []byte("SQC1")

	ErrValueTooLarge      = errors.New("seq: value exceeds max size")
	ErrUnsupportedCodec   = errors.New("seq: unsupported compression codec")
	ErrCorruptCompression = errors.New("seq: corrupt compressed payload")
)

// frame tags following compressMagic
const (
	frameGzip   byte = 'g'
	frameSnappy byte = 's'
)

// compressionStage compresses snapshots and enforces the size limit in both
// directions: encoded values larger than max are refused, and frames that
// would inflate past max are rejected before they are fully expanded.
type compressionStage struct {
	codec CompressionCodec
	max   int
}

func newCompressionStage(codec CompressionCodec, max int) (compressionStage, error) {
	switch codec {
	case "", CompressionNone, CompressionGzip, CompressionSnappy:
	default:
		return compressionStage{}, ErrUnsupportedCodec
	}
	return compressionStage{codec: codec, max: max}, nil
}

// active reports whether the stage changes anything.
func (c compressionStage) active() bool {
	return (c.codec != "" && c.codec != CompressionNone) || c.max > 0
}

func (c compressionStage) encode(value []byte) ([]byte, error) {
	return encodeValue(c.codec, c.max, value)
}

func (c compressionStage) decode(stored []byte) ([]byte, error) {
	return decodeValue(stored, c.max)
}

func encodeValue(codec CompressionCodec, max int, value []byte) ([]byte, error) {
	if max > 0 && len(value) > max {
		return nil, ErrValueTooLarge
	}
	var out []byte
	switch codec {
	case CompressionNone, "":
		return value, nil
	case CompressionGzip:
		var buf bytes.Buffer
		buf.Write(compressMagic)
		_ = buf.WriteByte(frameGzip)
		zw, _ := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
		if _, err := zw.Write(value); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		out = buf.Bytes()
	case CompressionSnappy:
		block := s2.EncodeSnappy(nil, value)
		out = make([]byte, 0, len(compressMagic)+1+len(block))
		out = append(out, compressMagic...)
		out = append(out, frameSnappy)
		out = append(out, block...)
	default:
		return nil, ErrUnsupportedCodec
	}
	if max > 0 && len(out) > max {
		return nil, ErrValueTooLarge
	}
	return out, nil
}

// decodeValue expands a framed value. Unframed input is returned as is.
// A positive max caps the expanded size.
func decodeValue(in []byte, max int) ([]byte, error) {
	if len(in) < len(compressMagic)+1 || !bytes.HasPrefix(in, compressMagic) {
		return in, nil
	}
	payload := in[len(compressMagic)+1:]
	switch in[len(compressMagic)] {
	case frameGzip:
		return inflateGzip(payload, max)
	case frameSnappy:
		n, err := s2.DecodedLen(payload)
		if err != nil {
			return nil, ErrCorruptCompression
		}
		if max > 0 && n > max {
			return nil, ErrValueTooLarge
		}
		out, err := s2.Decode(nil, payload)
		if err != nil {
			return nil, ErrCorruptCompression
		}
		return out, nil
	default:
		return nil, ErrUnsupportedCodec
	}
}

func inflateGzip(payload []byte, max int) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, ErrCorruptCompression
	}
	defer gr.Close()
	var r io.Reader = gr
	if max > 0 {
		r = io.LimitReader(gr, int64(max)+1)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrCorruptCompression
	}
	if max > 0 && len(out) > max {
		return nil, ErrValueTooLarge
	}
	return out, nil
}
