package seq

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeValueRespectsLimitEqualsLen(t *testing.T) {
	out, err := encodeValue(CompressionNone, 3, []byte("abc"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "abc" {
		t.Fatalf("unexpected output: %s", string(out))
	}
}

func TestDecodeValuePassThrough(t *testing.T) {
	out, err := decodeValue([]byte(`{"v":1,"cap":0,"items":[]}`), 0)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if string(out) != `{"v":1,"cap":0,"items":[]}` {
		t.Fatalf("expected passthrough")
	}
}

func TestDecodeValueShortInput(t *testing.T) {
	out, err := decodeValue([]byte("tiny"), 0)
	if err != nil {
		t.Fatalf("decode short err: %v", err)
	}
	if string(out) != "tiny" {
		t.Fatalf("expected passthrough on short input")
	}
}

func TestCompressionRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte(`{"v":1,"items":[1,2,3,4,5,6,7,8,9]}`), 64)
	for _, codec := range []CompressionCodec{CompressionGzip, CompressionSnappy} {
		encoded, err := encodeValue(codec, 0, payload)
		if err != nil {
			t.Fatalf("%s encode: %v", codec, err)
		}
		if len(encoded) >= len(payload) {
			t.Fatalf("%s: expected repetitive payload to shrink, %d >= %d", codec, len(encoded), len(payload))
		}
		decoded, err := decodeValue(encoded, 0)
		if err != nil {
			t.Fatalf("%s decode: %v", codec, err)
		}
		if !bytes.Equal(decoded, payload) {
			t.Fatalf("%s: round trip mismatch", codec)
		}
	}
}

func TestDecodeValueUnknownCodec(t *testing.T) {
	in := append([]byte("SQC1"), 'z', 0x00)
	if _, err := decodeValue(in, 0); !errors.Is(err, ErrUnsupportedCodec) {
		t.Fatalf("expected unsupported codec error, got %v", err)
	}
}

func TestDecodeValueCorruptPayload(t *testing.T) {
	for _, codec := range []byte{'g', 's'} {
		in := append([]byte("SQC1"), codec, 0xff, 0xfe, 0xfd)
		if _, err := decodeValue(in, 0); !errors.Is(err, ErrCorruptCompression) {
			t.Fatalf("codec %c: expected corrupt error, got %v", codec, err)
		}
	}
}

func TestEncodeValueUnknownCodec(t *testing.T) {
	if _, err := encodeValue(CompressionCodec("lz4"), 0, []byte("x")); !errors.Is(err, ErrUnsupportedCodec) {
		t.Fatalf("expected unsupported codec error, got %v", err)
	}
}

func TestEncodeValueGzipEarlySizeCheck(t *testing.T) {
	if _, err := encodeValue(CompressionGzip, 1, []byte("toolong")); !errors.Is(err, ErrValueTooLarge) {
		t.Fatalf("expected size error, got %v", err)
	}
}

func TestEncodeValueSizeCheckAfterFraming(t *testing.T) {
	// Two bytes fit the raw limit but not the framed snappy output.
	if _, err := encodeValue(CompressionSnappy, 2, []byte("ab")); !errors.Is(err, ErrValueTooLarge) {
		t.Fatalf("expected size error after framing, got %v", err)
	}
}

func TestDecodeValueRefusesToInflatePastLimit(t *testing.T) {
	payload := bytes.Repeat([]byte{'0'}, 4096)
	for _, codec := range []CompressionCodec{CompressionGzip, CompressionSnappy} {
		encoded, err := encodeValue(codec, 0, payload)
		if err != nil {
			t.Fatalf("%s encode: %v", codec, err)
		}
		if len(encoded) > 1024 {
			t.Fatalf("%s: expected small frame, got %d bytes", codec, len(encoded))
		}
		if _, err := decodeValue(encoded, 1024); !errors.Is(err, ErrValueTooLarge) {
			t.Fatalf("%s: expected size error, got %v", codec, err)
		}
		decoded, err := decodeValue(encoded, len(payload))
		if err != nil || !bytes.Equal(decoded, payload) {
			t.Fatalf("%s: expected payload at exact limit, err=%v", codec, err)
		}
	}
}

func TestNewCompressionStageRejectsUnknownCodec(t *testing.T) {
	if _, err := newCompressionStage(CompressionCodec("lz4"), 0); !errors.Is(err, ErrUnsupportedCodec) {
		t.Fatalf("expected unsupported codec error, got %v", err)
	}
	stage, err := newCompressionStage(CompressionNone, 0)
	if err != nil || stage.active() {
		t.Fatalf("expected inactive stage, active=%v err=%v", stage.active(), err)
	}
}
