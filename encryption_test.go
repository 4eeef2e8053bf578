package seq

import (
	"bytes"
	"errors"
	"testing"
)

var testEncryptionKey = []byte("01234567890123456789012345678901")

func newTestSealStage(t *testing.T, key []byte) *sealStage {
	t.Helper()
	stage, err := newSealStage(key)
	if err != nil {
		t.Fatalf("seal stage: %v", err)
	}
	return stage
}

func TestSealStageRoundTrip(t *testing.T) {
	stage := newTestSealStage(t, testEncryptionKey)
	sealed, err := stage.encode([]byte("secret"))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if bytes.Contains(sealed, []byte("secret")) || !bytes.HasPrefix(sealed, []byte("SQE1")) {
		t.Fatalf("expected ciphertext frame, got %q", sealed)
	}
	if int(sealed[len(encryptionMagic)]) != stage.aead.NonceSize() {
		t.Fatalf("expected nonce length %d in frame, got %d", stage.aead.NonceSize(), sealed[len(encryptionMagic)])
	}
	plain, err := stage.decode(sealed)
	if err != nil || string(plain) != "secret" {
		t.Fatalf("unexpected decode: %q err=%v", plain, err)
	}
}

func TestSealStageUsesFreshNonces(t *testing.T) {
	stage := newTestSealStage(t, testEncryptionKey)
	a, _ := stage.encode([]byte("same"))
	b, _ := stage.encode([]byte("same"))
	if bytes.Equal(a, b) {
		t.Fatalf("expected distinct ciphertexts for repeated plaintext")
	}
}

func TestSealStageRejectsMalformedFrames(t *testing.T) {
	stage := newTestSealStage(t, testEncryptionKey)
	valid, err := stage.encode([]byte("secret"))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	tampered := bytes.Clone(valid)
	tampered[len(tampered)-1] ^= 0xff

	cases := map[string][]byte{
		"short nonce length": append([]byte("SQE1"), 4, 1, 2, 3, 4, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9),
		"long nonce length":  append([]byte("SQE1"), 255, 1, 2, 3),
		"zero nonce length":  append([]byte("SQE1"), 0, 1, 2, 3),
		"truncated nonce":    valid[:len(encryptionMagic)+4],
		"ascii garbage":      []byte("SQE1bad"),
		"tampered tag":       tampered,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := stage.decode(in); !errors.Is(err, ErrDecryptFailed) {
				t.Fatalf("expected decrypt error, got %v", err)
			}
		})
	}
}

func TestSealStageWrongKey(t *testing.T) {
	sealed, err := newTestSealStage(t, []byte("abcdefghijklmnop")).encode([]byte("secret"))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if _, err := newTestSealStage(t, testEncryptionKey).decode(sealed); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("expected decrypt error with wrong key, got %v", err)
	}
}

func TestSealStageUnsupportedKey(t *testing.T) {
	if _, err := newSealStage([]byte("short")); !errors.Is(err, ErrEncryptionKey) {
		t.Fatalf("expected key error, got %v", err)
	}
}

func TestSealStageReadsPlainValues(t *testing.T) {
	stage := newTestSealStage(t, testEncryptionKey)
	for _, in := range [][]byte{[]byte(`{"v":1}`), []byte("SQE1"), nil} {
		got, err := stage.decode(in)
		if err != nil || !bytes.Equal(got, in) {
			t.Fatalf("expected plaintext passthrough for %q; got=%q err=%v", in, got, err)
		}
	}
}
