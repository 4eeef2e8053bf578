package seq

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

var (
	encryptionMagic = []byte("SQE1")

	ErrEncryptionKey = errors.New("seq: encryption key must be 16, 24, or 32 bytes")
	ErrDecryptFailed = errors.New("seq: decrypt failed")
)

// sealStage encrypts snapshots with AES-GCM.
// Frame: magic, nonce length, nonce, ciphertext.
type sealStage struct {
	aead cipher.AEAD
}

func newSealStage(key []byte) (*sealStage, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrEncryptionKey
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &sealStage{aead: aead}, nil
}

func (s *sealStage) encode(plain []byte) ([]byte, error) {
	nonceSize := s.aead.NonceSize()
	out := make([]byte, len(encryptionMagic)+1+nonceSize, len(encryptionMagic)+1+nonceSize+len(plain)+s.aead.Overhead())
	copy(out, encryptionMagic)
	out[len(encryptionMagic)] = byte(nonceSize)
	nonce := out[len(encryptionMagic)+1:]
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(out, nonce, plain, nil), nil
}

// decode passes through values written before encryption was enabled.
func (s *sealStage) decode(stored []byte) ([]byte, error) {
	header := len(encryptionMagic) + 1
	if len(stored) < header || !bytes.HasPrefix(stored, encryptionMagic) {
		return stored, nil
	}
	nonceSize := int(stored[len(encryptionMagic)])
	if nonceSize != s.aead.NonceSize() || len(stored) < header+nonceSize {
		return nil, ErrDecryptFailed
	}
	plain, err := s.aead.Open(nil, stored[header:header+nonceSize], stored[header+nonceSize:], nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plain, nil
}
