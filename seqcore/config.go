package seqcore

// BaseConfig contains shared, backend-agnostic driver configuration.
type BaseConfig struct {
	// Prefix namespaces keys in shared backends.
	Prefix string
	// Compression is applied to every stored value.
	Compression CompressionCodec
	// MaxValueBytes rejects encoded values above the limit when > 0.
	MaxValueBytes int
	// EncryptionKey enables AES-GCM when set (16, 24 or 32 bytes).
	EncryptionKey []byte
}
