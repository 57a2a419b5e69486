package protect

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"lectern/internal/services"
)

// KeySize is the required key length in bytes (AES-256).
const KeySize = 32

// ivSize is the GCM nonce length generated per encryption.
const ivSize = 12

// Usage restricts what an imported key may be used for, mirroring the
// least-privilege split between the delivery service (encrypt-only) and the
// viewing client (decrypt-only).
type Usage int

const (
	UsageEncrypt Usage = 1 << iota
	UsageDecrypt
)

// Key is key material imported for a fixed set of usages. Operations outside
// the imported usage fail rather than silently succeeding.
type Key struct {
	aead  cipher.AEAD
	usage Usage
}

// ImportKey validates the raw key material and binds it to the given usage.
func ImportKey(raw []byte, usage Usage) (*Key, error) {
	if len(raw) != KeySize {
		return nil, services.Wrap(services.ErrConfiguration, "protect", "import key",
			fmt.Sprintf("key must be %d bytes, got %d", KeySize, len(raw)), nil)
	}
	if usage&(UsageEncrypt|UsageDecrypt) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "protect", "import key", "key requires at least one usage", nil)
	}
	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "protect", "import key", "", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "protect", "import key", "", err)
	}
	return &Key{aead: aead, usage: usage}, nil
}

// ImportKeyHex imports a hex-encoded key.
func ImportKeyHex(encoded string, usage Usage) (*Key, error) {
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "protect", "import key", "decode hex", err)
	}
	return ImportKey(raw, usage)
}

// GenerateKey produces fresh random key material, hex-encoded for config files.
func GenerateKey() (string, error) {
	raw := make([]byte, KeySize)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

func (k *Key) allows(u Usage) bool {
	return k != nil && k.usage&u != 0
}
