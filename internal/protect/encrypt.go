package protect

import (
	"crypto/rand"
	"encoding/base64"

	"lectern/internal/services"
)

// Payload is an encrypted asset prepared for JSON transport. It is transient:
// a fresh IV is generated per request and nothing here is ever persisted.
type Payload struct {
	CiphertextB64 string `json:"encryptedPdf"`
	IVB64         string `json:"iv"`
}

// Encrypt seals plaintext under the key with a fresh random 12-byte IV. The
// GCM tag gives the response built-in integrity; ciphertext and IV are
// base64-encoded for transport.
func Encrypt(plaintext []byte, key *Key) (Payload, error) {
	if !key.allows(UsageEncrypt) {
		return Payload{}, services.Wrap(services.ErrConfiguration, "protect", "encrypt", "key not imported for encryption", nil)
	}
	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return Payload{}, services.Wrap(services.ErrConfiguration, "protect", "encrypt", "generate iv", err)
	}
	sealed := key.aead.Seal(nil, iv, plaintext, nil)
	return Payload{
		CiphertextB64: base64.StdEncoding.EncodeToString(sealed),
		IVB64:         base64.StdEncoding.EncodeToString(iv),
	}, nil
}
