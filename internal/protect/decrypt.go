package protect

import (
	"encoding/base64"

	"lectern/internal/services"
)

// ScopedAsset holds decrypted bytes for the lifetime of one page view. The
// owner must call Release when navigating away so plaintext does not
// accumulate across page loads.
type ScopedAsset struct {
	data []byte
}

// Bytes returns the decrypted content, or nil after Release.
func (a *ScopedAsset) Bytes() []byte {
	if a == nil {
		return nil
	}
	return a.data
}

// Len reports the plaintext size in bytes.
func (a *ScopedAsset) Len() int {
	if a == nil {
		return 0
	}
	return len(a.data)
}

// Release zeroes and drops the plaintext buffer. Safe to call more than once.
func (a *ScopedAsset) Release() {
	if a == nil {
		return
	}
	for i := range a.data {
		a.data[i] = 0
	}
	a.data = nil
}

// Decrypt opens a transported payload with a decrypt-capable key. An
// authentication-tag failure (tampering or wrong key) yields an integrity
// error and no output; GCM never releases partial plaintext.
func Decrypt(payload Payload, key *Key) (*ScopedAsset, error) {
	if !key.allows(UsageDecrypt) {
		return nil, services.Wrap(services.ErrConfiguration, "protect", "decrypt", "key not imported for decryption", nil)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(payload.CiphertextB64)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "protect", "decrypt", "decode ciphertext", err)
	}
	iv, err := base64.StdEncoding.DecodeString(payload.IVB64)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "protect", "decrypt", "decode iv", err)
	}
	if len(iv) != ivSize {
		return nil, services.Wrap(services.ErrValidation, "protect", "decrypt", "unexpected iv length", nil)
	}
	plaintext, err := key.aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrIntegrity, "protect", "decrypt", "authentication failed", err)
	}
	return &ScopedAsset{data: plaintext}, nil
}
