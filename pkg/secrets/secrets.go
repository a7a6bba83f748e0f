// Package secrets seals sensitive identifiers before they are written to the
// device-local store. Aadhaar numbers must never sit in local storage in the
// clear, so callers seal the full value and keep only the masked form visible.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

// KeySize is the secretbox key length in bytes.
const KeySize = 32

const nonceSize = 24

// ErrInvalidKey indicates the configured sealing key has the wrong length.
var ErrInvalidKey = errors.New("sealing key must be 32 bytes")

// ErrCorrupt indicates a sealed value failed to authenticate or decode.
var ErrCorrupt = errors.New("sealed value is corrupt")

// Cipher seals and opens values with a device-scoped symmetric key.
type Cipher struct {
	key [KeySize]byte
}

// NewCipher builds a Cipher from a raw 32-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	c := &Cipher{}
	copy(c.key[:], key)
	return c, nil
}

// Seal encrypts plaintext and returns a base64 string safe to embed in JSON
// records. The nonce is prepended to the ciphertext.
func (c *Cipher) Seal(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &c.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal.
func (c *Cipher) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrCorrupt
	}
	if len(raw) < nonceSize {
		return "", ErrCorrupt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plaintext, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &c.key)
	if !ok {
		return "", ErrCorrupt
	}
	return string(plaintext), nil
}
