package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var ErrDecrypt = errors.New("crypto: unable to decrypt value")

// Box seals short strings (OAuth tokens) with NaCl secretbox.
// A Box built from an empty passphrase passes values through unchanged.
type Box struct {
	key     *[32]byte
	enabled bool
}

func NewBox(passphrase string) *Box {
	if passphrase == "" {
		return &Box{}
	}
	k := sha256.Sum256([]byte(passphrase))
	return &Box{key: &k, enabled: true}
}

func (b *Box) Encrypt(plain string) (string, error) {
	if !b.enabled || plain == "" {
		return plain, nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}
	sealed := secretbox.Seal(nonce[:], []byte(plain), &nonce, b.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (b *Box) Decrypt(encoded string) (string, error) {
	if !b.enabled || encoded == "" {
		return encoded, nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) < nonceSize {
		return "", ErrDecrypt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, b.key)
	if !ok {
		return "", ErrDecrypt
	}
	return string(plain), nil
}
