package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"github.com/akarpov87/budget-keeper/internal/errs"
)

// Cipher provides authenticated symmetric encryption with a fixed key.
// Ciphertexts are self-describing: a random 12-byte nonce is prepended and
// the GCM tag is embedded, so decryption needs only the key. The key is
// read-only after construction and safe to share across goroutines.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher constructs a Cipher over an AES-256-GCM AEAD.
func NewCipher(key []byte) (*Cipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random nonce.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(nonce)+len(plaintext)+c.aead.Overhead())
	out = append(out, nonce...)
	out = append(out, c.aead.Seal(nil, nonce, plaintext, nil)...)
	return out, nil
}

// Decrypt opens a ciphertext produced by Encrypt. It returns errs.ErrDecrypt
// if the payload was sealed under a different key, has been tampered with,
// or is too short to contain a nonce.
func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < c.aead.NonceSize() {
		return nil, errs.ErrDecrypt
	}
	nonce := ciphertext[:c.aead.NonceSize()]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext[c.aead.NonceSize():], nil)
	if err != nil {
		return nil, errs.ErrDecrypt
	}
	return plaintext, nil
}

// EncryptString seals a string payload.
func (c *Cipher) EncryptString(s string) ([]byte, error) {
	return c.Encrypt([]byte(s))
}

// DecryptString opens a ciphertext and returns it as a string.
func (c *Cipher) DecryptString(ciphertext []byte) (string, error) {
	b, err := c.Decrypt(ciphertext)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
