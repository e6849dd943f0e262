package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// LoadOrCreateKey returns the process-wide data key. On first run it
// generates a random key and persists it base64-encoded with 0600
// permissions; afterwards it loads the existing file. Corrupt or truncated
// key material is a fatal configuration error: every ciphertext already
// written depends on it.
func LoadOrCreateKey(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return generateKey(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read key file %s: %w", path, err)
	}

	key, err := base64.StdEncoding.DecodeString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("key file %s is corrupt: %w", path, err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("key file %s has wrong key length %d", path, len(key))
	}
	return key, nil
}

func generateKey(path string) ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	enc := base64.StdEncoding.EncodeToString(key)
	if err := os.WriteFile(path, []byte(enc), 0o600); err != nil {
		return nil, fmt.Errorf("write key file %s: %w", path, err)
	}
	return key, nil
}
