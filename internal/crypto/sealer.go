// Package crypto implements the optional opaque payload transform:
// snapshot bytes are sealed with AES-256-GCM under a key derived from
// the user's passphrase before they leave the device, and opened after
// download. The backend only ever sees ciphertext.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// ErrSealedPayload is returned when sealed bytes cannot be opened:
// wrong passphrase, truncated blob, or a corrupted ciphertext
// (authentication-tag mismatch).
var ErrSealedPayload = errors.New("cannot open sealed payload")

// keySalt domain-separates the derived key. It is a fixed application
// constant, not a secret: every device deriving from the same
// passphrase must arrive at the same key, or snapshots sealed on one
// device could never be opened on another.
const keySalt = "go-study-sync.seal.v1"

// Sealer is an AEAD transform over snapshot bytes. The key is derived
// once at construction; Seal and Open are safe for concurrent use.
type Sealer struct {
	gcm cipher.AEAD
}

// NewSealer derives a 256-bit key from passphrase using Argon2id with
// the parameters recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
func NewSealer(passphrase string) (*Sealer, error) {
	if passphrase == "" {
		return nil, errors.New("empty passphrase")
	}

	key := argon2.IDKey([]byte(passphrase), []byte(keySalt), 1, 64*1024, 4, 32)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}

	return &Sealer{gcm: gcm}, nil
}

// Seal encrypts plain with AES-256-GCM. A random 12-byte nonce is
// prepended to the ciphertext so that Open can locate it:
// blob = nonce ‖ ciphertext. Returns an error if the random nonce read
// fails.
func (s *Sealer) Seal(plain []byte) ([]byte, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return s.gcm.Seal(nonce, nonce, plain, nil), nil
}

// Open decrypts a blob produced by [Sealer.Seal]. The blob must be at
// least as long as the GCM nonce (12 bytes). Returns [ErrSealedPayload]
// (wrapped) if the blob is too short, the passphrase is wrong, or the
// ciphertext is corrupted.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	nonceSize := s.gcm.NonceSize()
	if len(sealed) < nonceSize {
		return nil, fmt.Errorf("%w: blob too short", ErrSealedPayload)
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plain, err := s.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSealedPayload, err)
	}

	return plain, nil
}
