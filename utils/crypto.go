package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const sealedPrefix = "v1"

var ErrMalformedSecret = errors.New("malformed sealed secret")

// KDFParams holds Argon2id parameters.
type KDFParams struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

func DefaultKDFParams() KDFParams {
	return KDFParams{
		Time:    3,
		Memory:  65536, // 64MB
		Threads: 4,
	}
}

// Sealer encrypts small secrets (API keys) with XChaCha20-Poly1305 under an
// Argon2id key derived from the server secret and a per-value salt.
type Sealer struct {
	secret []byte
	params KDFParams
}

func NewSealer(secret string) *Sealer {
	return NewSealerWithParams(secret, DefaultKDFParams())
}

func NewSealerWithParams(secret string, params KDFParams) *Sealer {
	return &Sealer{secret: []byte(secret), params: params}
}

// Seal returns "v1.<salt>.<nonce>.<ciphertext>", each part base64.
func (s *Sealer) Seal(plaintext string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	aead, err := chacha20poly1305.NewX(s.deriveKey(salt))
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	ciphertext := aead.Seal(nil, nonce, []byte(plaintext), nil)

	enc := base64.StdEncoding
	return strings.Join([]string{
		sealedPrefix,
		enc.EncodeToString(salt),
		enc.EncodeToString(nonce),
		enc.EncodeToString(ciphertext),
	}, "."), nil
}

func (s *Sealer) Open(sealed string) (string, error) {
	parts := strings.Split(sealed, ".")
	if len(parts) != 4 || parts[0] != sealedPrefix {
		return "", ErrMalformedSecret
	}
	enc := base64.StdEncoding
	salt, err := enc.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("decode salt: %w", err)
	}
	nonce, err := enc.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("decode nonce: %w", err)
	}
	ciphertext, err := enc.DecodeString(parts[3])
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}

	aead, err := chacha20poly1305.NewX(s.deriveKey(salt))
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}
	if len(nonce) != aead.NonceSize() {
		return "", ErrMalformedSecret
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plaintext), nil
}

func (s *Sealer) deriveKey(salt []byte) []byte {
	return argon2.IDKey(s.secret, salt, s.params.Time, s.params.Memory, s.params.Threads, chacha20poly1305.KeySize)
}
