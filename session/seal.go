package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	apperrors "github.com/NMHx2005/lms-frontend-sub000/internal/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// sealedBox is a secretbox ciphertext plus what is needed to re-derive the key.
type sealedBox struct {
	Salt  string `yaml:"salt"`
	Nonce string `yaml:"nonce"`
	Box   string `yaml:"box"`
}

func deriveKey(passphrase string, salt []byte) *[keySize]byte {
	var key [keySize]byte
	copy(key[:], argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, keySize))
	return &key
}

func sealBox(passphrase string, plaintext []byte) (*sealedBox, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	box := secretbox.Seal(nil, plaintext, &nonce, deriveKey(passphrase, salt))
	return &sealedBox{
		Salt:  base64.StdEncoding.EncodeToString(salt),
		Nonce: base64.StdEncoding.EncodeToString(nonce[:]),
		Box:   base64.StdEncoding.EncodeToString(box),
	}, nil
}

func openBox(passphrase string, sb *sealedBox) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(sb.Salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	rawNonce, err := base64.StdEncoding.DecodeString(sb.Nonce)
	if err != nil || len(rawNonce) != nonceSize {
		return nil, fmt.Errorf("decode nonce: invalid sealed session")
	}
	box, err := base64.StdEncoding.DecodeString(sb.Box)
	if err != nil {
		return nil, fmt.Errorf("decode box: %w", err)
	}

	var nonce [nonceSize]byte
	copy(nonce[:], rawNonce)
	plain, ok := secretbox.Open(nil, box, &nonce, deriveKey(passphrase, salt))
	if !ok {
		return nil, apperrors.ErrWrongPassphrase
	}
	return plain, nil
}
