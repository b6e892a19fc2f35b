// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements the vault's authenticated-encryption subsystem:
// passphrase-based key derivation and AES-256-GCM encryption of opaque
// strings, encoded as hex(nonce) + "|" + hex(ciphertext).
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	"github.com/MKhiriev/go-doc-vault/models"
)

// KeyMode selects how the passphrase is turned into the 256-bit key.
type KeyMode int

const (
	// KeyModeDerive runs the passphrase through PBKDF2-SHA256 with 100,000
	// iterations. Intended for human-chosen passphrases.
	//
	// The passphrase's own bytes are reused as the KDF salt. This keeps
	// derivation fully deterministic — two independent instances given the
	// same passphrase produce the same key, which replication across devices
	// relies on — at the cost of per-installation salt diversity: identical
	// passphrases always map to identical keys. Known trade-off, preserved
	// deliberately; do not add a random salt here.
	KeyModeDerive KeyMode = iota

	// KeyModeRaw takes a single SHA-256 of the passphrase bytes. Intended for
	// externally derived high-entropy key material that only needs
	// normalizing to 256 bits.
	KeyModeRaw
)

const (
	// Sep separates the hex-encoded nonce from the hex-encoded ciphertext.
	Sep = "|"

	kdfIterations = 100_000
	keyLen        = 32
)

// aesEngine is the AES-256-GCM implementation of [Engine].
type aesEngine struct {
	passphrase string
	mode       KeyMode

	// Key derivation runs at most once per engine; concurrent first callers
	// block on the same in-flight derivation instead of recomputing it.
	deriveOnce sync.Once
	aead       cipher.AEAD
	deriveErr  error
}

// NewEngine constructs an [Engine] for the given passphrase and mode. No key
// material is computed until the first Encrypt or Decrypt call.
func NewEngine(passphrase string, mode KeyMode) Engine {
	return &aesEngine{passphrase: passphrase, mode: mode}
}

// cipher returns the engine's AEAD primitive, deriving the key on first use.
func (e *aesEngine) cipher() (cipher.AEAD, error) {
	e.deriveOnce.Do(func() {
		var key []byte
		switch e.mode {
		case KeyModeRaw:
			sum := sha256.Sum256([]byte(e.passphrase))
			key = sum[:]
		default:
			// Salt is the passphrase itself, see [KeyModeDerive].
			key = pbkdf2.Key([]byte(e.passphrase), []byte(e.passphrase), kdfIterations, keyLen, sha256.New)
		}

		block, err := aes.NewCipher(key)
		if err != nil {
			e.deriveErr = fmt.Errorf("create cipher: %w", err)
			return
		}
		e.aead, e.deriveErr = cipher.NewGCM(block)
	})

	return e.aead, e.deriveErr
}

// Encrypt implements [Engine]. The output is
// hex(nonce) + "|" + hex(ciphertext-with-tag) with a fresh 96-bit nonce per
// call.
func (e *aesEngine) Encrypt(plaintext string) (string, error) {
	gcm, err := e.cipher()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ct := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(nonce) + Sep + hex.EncodeToString(ct), nil
}

// Decrypt implements [Engine]. Every failure mode collapses into
// [models.DecryptionError]: a missing separator, invalid hex, a wrong key,
// and a failed authentication tag are indistinguishable to callers beyond the
// carried description.
func (e *aesEngine) Decrypt(ciphertext string) (string, error) {
	gcm, err := e.cipher()
	if err != nil {
		return "", err
	}

	nonceHex, ctHex, found := strings.Cut(ciphertext, Sep)
	if !found {
		return "", models.NewDecryptionError(errors.New("malformed ciphertext: missing separator"))
	}

	nonce, err := hex.DecodeString(nonceHex)
	if err != nil {
		return "", models.NewDecryptionError(fmt.Errorf("malformed nonce: %w", err))
	}
	if len(nonce) != gcm.NonceSize() {
		return "", models.NewDecryptionError(errors.New("malformed nonce: wrong length"))
	}

	ct, err := hex.DecodeString(ctHex)
	if err != nil {
		return "", models.NewDecryptionError(fmt.Errorf("malformed ciphertext: %w", err))
	}

	plaintext, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", models.NewDecryptionError(err)
	}

	return string(plaintext), nil
}
