// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Sealed snapshots are a JSON envelope carrying the PBKDF2 parameters next to
// the AES-256-GCM ciphertext, so any passphrase-holding reader can open them
// without out-of-band config.
const (
	sealIterations = 600000
	sealKeyLength  = 32
	sealSaltLength = 32
)

type sealMeta struct {
	Salt       string `json:"salt"`
	Iterations int    `json:"iterations"`
	HashFunc   string `json:"hash_function"`
	KeyLength  int    `json:"key_length"`
}

type sealEnvelope struct {
	Meta struct {
		Key string `json:"key_provider.pbkdf2.snapshot"`
	} `json:"meta"`
	EncryptedData string `json:"encrypted_data"`
}

// sealed sniffs whether a stored body is an envelope rather than a clear
// document.
func sealed(body []byte) bool {
	return bytes.Contains(body, []byte(`"encrypted_data"`))
}

// seal encrypts body under a passphrase-derived key. The nonce is prepended
// to the ciphertext.
func seal(body []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, sealSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	meta := sealMeta{
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Iterations: sealIterations,
		HashFunc:   "sha512",
		KeyLength:  sealKeyLength,
	}

	key := pbkdf2.Key([]byte(passphrase), salt, meta.Iterations, meta.KeyLength, sha512.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	ciphertext := aesGCM.Seal(nonce, nonce, body, nil)

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}

	var env sealEnvelope
	env.Meta.Key = base64.StdEncoding.EncodeToString(metaJSON)
	env.EncryptedData = base64.StdEncoding.EncodeToString(ciphertext)

	return json.MarshalIndent(env, "", "  ")
}

// unseal reverses seal using the envelope's own key-derivation parameters.
func unseal(body []byte, passphrase string) ([]byte, error) {
	var env sealEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse sealed snapshot: %w", err)
	}

	metaJSON, err := base64.StdEncoding.DecodeString(env.Meta.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key provider config: %w", err)
	}

	var meta sealMeta
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse key provider config: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(meta.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	key := pbkdf2.Key([]byte(passphrase), salt, meta.Iterations, meta.KeyLength, sha512.New)

	ciphertext, err := base64.StdEncoding.DecodeString(env.EncryptedData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := aesGCM.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf(
			"ciphertext too short: expected at least %d bytes, got %d",
			nonceSize,
			len(ciphertext),
		)
	}

	plaintext, err := aesGCM.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	return plaintext, nil
}
