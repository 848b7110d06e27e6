// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package encryption

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
)

const sealedPrefix = "sealed:v1:"

// Sealer transforms chunk text on its way into storage.
type Sealer interface {
	Seal(plaintext string) (string, error)
}

// Session is a live encrypt-on-write capability.
// Safe for concurrent use; unusable after Release.
type Session struct {
	mu       sync.RWMutex
	aead     cipher.AEAD
	released bool
}

var _ Sealer = (*Session)(nil)

// Seal encrypts plaintext and returns the sealed representation.
func (s *Session) Seal(plaintext string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.released {
		return "", ErrSessionReleased
	}

	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal with the same key.
func (s *Session) Open(sealed string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.released {
		return "", ErrSessionReleased
	}
	if !IsSealed(sealed) {
		return "", ErrNotSealed
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	nonceSize := s.aead.NonceSize()
	if len(raw) < nonceSize+s.aead.Overhead() {
		return "", fmt.Errorf("%w: truncated", ErrMalformed)
	}

	plaintext, err := s.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return string(plaintext), nil
}

// Release ends the session. Calling Release more than once is a no-op.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.released = true
	s.aead = nil
}

// Released reports whether Release has been called.
func (s *Session) Released() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.released
}

// IsSealed reports whether value carries the sealed prefix.
func IsSealed(value string) bool {
	return strings.HasPrefix(value, sealedPrefix)
}

// Plaintext is the pass-through Sealer used when no tenant key is configured.
type Plaintext struct{}

var _ Sealer = Plaintext{}

// Seal returns plaintext unchanged.
func (Plaintext) Seal(plaintext string) (string, error) {
	return plaintext, nil
}
