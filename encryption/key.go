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
	"strings"

	"github.com/go-crypt/x/blake2b"
	"golang.org/x/crypto/chacha20poly1305"
)

// Key is a tenant encryption key derived from the configured customer key.
type Key struct {
	material [chacha20poly1305.KeySize]byte
}

// ParseKey derives a Key from a customer key string.
// Surrounding whitespace is ignored; the remaining value must not be empty.
func ParseKey(customerKey string) (*Key, error) {
	customerKey = strings.TrimSpace(customerKey)
	if customerKey == "" {
		return nil, ErrEmptyKey
	}
	return &Key{material: blake2b.Sum256([]byte(customerKey))}, nil
}

// Activate opens a Session bound to this key. The caller owns the session and
// must release it when the enclosing transaction ends.
func (k *Key) Activate() (*Session, error) {
	aead, err := chacha20poly1305.NewX(k.material[:])
	if err != nil {
		return nil, err
	}
	return &Session{aead: aead}, nil
}

// String hides the key material from logs.
func (k *Key) String() string {
	return "encryption.Key(redacted)"
}
