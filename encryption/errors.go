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

import "errors"

var (
	// ErrEmptyKey is returned when parsing an empty tenant key.
	ErrEmptyKey = errors.New("encryption key cannot be empty")

	// ErrSessionReleased is returned when a released session is used.
	ErrSessionReleased = errors.New("encryption session released")

	// ErrNotSealed is returned when opening a value without the sealed prefix.
	ErrNotSealed = errors.New("value is not sealed")

	// ErrMalformed is returned when a sealed value cannot be decoded or authenticated.
	ErrMalformed = errors.New("malformed sealed value")
)
