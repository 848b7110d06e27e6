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

// Package encryption seals chunk text at rest with a tenant key.
//
// A Key never encrypts anything by itself. Callers activate it to obtain a
// Session, a capability scoped to a single storage transaction. While the
// session is live, chunk-text writes pass through Session.Seal; once the
// transaction ends the session is released and refuses further use.
//
//	session, err := key.Activate()
//	if err != nil {
//	    return err
//	}
//	defer session.Release()
//	sealed, err := session.Seal("Hello")
//
// Sealed values are self-describing strings ("sealed:v1:" followed by the
// base64 of nonce and ciphertext), so readers can tell plaintext rows from
// sealed ones with IsSealed.
package encryption
