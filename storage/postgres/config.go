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

package postgres

import "time"

// Config holds the connection settings for the Postgres store.
type Config struct {
	DSN            string        // libpq or URL style connection string
	MaxConns       int32         // Pool size; 0 uses the default
	ConnectTimeout time.Duration // Dial timeout per connection; 0 uses the default
	PingTimeout    time.Duration // Startup health check timeout; 0 uses the default
}
