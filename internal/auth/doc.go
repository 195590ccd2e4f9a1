// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package auth provides the credential core for Gatehouse.
//
// # Domain Types
//
// Password is a tagged value that is either raw (user-supplied
// plaintext) or hashed (the one-way derived form). Only the hashed form
// can be persisted or serialized; misuse of a raw value fails loudly
// rather than silently leaking plaintext.
//
// # Services
//
// Service coordinates sign-up and sign-in: it validates field
// constraints, hashes credentials through a PasswordHasher, and talks to
// a UserRepository for persistence. The UnknownLogin / IncorrectPassword
// distinction is kept internally for telemetry; transports are expected
// to collapse both into a single generic failure.
package auth
