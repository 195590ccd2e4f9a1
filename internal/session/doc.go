// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package session issues and verifies the token pair that proves
// identity across requests.
//
// An access token is a short-lived HS256-signed JWT carrying
// {user_id, login, exp}: possession plus a valid signature is proof of
// identity with no storage lookup, which also means it cannot be
// revoked before expiry. A refresh token is a long-lived opaque
// 8-character value persisted server-side; it is compared only in
// constant time.
//
// The signing key comes from an injected KeyProvider. The default
// EphemeralKey lives exactly as long as the process: tokens signed
// before a restart do not verify after it. Deployments that need
// continuity supply a StaticKey from durable storage instead.
package session
