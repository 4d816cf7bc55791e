// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds credentials (the agent password, the
// registration API key, and the issued session token) outside the Go
// heap.
//
// A [Buffer] is an anonymous mmap region, excluded from core dumps and
// zeroed on Close. The region is also mlocked when the process is
// allowed to; containers with a small RLIMIT_MEMLOCK refuse mlock, and
// the buffer then stays unlocked rather than failing, which still keeps
// the secret away from the garbage collector's copies. [Buffer.Locked]
// reports which case applies.
//
// [ReadFromPath] loads a secret from a file or stdin with surrounding
// whitespace trimmed.
package secret
