// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the sfagent binary.
//
// [GitCommit], [GitDirty], [BuildTime], and [Version] are injected at
// build time via -ldflags -X and default to "unknown" / "0.1.0-dev"
// otherwise. [Info] formats them for --version; [Full] adds the Go
// toolchain and platform; [UserAgent] is the value the REST client and
// the realtime transport send.
package version
