// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the sfagent configuration file.
//
// Configuration comes from a single file named by the SFAGENT_CONFIG
// environment variable (via [Load]) or a --config flag (via
// [LoadFile]). There is no discovery and no per-key environment
// override. Files ending in .json or .jsonc are read as JSON with
// comments and trailing commas stripped; anything else is YAML.
//
// Secrets never appear in the file itself. Credentials name files
// (or "-" for stdin) that hold the password and the registration API
// key, and ${VAR} / ${VAR:-default} patterns in those paths are
// expanded after loading.
//
// This package depends on no other packages in this module.
package config
