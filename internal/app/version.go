// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 claude-code-hub contributors
// https://github.com/Hashmapw/claude-code-hub

package app

import "fmt"

// Build metadata, set via -ldflags at release time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// PrintVersion prints the build metadata.
func PrintVersion() {
	fmt.Printf("claude-code-hub %s\n", Version)
	fmt.Printf("commit: %s\n", Commit)
	fmt.Printf("built:  %s\n", BuildTime)
}
