// File: stringx.go
// Title: String Utility Functions
// Description: Unicode-aware blank check shared by the locale catalog and
//              its directory watcher.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core utilities
// - 2025-10-19 v0.2.0: Reduced to IsBlank

package stringx

import "unicode"

// IsBlank returns true if the string is empty or contains only whitespace.
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
