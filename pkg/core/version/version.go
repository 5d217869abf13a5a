// ============================================================================
// leitstand - Terminal Dashboard Shell
// ============================================================================
//
// Package:     version
// Description: Build and component version information
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version is the release version. Overridden at build time with
// -ldflags "-X github.com/msto63/leitstand/pkg/core/version.Version=...".
var Version = "0.3.0"

// Commit is the source revision, set at build time.
var Commit = "dev"

// Component versions
const (
	Router     = "1.0.0"
	Composer   = "1.0.0"
	I18n       = "1.0.0"
	Storage    = "1.0.0"
	Dictionary = "1.0.0"
)

// Info describes the running binary
type Info struct {
	Version    string            `json:"version"`
	Commit     string            `json:"commit"`
	GoVersion  string            `json:"go_version"`
	Platform   string            `json:"platform"`
	Components map[string]string `json:"components"`
}

// Get returns the version information of the binary
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Components: map[string]string{
			"router":     Router,
			"composer":   Composer,
			"i18n":       I18n,
			"storage":    Storage,
			"dictionary": Dictionary,
		},
	}
}

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "router":
		return Router
	case "composer":
		return Composer
	case "i18n":
		return I18n
	case "storage":
		return Storage
	case "dictionary":
		return Dictionary
	default:
		return Version
	}
}

// String returns a one-line version banner
func (i Info) String() string {
	return fmt.Sprintf("leitstand %s (%s) %s %s", i.Version, i.Commit, i.GoVersion, i.Platform)
}
