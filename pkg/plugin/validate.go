// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package plugin

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// prefixRe matches a normalized configuration prefix.
var prefixRe = regexp.MustCompile(`^[a-z0-9]+(?:_[a-z0-9]+)*$`)

// Validate checks that the Metadata is well-formed. It returns an error
// describing the first validation failure encountered, or nil.
func (m Metadata) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("metadata validation: name must not be empty")
	}
	if m.Version == "" {
		return fmt.Errorf("metadata validation: version must not be empty")
	}
	if _, err := semver.StrictNewVersion(strings.TrimPrefix(m.Version, "v")); err != nil {
		return fmt.Errorf("metadata validation: version must be valid semver (MAJOR.MINOR.PATCH), got %q", m.Version)
	}
	if m.RequiredFrameworkVersion != "" {
		if _, err := semver.NewVersion(m.RequiredFrameworkVersion); err != nil {
			return fmt.Errorf("metadata validation: required framework version must be valid semver, got %q", m.RequiredFrameworkVersion)
		}
	}
	if m.Prefix != "" && !prefixRe.MatchString(m.Prefix) {
		return fmt.Errorf("metadata validation: prefix must be lowercase words joined by underscores, got %q", m.Prefix)
	}
	return nil
}

// ValidPrefix reports whether s is a normalized document prefix.
func ValidPrefix(s string) bool {
	return prefixRe.MatchString(s)
}
