// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Exiled Contributors

package types

import (
	"strconv"
	"strings"

	exilederr "github.com/exiled-team/exiled/pkg/errors"
)

// Priority orders plugins. Higher priorities load and enable first.
type Priority int

const (
	PriorityLowest  Priority = -20000
	PriorityLower   Priority = -10000
	PriorityLow     Priority = -5000
	PriorityMedium  Priority = 0
	PriorityHigh    Priority = 5000
	PriorityHigher  Priority = 10000
	PriorityHighest Priority = 20000
)

func (p Priority) String() string {
	switch p {
	case PriorityLowest:
		return "lowest"
	case PriorityLower:
		return "lower"
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityHigher:
		return "higher"
	case PriorityHighest:
		return "highest"
	default:
		return strconv.Itoa(int(p))
	}
}

// ParsePriority accepts a named priority or a plain integer.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lowest":
		return PriorityLowest, nil
	case "lower":
		return PriorityLower, nil
	case "low":
		return PriorityLow, nil
	case "medium", "":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "higher":
		return PriorityHigher, nil
	case "highest":
		return PriorityHighest, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, exilederr.Errorf(exilederr.CodeConfigValidateInvalidValue,
			"invalid priority: %q", s)
	}
	return Priority(n), nil
}
