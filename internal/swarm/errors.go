// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package swarm

import "errors"

// UsageLine is printed when the objective is missing.
const UsageLine = "Usage: swarm <objective>"

// ErrUsage matches every *UsageError via errors.Is.
var ErrUsage = errors.New("usage error")

// UsageError reports a request that cannot be turned into a plan.
// Callers print it and return without spawning anything.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	if e.Reason == "" {
		return UsageLine
	}
	return e.Reason
}

func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

func usageErrorf(reason string) *UsageError {
	return &UsageError{Reason: reason}
}
