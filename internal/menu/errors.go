// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import "errors"

// Typed failures for scope validation. These propagate to the caller;
// malformed menu data (orphans, cycles, duplicates) never does, it is
// recovered in place and logged.
var (
	ErrDashboardNotFound = errors.New("dashboard not found")
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrScopeMismatch     = errors.New("workspace does not belong to dashboard")
)
