// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package ioregistry

import "fmt"

// ValidationError reports one violation found during Builder.Build. Build
// collects every violation it finds via errors.Join rather than failing
// on the first, so a misconfigured io.toml is diagnosed in one pass.
type ValidationError struct {
	Reason string // one of the Reason* constants below, for programmatic matching
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ioregistry: %s: %s", e.Reason, e.Detail)
}

const (
	ReasonDuplicatePin    = "duplicate pin assignment"
	ReasonDuplicateRole   = "duplicate role"
	ReasonRoleTypeMismatch = "role type mismatch"
	ReasonRoleMissing     = "required role missing"
	ReasonInvertOnAnalog  = "inversion not applicable to analog role"
)
