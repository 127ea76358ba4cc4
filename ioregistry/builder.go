// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package ioregistry

import (
	"errors"
	"fmt"
)

// Declaration is one role's resolution as parsed from io.toml.
type Declaration struct {
	Role     IoRole
	Kind     RoleKind
	Pin      int   // bit index for RoleDI/RoleDO
	Channel  int   // array index for RoleAI/RoleAO
	Inverted bool  // NC logic; DI/DO only
	Curve    Curve // AI/AO only; nil means identity
}

// RequiredAxisRoles lists the role names every configured axis must
// declare. The axis count is the one passed to NewBuilder; a role
// declared for an axis index outside it is itself a validation failure.
var RequiredAxisRoles = []string{
	RoleLimitMin, RoleLimitMax, RoleReferenced, RoleBrake,
	RoleLockPin, RoleDriveEnable, RoleDriveReady,
}

// RequiredGlobalRoles lists mandatory global role names.
var RequiredGlobalRoles = []string{RoleEStop}

// Builder collects role declarations before a single validating Build.
type Builder struct {
	decls     []Declaration
	axisCount int
}

// NewBuilder returns an empty Builder for a machine with axisCount axes.
func NewBuilder(axisCount int) *Builder {
	return &Builder{axisCount: axisCount}
}

// Declare adds one role declaration. Declare never fails; all checking
// happens in Build so every problem in a config file is reported together.
func (b *Builder) Declare(d Declaration) *Builder {
	b.decls = append(b.decls, d)
	return b
}

// Build validates every declaration and, if none are in violation,
// constructs a Registry. On failure it returns a joined error containing
// every violation found (errors.Join), not just the first.
func (b *Builder) Build() (*Registry, error) {
	var errs []error

	seenPin := map[RoleKind]map[int]IoRole{RoleDI: {}, RoleDO: {}, RoleAI: {}, RoleAO: {}}
	seenRole := map[IoRole]bool{}

	for _, d := range b.decls {
		if seenRole[d.Role] {
			errs = append(errs, &ValidationError{ReasonDuplicateRole, fmt.Sprintf("role %+v declared more than once", d.Role)})
		}
		seenRole[d.Role] = true

		key := d.Pin
		if d.Kind == RoleAI || d.Kind == RoleAO {
			key = d.Channel
		}
		if owner, ok := seenPin[d.Kind][key]; ok {
			errs = append(errs, &ValidationError{ReasonDuplicatePin, fmt.Sprintf("%s index %d already assigned to role %+v, conflicts with %+v", d.Kind, key, owner, d.Role)})
		} else {
			seenPin[d.Kind][key] = d.Role
		}

		if (d.Kind == RoleAI || d.Kind == RoleAO) && d.Inverted {
			errs = append(errs, &ValidationError{ReasonInvertOnAnalog, fmt.Sprintf("role %+v", d.Role)})
		}

		if d.Role.Axis != NoAxis && (d.Role.Axis < 0 || d.Role.Axis >= b.axisCount) {
			errs = append(errs, &ValidationError{ReasonRoleTypeMismatch, fmt.Sprintf("role %+v references axis %d outside [0,%d)", d.Role, d.Role.Axis, b.axisCount)})
		}
	}

	for _, name := range RequiredGlobalRoles {
		if !seenRole[GlobalRole(name)] {
			errs = append(errs, &ValidationError{ReasonRoleMissing, "global role " + name})
		}
	}
	for axis := 0; axis < b.axisCount; axis++ {
		for _, name := range RequiredAxisRoles {
			if !seenRole[AxisRole(name, axis)] {
				errs = append(errs, &ValidationError{ReasonRoleMissing, fmt.Sprintf("axis %d role %s", axis, name)})
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	r := &Registry{
		di: map[IoRole]Declaration{},
		do: map[IoRole]Declaration{},
		ai: map[IoRole]Declaration{},
		ao: map[IoRole]Declaration{},
	}
	for _, d := range b.decls {
		switch d.Kind {
		case RoleDI:
			r.di[d.Role] = d
		case RoleDO:
			r.do[d.Role] = d
		case RoleAI:
			r.ai[d.Role] = d
		case RoleAO:
			r.ao[d.Role] = d
		}
	}
	return r, nil
}
