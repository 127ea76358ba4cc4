// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package ioregistry

import (
	"fmt"

	"github.com/evo-automation/evo-core/segments"
)

// Registry is the validated, immutable result of Builder.Build. It is
// constructed once at startup and shared by reference; no method mutates
// it.
type Registry struct {
	di map[IoRole]Declaration
	do map[IoRole]Declaration
	ai map[IoRole]Declaration
	ao map[IoRole]Declaration
}

// ErrUnknownRole is returned by the accessor methods when role was never
// declared for the requested kind.
type ErrUnknownRole struct {
	Role IoRole
	Kind RoleKind
}

func (e *ErrUnknownRole) Error() string {
	return fmt.Sprintf("ioregistry: role %+v not declared as %s", e.Role, e.Kind)
}

// ReadDI resolves role against bank, applying NC/NO inversion.
func (r *Registry) ReadDI(role IoRole, bank *segments.DigitalBank) (bool, error) {
	d, ok := r.di[role]
	if !ok {
		return false, &ErrUnknownRole{role, RoleDI}
	}
	v := bank.Get(d.Pin)
	if d.Inverted {
		v = !v
	}
	return v, nil
}

// ReadAI resolves role against values, applying the role's curve.
func (r *Registry) ReadAI(role IoRole, values *[segments.MaxAI]float64) (float64, error) {
	d, ok := r.ai[role]
	if !ok {
		return 0, &ErrUnknownRole{role, RoleAI}
	}
	raw := values[d.Channel]
	if d.Curve == nil {
		return raw, nil
	}
	return d.Curve.Apply(raw), nil
}

// WriteDO resolves role and sets its bit in bank, applying inversion.
func (r *Registry) WriteDO(role IoRole, value bool, bank *segments.DigitalBank) error {
	d, ok := r.do[role]
	if !ok {
		return &ErrUnknownRole{role, RoleDO}
	}
	if d.Inverted {
		value = !value
	}
	bank.Set(d.Pin, value)
	return nil
}

// WriteAO resolves role and writes its scaled value into values.
func (r *Registry) WriteAO(role IoRole, value float64, values *[segments.MaxAO]float64) error {
	d, ok := r.ao[role]
	if !ok {
		return &ErrUnknownRole{role, RoleAO}
	}
	if d.Curve == nil {
		values[d.Channel] = value
		return nil
	}
	values[d.Channel] = d.Curve.Invert(value)
	return nil
}
