// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package config

import (
	"fmt"

	"github.com/evo-automation/evo-core/control"
	"github.com/evo-automation/evo-core/ioregistry"
)

// ToParams converts a validated AxisConfig into the control package's
// runtime representation.
func (a *AxisConfig) ToParams() control.Params {
	p := control.Params{
		Kp: a.PID.Kp, Ki: a.PID.Ki, Kd: a.PID.Kd,
		Tf: a.PID.Tf, Tt: a.PID.Tt,

		Kvff: a.Feedforward.Kvff, Kaff: a.Feedforward.Kaff, Friction: a.Feedforward.Friction,

		Jn: a.DOB.Jn, Bn: a.DOB.Bn, GDOB: a.DOB.GDOB,

		FNotch: a.Filters.FNotch, BWNotch: a.Filters.BWNotch, FLP: a.Filters.FLP,

		OutMax: a.OutMax,

		LagErrorLimit: a.LagErrorLimit,
		LagPolicy:     parseLagPolicy(a.LagPolicy),

		SafeStopCategory: parseSafeStopCategory(a.SafeStopCategory),
		SafeStopDecel:    a.SafeStopDecel,

		HomingMethod:    a.HomingMethod,
		HomingDirection: a.HomingDirection,
	}
	return p
}

func parseLagPolicy(s string) control.LagPolicy {
	switch s {
	case "desired":
		return control.LagDesired
	case "neutral":
		return control.LagNeutral
	case "critical":
		return control.LagCritical
	default:
		return control.LagUnwanted
	}
}

func parseSafeStopCategory(s string) control.SafeStopCategory {
	switch s {
	case "ss1":
		return control.SafeStopSS1
	case "ss2":
		return control.SafeStopSS2
	default:
		return control.SafeStopSTO
	}
}

// BuildRegistry translates the declared I/O points of an IoConfig into an
// ioregistry.Registry, running every declaration through the registry's
// single validating pass (spec.md §4.7).
func BuildRegistry(ioCfg *IoConfig, axisCount int) (*ioregistry.Registry, error) {
	b := ioregistry.NewBuilder(axisCount)
	for i, p := range ioCfg.Points {
		role := ioregistry.GlobalRole(p.Role)
		if p.Axis != nil {
			role = ioregistry.AxisRole(p.Role, *p.Axis)
		}

		kind, err := parseRoleKind(p.Kind)
		if err != nil {
			return nil, newLoadError("io.toml", fmt.Sprintf("points[%d].kind", i), err.Error())
		}

		var curve ioregistry.Curve
		switch p.Curve {
		case "linear":
			curve = ioregistry.LinearCurve{Scale: p.Scale, Offset: p.Offset}
		case "polynomial":
			curve = ioregistry.PolynomialCurve{Coeffs: p.Coeffs}
		}

		b.Declare(ioregistry.Declaration{
			Role:     role,
			Kind:     kind,
			Pin:      p.Pin,
			Channel:  p.Channel,
			Inverted: p.Inverted,
			Curve:    curve,
		})
	}
	return b.Build()
}

func parseRoleKind(s string) (ioregistry.RoleKind, error) {
	switch s {
	case "DI":
		return ioregistry.RoleDI, nil
	case "DO":
		return ioregistry.RoleDO, nil
	case "AI":
		return ioregistry.RoleAI, nil
	case "AO":
		return ioregistry.RoleAO, nil
	default:
		return 0, fmt.Errorf("unknown role kind %q", s)
	}
}
