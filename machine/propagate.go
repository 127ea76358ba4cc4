// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package machine

import "github.com/evo-automation/evo-core/axisfsm"

// PropagateCriticalFaults runs the cross-axis propagation pass (spec.md
// §4.6, §7, §8 scenario 5): a coupled slave's fault is mirrored onto its
// master, and any axis carrying a critical fault forces every axis into
// EmergencyStop within the same cycle, transitions SafetyState to
// SafetyStop, and MachineState to SystemError.
//
// couplingMasters maps a slave axis index to its master's index; axes
// absent from the map are not coupled.
func (m *Machine) PropagateCriticalFaults(couplingMasters map[int]int) {
	for slave, master := range couplingMasters {
		if slave < 0 || slave >= len(m.Axes) || master < 0 || master >= len(m.Axes) {
			continue
		}
		if m.Axes[slave].CouplingErr&axisfsm.CouplingErrSlaveFault != 0 {
			m.Axes[master].CouplingErr |= axisfsm.CouplingErrSlaveFault
		}
	}

	anyCritical := false
	for i := range m.Axes {
		if m.Axes[i].HasCriticalFault() {
			anyCritical = true
			break
		}
	}
	if !anyCritical {
		return
	}

	for i := range m.Axes {
		m.Axes[i].EmergencyStop()
	}
	m.Safety = SafetyStop
	m.State = SystemError
}
