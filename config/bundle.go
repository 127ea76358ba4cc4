// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package config

import "path/filepath"

// Bundle is every configuration file the executive needs to start a
// cycle, loaded and validated together (spec.md §4.4 step 1).
type Bundle struct {
	System  SystemConfig
	Machine MachineConfig
	Io      IoConfig
	Axes    []AxisConfig
}

// LoadAll loads config.toml, machine.toml, io.toml, and every
// axis_<NN>_<label>.toml file from dir, stopping at the first failure.
func LoadAll(dir string) (*Bundle, error) {
	sys, err := LoadSystemConfig(filepath.Join(dir, "config.toml"))
	if err != nil {
		return nil, err
	}
	mach, err := LoadMachineConfig(filepath.Join(dir, "machine.toml"))
	if err != nil {
		return nil, err
	}
	io, err := LoadIoConfig(filepath.Join(dir, "io.toml"))
	if err != nil {
		return nil, err
	}
	axes, err := LoadAxisConfigs(dir)
	if err != nil {
		return nil, err
	}
	if len(axes) != mach.AxisCount {
		return nil, newLoadError(dir, "machine.axis_count", "does not match the number of axis_*.toml files found")
	}

	return &Bundle{System: *sys, Machine: *mach, Io: *io, Axes: axes}, nil
}
