// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/evo-automation/evo-core/config"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func validSystemToml() string {
	return `
cycle_period_us = 1000
overrun_margin_us = 200
diagnostics_every_n_cycles = 100
rt_priority = 80
cpu_affinity = 2
log_level = "info"

[watchdog]
max_restarts = 5
initial_backoff_ms = 100
max_backoff_s = 30
stable_run_s = 60
sigterm_timeout_s = 2
hal_ready_timeout_s = 5
`
}

func TestLoadSystemConfigValid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.toml", validSystemToml())

	c, err := config.LoadSystemConfig(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("LoadSystemConfig: %v", err)
	}
	if c.CyclePeriodUs != 1000 {
		t.Fatalf("CyclePeriodUs = %d, want 1000", c.CyclePeriodUs)
	}
	if c.Watchdog.MaxRestarts != 5 {
		t.Fatalf("Watchdog.MaxRestarts = %d, want 5", c.Watchdog.MaxRestarts)
	}
}

func TestLoadSystemConfigRejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	// Prepended: a key after the [watchdog] header would belong to that table.
	writeFile(t, dir, "config.toml", "bogus_key = 1\n"+validSystemToml())

	_, err := config.LoadSystemConfig(filepath.Join(dir, "config.toml"))
	if err == nil {
		t.Fatal("expected an error for an unknown top-level key")
	}
	var le *config.LoadError
	if !asLoadError(err, &le) {
		t.Fatalf("error is not a *config.LoadError: %v", err)
	}
	if le.Key != "bogus_key" {
		t.Fatalf("Key = %q, want bogus_key", le.Key)
	}
}

func TestLoadSystemConfigRejectsUnknownNestedKey(t *testing.T) {
	dir := t.TempDir()
	// validSystemToml ends inside [watchdog], so an appended key lands there.
	writeFile(t, dir, "config.toml", validSystemToml()+"bogus = 1\n")

	_, err := config.LoadSystemConfig(filepath.Join(dir, "config.toml"))
	if err == nil {
		t.Fatal("expected an error for an unknown watchdog key")
	}
}

func TestLoadSystemConfigRejectsOutOfBoundPriority(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.toml", `
cycle_period_us = 1000
rt_priority = 150

[watchdog]
max_restarts = 5
initial_backoff_ms = 100
max_backoff_s = 30
stable_run_s = 60
sigterm_timeout_s = 2
hal_ready_timeout_s = 5
`)

	_, err := config.LoadSystemConfig(filepath.Join(dir, "config.toml"))
	if err == nil {
		t.Fatal("expected an error for rt_priority out of [1,99]")
	}
}

func TestLoadMachineConfigValid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "machine.toml", `
name = "press-7"
axis_count = 2
default_safe_stop_s = 0.5
`)

	c, err := config.LoadMachineConfig(filepath.Join(dir, "machine.toml"))
	if err != nil {
		t.Fatalf("LoadMachineConfig: %v", err)
	}
	if c.AxisCount != 2 {
		t.Fatalf("AxisCount = %d, want 2", c.AxisCount)
	}
}

func TestLoadMachineConfigRejectsEmptyName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "machine.toml", `
name = ""
axis_count = 1
default_safe_stop_s = 0.5
`)

	_, err := config.LoadMachineConfig(filepath.Join(dir, "machine.toml"))
	if err == nil {
		t.Fatal("expected an error for an empty machine name")
	}
}

func TestLoadIoConfigValidAndBuildsRegistry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "io.toml", `
[[points]]
role = "EStop"
kind = "DI"
pin = 0

[[points]]
role = "LimitMin"
axis = 0
kind = "DI"
pin = 1

[[points]]
role = "LimitMax"
axis = 0
kind = "DI"
pin = 2

[[points]]
role = "Referenced"
axis = 0
kind = "DI"
pin = 3

[[points]]
role = "Brake"
axis = 0
kind = "DO"
pin = 0

[[points]]
role = "LockPin"
axis = 0
kind = "DI"
pin = 4

[[points]]
role = "DriveEnable"
axis = 0
kind = "DO"
pin = 1

[[points]]
role = "DriveReady"
axis = 0
kind = "DI"
pin = 5
`)

	c, err := config.LoadIoConfig(filepath.Join(dir, "io.toml"))
	if err != nil {
		t.Fatalf("LoadIoConfig: %v", err)
	}
	if len(c.Points) != 8 {
		t.Fatalf("len(Points) = %d, want 8", len(c.Points))
	}

	reg, err := config.BuildRegistry(c, 1)
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}
	if reg == nil {
		t.Fatal("BuildRegistry returned a nil registry with no error")
	}
}

func TestLoadIoConfigRejectsBadKind(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "io.toml", `
[[points]]
role = "EStop"
kind = "WX"
pin = 0
`)

	_, err := config.LoadIoConfig(filepath.Join(dir, "io.toml"))
	if err == nil {
		t.Fatal("expected an error for an invalid io point kind")
	}
}

func validAxisToml() string {
	return `
index = 0
label = "x"
out_max = 10
lag_error_limit = 0.01
lag_policy = "unwanted"
safe_stop_category = "sto"
safe_stop_decel = 5
homing_method = 1
homing_direction = -1

[pid]
kp = 10
ki = 2
kd = 0.1
tf = 0.01
tt = 0.05

[feedforward]
kvff = 1
kaff = 0
friction = 0

[dob]
jn = 0.01
bn = 0
g_dob = 0

[filters]
f_notch = 0
bw_notch = 0
f_lp = 0
`
}

func TestLoadAxisConfigsValid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "axis_00_x.toml", validAxisToml())

	axes, err := config.LoadAxisConfigs(dir)
	if err != nil {
		t.Fatalf("LoadAxisConfigs: %v", err)
	}
	if len(axes) != 1 {
		t.Fatalf("len(axes) = %d, want 1", len(axes))
	}
	p := axes[0].ToParams()
	if p.Kp != 10 || p.Ki != 2 {
		t.Fatalf("ToParams gains = %+v, want Kp=10 Ki=2", p)
	}
}

func TestLoadAxisConfigsOrderedByFileName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "axis_01_y.toml", validAxisToml())
	writeFile(t, dir, "axis_00_x.toml", validAxisToml())

	axes, err := config.LoadAxisConfigs(dir)
	if err != nil {
		t.Fatalf("LoadAxisConfigs: %v", err)
	}
	if len(axes) != 2 {
		t.Fatalf("len(axes) = %d, want 2", len(axes))
	}
}

func TestLoadAxisConfigRejectsNegativeGain(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "axis_00_x.toml", `
index = 0
label = "x"
out_max = 10
lag_error_limit = 0

[pid]
kp = -1
ki = 0
kd = 0
tf = 0
tt = 0

[feedforward]
kvff = 0
kaff = 0
friction = 0

[dob]
jn = 0
bn = 0
g_dob = 0

[filters]
f_notch = 0
bw_notch = 0
f_lp = 0
`)

	_, err := config.LoadAxisConfigs(dir)
	if err == nil {
		t.Fatal("expected an error for a negative PID gain")
	}
}

func TestLoadAllMismatchedAxisCount(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.toml", validSystemToml())
	writeFile(t, dir, "machine.toml", `
name = "press-7"
axis_count = 2
default_safe_stop_s = 0.5
`)
	writeFile(t, dir, "io.toml", `
[[points]]
role = "EStop"
kind = "DI"
pin = 0
`)
	writeFile(t, dir, "axis_00_x.toml", validAxisToml())

	_, err := config.LoadAll(dir)
	if err == nil {
		t.Fatal("expected an error when axis_count does not match the discovered axis files")
	}
}

// asLoadError is a small errors.As wrapper kept local to the test file to
// avoid importing errors solely for this one assertion style.
func asLoadError(err error, target **config.LoadError) bool {
	le, ok := err.(*config.LoadError)
	if !ok {
		return false
	}
	*target = le
	return true
}
