// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// decodeStrict decodes path into v and rejects any key in the file that v
// does not declare, so a typo in a TOML file fails loudly instead of
// silently keeping a default.
func decodeStrict(path string, v interface{}) error {
	md, err := toml.DecodeFile(path, v)
	if err != nil {
		return newLoadError(path, "", err.Error())
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return newLoadError(path, keys[0], "unknown key")
	}
	return nil
}

// LoadSystemConfig reads and validates config.toml.
func LoadSystemConfig(path string) (*SystemConfig, error) {
	var c SystemConfig
	if err := decodeStrict(path, &c); err != nil {
		return nil, err
	}
	if err := c.validate(path); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadMachineConfig reads and validates machine.toml.
func LoadMachineConfig(path string) (*MachineConfig, error) {
	var c MachineConfig
	if err := decodeStrict(path, &c); err != nil {
		return nil, err
	}
	if err := c.validate(path); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadIoConfig reads and validates io.toml.
func LoadIoConfig(path string) (*IoConfig, error) {
	var c IoConfig
	if err := decodeStrict(path, &c); err != nil {
		return nil, err
	}
	if err := c.validate(path); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadAxisConfigs reads every axis_<NN>_<label>.toml file in dir, sorted
// by file name so axis declaration order is deterministic.
func LoadAxisConfigs(dir string) ([]AxisConfig, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "axis_*.toml"))
	if err != nil {
		return nil, newLoadError(dir, "", err.Error())
	}
	sort.Strings(paths)

	axes := make([]AxisConfig, 0, len(paths))
	for _, p := range paths {
		var a AxisConfig
		if err := decodeStrict(p, &a); err != nil {
			return nil, err
		}
		if err := a.validate(p); err != nil {
			return nil, err
		}
		axes = append(axes, a)
	}
	return axes, nil
}

func (c *SystemConfig) validate(path string) error {
	if c.CyclePeriodUs <= 0 {
		return newLoadError(path, "cycle_period_us", "must be positive")
	}
	if c.OverrunMarginUs < 0 {
		return newLoadError(path, "overrun_margin_us", "must not be negative")
	}
	if c.RTPriority < 1 || c.RTPriority > 99 {
		return newLoadError(path, "rt_priority", "must be in [1,99]")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return newLoadError(path, "log_level", "must be one of debug, info, warn, error")
	}
	return c.Watchdog.validate(path)
}

func (w *WatchdogConfig) validate(path string) error {
	if w.MaxRestarts < 0 {
		return newLoadError(path, "watchdog.max_restarts", "must not be negative")
	}
	if w.InitialBackoffMs <= 0 {
		return newLoadError(path, "watchdog.initial_backoff_ms", "must be positive")
	}
	if w.MaxBackoffS <= 0 {
		return newLoadError(path, "watchdog.max_backoff_s", "must be positive")
	}
	if float64(w.InitialBackoffMs)/1000 > w.MaxBackoffS {
		return newLoadError(path, "watchdog.max_backoff_s", "must be >= initial_backoff_ms")
	}
	if w.StableRunS <= 0 {
		return newLoadError(path, "watchdog.stable_run_s", "must be positive")
	}
	if w.SigtermTimeoutS <= 0 {
		return newLoadError(path, "watchdog.sigterm_timeout_s", "must be positive")
	}
	if w.HalReadyTimeoutS <= 0 {
		return newLoadError(path, "watchdog.hal_ready_timeout_s", "must be positive")
	}
	return nil
}

func (c *MachineConfig) validate(path string) error {
	if strings.TrimSpace(c.Name) == "" {
		return newLoadError(path, "name", "must not be empty")
	}
	if c.AxisCount <= 0 || c.AxisCount > 64 {
		return newLoadError(path, "axis_count", "must be in [1,64]")
	}
	if c.DefaultSafeStopS <= 0 {
		return newLoadError(path, "default_safe_stop_s", "must be positive")
	}
	return nil
}

func (c *IoConfig) validate(path string) error {
	for i, p := range c.Points {
		key := fmt.Sprintf("points[%d]", i)
		if strings.TrimSpace(p.Role) == "" {
			return newLoadError(path, key+".role", "must not be empty")
		}
		switch p.Kind {
		case "DI", "DO", "AI", "AO":
		default:
			return newLoadError(path, key+".kind", "must be one of DI, DO, AI, AO")
		}
		if (p.Kind == "DI" || p.Kind == "DO") && p.Pin < 0 {
			return newLoadError(path, key+".pin", "must not be negative")
		}
		if (p.Kind == "AI" || p.Kind == "AO") && p.Channel < 0 {
			return newLoadError(path, key+".channel", "must not be negative")
		}
		switch p.Curve {
		case "", "linear", "polynomial":
		default:
			return newLoadError(path, key+".curve", "must be one of linear, polynomial")
		}
		if p.Curve == "polynomial" && len(p.Coeffs) < 1 {
			return newLoadError(path, key+".coeffs", "polynomial curve requires at least one coefficient")
		}
	}
	return nil
}

func (a *AxisConfig) validate(path string) error {
	if a.Index < 0 {
		return newLoadError(path, "index", "must not be negative")
	}
	if strings.TrimSpace(a.Label) == "" {
		return newLoadError(path, "label", "must not be empty")
	}
	if a.PID.Kp < 0 || a.PID.Ki < 0 || a.PID.Kd < 0 {
		return newLoadError(path, "pid", "gains must not be negative")
	}
	if a.PID.Tf < 0 {
		return newLoadError(path, "pid.tf", "must not be negative")
	}
	if a.PID.Tt < 0 {
		return newLoadError(path, "pid.tt", "must not be negative")
	}
	if a.DOB.GDOB < 0 {
		return newLoadError(path, "dob.g_dob", "must not be negative")
	}
	if a.Filters.FNotch < 0 || a.Filters.BWNotch < 0 || a.Filters.FLP < 0 {
		return newLoadError(path, "filters", "must not be negative")
	}
	if a.OutMax <= 0 {
		return newLoadError(path, "out_max", "must be positive")
	}
	if a.LagErrorLimit < 0 {
		return newLoadError(path, "lag_error_limit", "must not be negative")
	}
	switch a.LagPolicy {
	case "", "desired", "neutral", "unwanted", "critical":
	default:
		return newLoadError(path, "lag_policy", "must be one of desired, neutral, unwanted, critical")
	}
	switch a.SafeStopCategory {
	case "", "sto", "ss1", "ss2":
	default:
		return newLoadError(path, "safe_stop_category", "must be one of sto, ss1, ss2")
	}
	return nil
}
