// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

// Package config loads and validates the runtime's TOML configuration
// files: config.toml, machine.toml, io.toml, and one axis_<NN>_<label>.toml
// per axis (spec.md §6). Loading is strict: unknown fields are rejected,
// and numeric parameters are checked against declared bounds.
package config

// WatchdogConfig is the [watchdog] section of config.toml, consumed by
// the supervisor.
type WatchdogConfig struct {
	MaxRestarts      int     `toml:"max_restarts"`
	InitialBackoffMs int     `toml:"initial_backoff_ms"`
	MaxBackoffS      float64 `toml:"max_backoff_s"`
	StableRunS       float64 `toml:"stable_run_s"`
	SigtermTimeoutS  float64 `toml:"sigterm_timeout_s"`
	HalReadyTimeoutS float64 `toml:"hal_ready_timeout_s"`
}

// SystemConfig is the top-level config.toml.
type SystemConfig struct {
	CyclePeriodUs  int64          `toml:"cycle_period_us"`
	OverrunMarginUs int64         `toml:"overrun_margin_us"`
	DiagnosticsEveryNCycles int   `toml:"diagnostics_every_n_cycles"`
	RTPriority     int            `toml:"rt_priority"`
	CPUAffinity    int            `toml:"cpu_affinity"`
	LogLevel       string         `toml:"log_level"`
	Watchdog       WatchdogConfig `toml:"watchdog"`
}

// MachineConfig is machine.toml: machine identity and global safety.
type MachineConfig struct {
	Name              string  `toml:"name"`
	AxisCount         int     `toml:"axis_count"`
	DefaultSafeStopS  float64 `toml:"default_safe_stop_s"`
}

// IoPointConfig is one entry of io.toml: a declared I/O role binding.
type IoPointConfig struct {
	Role      string  `toml:"role"`
	Axis      *int    `toml:"axis"` // omitted means a global role, not per-axis
	Kind      string  `toml:"kind"` // "DI", "DO", "AI", "AO"
	Pin       int     `toml:"pin"`
	Channel   int     `toml:"channel"`
	Inverted  bool    `toml:"inverted"`
	Curve     string  `toml:"curve"` // "linear" or "polynomial"; empty means identity
	Scale     float64 `toml:"scale"`
	Offset    float64 `toml:"offset"`
	Coeffs    []float64 `toml:"coeffs"`
}

// IoConfig is io.toml: every declared I/O point.
type IoConfig struct {
	Points []IoPointConfig `toml:"points"`
}

// AxisConfig is one axis_<NN>_<label>.toml: the axis's load-time control
// parameters (spec.md §3).
type AxisConfig struct {
	Index int    `toml:"index"`
	Label string `toml:"label"`

	PID struct {
		Kp float64 `toml:"kp"`
		Ki float64 `toml:"ki"`
		Kd float64 `toml:"kd"`
		Tf float64 `toml:"tf"`
		Tt float64 `toml:"tt"`
	} `toml:"pid"`

	Feedforward struct {
		Kvff     float64 `toml:"kvff"`
		Kaff     float64 `toml:"kaff"`
		Friction float64 `toml:"friction"`
	} `toml:"feedforward"`

	DOB struct {
		Jn   float64 `toml:"jn"`
		Bn   float64 `toml:"bn"`
		GDOB float64 `toml:"g_dob"`
	} `toml:"dob"`

	Filters struct {
		FNotch  float64 `toml:"f_notch"`
		BWNotch float64 `toml:"bw_notch"`
		FLP     float64 `toml:"f_lp"`
	} `toml:"filters"`

	OutMax           float64 `toml:"out_max"`
	LagErrorLimit    float64 `toml:"lag_error_limit"`
	LagPolicy        string  `toml:"lag_policy"`
	SafeStopCategory string  `toml:"safe_stop_category"`
	SafeStopDecel    float64 `toml:"safe_stop_decel"`
	HomingMethod     int     `toml:"homing_method"`
	HomingDirection  int     `toml:"homing_direction"`
}
