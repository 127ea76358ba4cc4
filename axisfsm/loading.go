// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package axisfsm

// LoadingInputs are the pre-evaluated conditions for a material-loading
// sequence on axes that carry one.
type LoadingInputs struct {
	LoadRequested   bool
	UnloadRequested bool
	LoadConfirmed   bool
	LoadTimedOut    bool
	SensorFault     bool
}

// StepLoading advances LoadingState for one axis.
func StepLoading(cur LoadingState, in LoadingInputs) LoadingState {
	if in.SensorFault {
		return LoadingFault
	}
	switch cur {
	case Unloaded:
		if in.LoadRequested {
			return Loading
		}
		return Unloaded
	case Loading:
		if in.LoadTimedOut {
			return LoadingFault
		}
		if in.LoadConfirmed {
			return Loaded
		}
		return Loading
	case Loaded:
		if in.UnloadRequested {
			return Unloaded
		}
		return Loaded
	case LoadingFault:
		if !in.SensorFault {
			return Unloaded
		}
		return LoadingFault
	default:
		return cur
	}
}
