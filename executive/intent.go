// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package executive

import (
	"github.com/evo-automation/evo-core/axisfsm"
	"github.com/evo-automation/evo-core/segments"
)

// axisIntent is the executive's own per-axis command-arbitration state:
// the latched effect of the most recent external command or recipe step
// applied to this axis, re-evaluated into axisfsm.CycleInputs every cycle
// (spec.md §3's command-source lock, simplified to "most recent command
// wins").
type axisIntent struct {
	EnableRequested  bool
	DisableRequested bool
	ResetRequested   bool
	HomingRequested  bool
	MoveRequested    bool

	Mode axisfsm.OperationalMode

	TargetPosition     float64
	TargetVelocity     float64
	TargetAcceleration float64
}

// recipeProgress tracks the single active recipe program's execution
// cursor. Only one program runs at a time; a new SequenceID restarts it
// (spec.md §4.3's RecipeCommand/RecipeAck exchange).
type recipeProgress struct {
	sequence uint64
	step     uint32
	active   bool
}

func (e *Executive) applyExternalCommand(cmd segments.ExternalCommand, lastSeq *uint64) {
	if cmd.Kind == segments.ExternalCommandNone || cmd.SequenceID == *lastSeq {
		return
	}
	*lastSeq = cmd.SequenceID

	axis := int(cmd.TargetAxis)
	if axis < 0 || axis >= len(e.intents) {
		return
	}
	in := &e.intents[axis]

	switch cmd.Kind {
	case segments.ExternalCommandStart:
		in.EnableRequested = true
		in.DisableRequested = false
	case segments.ExternalCommandStop:
		in.EnableRequested = false
		in.DisableRequested = true
		in.MoveRequested = false
	case segments.ExternalCommandReset:
		in.ResetRequested = true
	case segments.ExternalCommandModeChange:
		in.Mode = axisfsm.OperationalMode(cmd.Value)
	case segments.ExternalCommandSetTarget:
		in.TargetPosition = cmd.Value
		in.MoveRequested = true
	}
}

// applyRecipeCommand advances the single active recipe program by one
// step per cycle once its gate condition (if any) is satisfied, applying
// the step's target to the addressed axis and acknowledging progress.
// Recipe interpretation beyond single-step dispatch (branching, looping)
// belongs to the external scripting engine that composed the program,
// out of scope here (spec.md §1).
func (e *Executive) applyRecipeCommand(cmd segments.RecipeCommand, fb *segments.HalFeedback) segments.RecipeAck {
	if cmd.SequenceID != e.recipe.sequence {
		e.recipe = recipeProgress{sequence: cmd.SequenceID, active: cmd.StepCount > 0}
	}

	if !e.recipe.active || e.recipe.step >= cmd.StepCount {
		return segments.RecipeAck{SequenceID: e.recipe.sequence, StepIndex: e.recipe.step, Accepted: 1}
	}

	step := cmd.Steps[e.recipe.step]
	gateOpen := step.GateDI == 0 || fb.DigitalIn.Get(int(step.GateDI))
	if !gateOpen {
		return segments.RecipeAck{SequenceID: e.recipe.sequence, StepIndex: e.recipe.step, Accepted: 1}
	}

	axis := int(step.TargetAxis)
	if axis >= 0 && axis < len(e.intents) {
		in := &e.intents[axis]
		in.TargetPosition = step.TargetPosition
		in.TargetVelocity = step.TargetVelocity
		in.MoveRequested = true
	}

	e.recipe.step++
	if e.recipe.step >= cmd.StepCount {
		e.recipe.active = false
	}
	return segments.RecipeAck{SequenceID: e.recipe.sequence, StepIndex: e.recipe.step, Accepted: 1}
}
