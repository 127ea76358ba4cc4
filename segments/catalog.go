// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

package segments

// Entry documents one named segment in the catalog: its producer,
// consumer, and the payload type instantiated over it. Payload is the
// zero value of that type, present only so callers can recover its
// unsafe.Sizeof and reflect.TypeOf without a type switch.
type Entry struct {
	Name     string
	Producer ModuleID
	Consumer ModuleID
	Purpose  string
	Payload  any
}

// Catalog lists all fifteen segments (spec.md §4.3). The two hot-path
// entries (feedback, command) come first; the rest are grouped by purpose.
var Catalog = []Entry{
	{SegmentName(Hal, Cu), Hal, Cu, "axis feedback, digital/analog inputs", HalFeedback{}},
	{SegmentName(Cu, Hal), Cu, Hal, "axis command, digital/analog outputs", HalCommand{}},

	// Diagnostic snapshots for the two bridges. DiagnosticSnapshot carries
	// no command sequence id, and no catalog entry carries ExternalAck, so
	// external commands are not acknowledged over shared memory.
	{SegmentName(Cu, Mqt), Cu, Mqt, "diagnostic snapshot for the MQTT bridge", DiagnosticSnapshot{}},
	{SegmentName(Cu, Rpc), Cu, Rpc, "diagnostic snapshot for the gRPC bridge", DiagnosticSnapshot{}},

	{SegmentName(Re, Cu), Re, Cu, "recipe execution command program", RecipeCommand{}},
	{SegmentName(Cu, Re), Cu, Re, "recipe execution acknowledgement", RecipeAck{}},

	{SegmentName(Mqt, Cu), Mqt, Cu, "external command via MQTT bridge", ExternalCommand{}},
	{SegmentName(Rpc, Cu), Rpc, Cu, "external command via gRPC bridge", ExternalCommand{}},

	{SegmentName(Hal, Mqt), Hal, Mqt, "raw HAL feedback passthrough for MQTT", HalFeedback{}},
	{SegmentName(Hal, Rpc), Hal, Rpc, "raw HAL feedback passthrough for gRPC", HalFeedback{}},
	{SegmentName(Hal, Re), Hal, Re, "raw HAL feedback passthrough for recipe gating", HalFeedback{}},

	{SegmentName(Mqt, Re), Mqt, Re, "recipe command relayed from MQTT", RecipeCommand{}},
	{SegmentName(Re, Mqt), Re, Mqt, "recipe acknowledgement relayed to MQTT", RecipeAck{}},
	{SegmentName(Rpc, Re), Rpc, Re, "recipe command relayed from gRPC", RecipeCommand{}},
	{SegmentName(Re, Rpc), Re, Rpc, "recipe acknowledgement relayed to gRPC", RecipeAck{}},
}

func init() {
	if len(Catalog) != 15 {
		panic("segments: catalog must list exactly fifteen segment types")
	}
	seen := make(map[string]bool, len(Catalog))
	for _, e := range Catalog {
		if seen[e.Name] {
			panic("segments: duplicate segment name " + e.Name)
		}
		seen[e.Name] = true
	}
}
