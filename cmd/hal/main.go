// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

// Command hal is a stub hardware abstraction layer producer used for
// local exercising of the control unit without real drives attached: it
// publishes synthetic axis feedback and consumes whatever command the
// control unit issues, integrating a trivial velocity model so a real CU
// sees plausible motion feedback (spec.md §1 treats the actual HAL/drive
// interface as an external collaborator; this binary stands in for it).
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evo-automation/evo-core/config"
	"github.com/evo-automation/evo-core/p2p"
	"github.com/evo-automation/evo-core/segments"
	"github.com/evo-automation/evo-core/telemetry"
)

const (
	exitOK            = 0
	exitConfigInvalid = 1
	exitSegmentFailed = 2
)

func main() {
	configDir := flag.String("config-dir", "/etc/evo", "directory containing config.toml, machine.toml, io.toml, axis_*.toml")
	flag.Parse()

	os.Exit(run(*configDir))
}

func run(configDir string) int {
	bundle, err := config.LoadAll(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hal: load config: %v\n", err)
		return exitConfigInvalid
	}

	log := telemetry.New(os.Stderr, telemetry.LevelFromString(bundle.System.LogLevel))
	period := time.Duration(bundle.System.CyclePeriodUs) * time.Microsecond

	feedback, err := p2p.Create[segments.HalFeedback](segments.SegmentName(segments.Hal, segments.Cu), uint8(segments.Hal), uint8(segments.Cu))
	if err != nil {
		fmt.Fprintf(os.Stderr, "hal: create feedback segment: %v\n", err)
		return exitSegmentFailed
	}
	defer feedback.Close()

	command, err := p2p.Attach[segments.HalCommand](segments.SegmentName(segments.Cu, segments.Hal), uint8(segments.Hal))
	if err != nil {
		fmt.Fprintf(os.Stderr, "hal: attach command segment: %v\n", err)
		return exitSegmentFailed
	}
	defer command.Close()

	axisCount := bundle.Machine.AxisCount
	model := newMotionModel(axisCount)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	log.Info().Int("axis_count", axisCount).Log("hal stub started")

	for {
		select {
		case <-stop:
			log.Info().Log("hal stub stopping")
			return exitOK
		case <-ticker.C:
			cmd, err := command.Read()
			if err == nil {
				model.step(cmd, period.Seconds())
			}
			fb := model.feedback(axisCount)
			feedback.Commit(&fb)
		}
	}
}
