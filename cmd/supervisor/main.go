// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

// Command supervisor is the watchdog/parent process: it cleans up orphan
// segments from a prior run, spawns the HAL and control-unit binaries in
// order, and supervises them for the remainder of the process lifetime
// (spec.md §5).
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/evo-automation/evo-core/config"
	"github.com/evo-automation/evo-core/segments"
	"github.com/evo-automation/evo-core/supervisor"
	"github.com/evo-automation/evo-core/telemetry"
)

const (
	exitOK            = 0
	exitConfigInvalid = 1
)

func main() {
	configDir := flag.String("config-dir", "/etc/evo", "directory containing config.toml, machine.toml, io.toml, axis_*.toml")
	halPath := flag.String("hal-binary", "hal", "path to the hal binary")
	cuPath := flag.String("cu-binary", "cu", "path to the cu binary")
	flag.Parse()

	os.Exit(run(*configDir, *halPath, *cuPath))
}

func run(configDir, halPath, cuPath string) int {
	bundle, err := config.LoadAll(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "supervisor: load config: %v\n", err)
		return exitConfigInvalid
	}

	log := telemetry.New(os.Stderr, telemetry.LevelFromString(bundle.System.LogLevel))

	args := []string{"--config-dir", configDir}
	specs := []supervisor.ModuleSpec{
		{
			Name:             "hal",
			Path:             halPath,
			Args:             args,
			HeartbeatSegment: segments.SegmentName(segments.Hal, segments.Cu),
		},
		{
			Name:             "cu",
			Path:             cuPath,
			Args:             args,
			HeartbeatSegment: segments.SegmentName(segments.Cu, segments.Hal),
		},
	}

	sup := supervisor.New(log, specs)

	if err := sup.CleanOrphanSegments(); err != nil {
		log.Warning().Err(err).Log("orphan segment cleanup failed")
	}

	if err := sup.StartAll(); err != nil {
		fmt.Fprintf(os.Stderr, "supervisor: start: %v\n", err)
		sup.ShutdownAll()
		return exitConfigInvalid
	}

	stop := make(chan struct{})
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigc
		log.Info().Log("received termination signal")
		close(stop)
	}()

	if err := sup.Monitor(stop); err != nil {
		fmt.Fprintf(os.Stderr, "supervisor: monitor: %v\n", err)
		return exitConfigInvalid
	}
	return exitOK
}
