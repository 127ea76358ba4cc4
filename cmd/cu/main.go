// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

// Command cu is the control-unit process: it loads configuration, builds
// the I/O registry, and runs the deterministic cyclic executive (spec.md
// §4.4, §6).
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/evo-automation/evo-core/config"
	"github.com/evo-automation/evo-core/executive"
	"github.com/evo-automation/evo-core/telemetry"
)

// Exit codes (spec.md §6): 0 on clean shutdown, nonzero reserved for
// fatal startup errors.
const (
	exitOK             = 0
	exitConfigInvalid  = 1
	exitSegmentMissing = 2
	exitSchedDenied    = 3
)

func main() {
	configDir := flag.String("config-dir", "/etc/evo", "directory containing config.toml, machine.toml, io.toml, axis_*.toml")
	flag.Parse()

	os.Exit(run(*configDir))
}

func run(configDir string) int {
	bundle, err := config.LoadAll(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cu: load config: %v\n", err)
		return exitConfigInvalid
	}

	log := telemetry.New(os.Stderr, telemetry.LevelFromString(bundle.System.LogLevel))

	registry, err := config.BuildRegistry(&bundle.Io, bundle.Machine.AxisCount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cu: build io registry: %v\n", err)
		return exitConfigInvalid
	}

	exec := executive.New(log, bundle, registry)

	opts := executive.StartupOptions{
		CPUAffinity:   bundle.System.CPUAffinity,
		RTPriority:    bundle.System.RTPriority,
		LockMemory:    true,
		PrefaultPages: true,
	}
	if err := exec.Start(opts); err != nil {
		fmt.Fprintf(os.Stderr, "cu: start: %v\n", err)
		if os.IsPermission(err) {
			return exitSchedDenied
		}
		return exitSegmentMissing
	}
	defer exec.Close()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigc
		log.Info().Log("received termination signal")
		exec.RequestStop()
	}()

	if err := exec.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "cu: run: %v\n", err)
		return exitSegmentMissing
	}
	return exitOK
}
