package main

import (
	"context"
	"os"
	"os/signal"
	"runtime/pprof"

	"golang.org/x/sync/errgroup"

	"famicore/emu"
	"famicore/ines"
)

func runRom(cmd Run) {
	rom, err := ines.Open(cmd.RomPath)
	checkf(err, "failed to open rom")

	if cmd.CPUProfile != "" {
		f, err := os.Create(cmd.CPUProfile)
		checkf(err, "failed to create profile file")
		defer f.Close()

		checkf(pprof.StartCPUProfile(f), "failed to start profiling")
		defer pprof.StopCPUProfile()
	}

	cfg := emu.LoadConfigOrDefault()
	if cmd.Trace != nil {
		cfg.TraceOut = cmd.Trace
		cfg.TraceJSON = cmd.TraceJSON
		defer cmd.Trace.Close()
	}

	e, err := emu.Launch(rom, cfg)
	checkf(err, "failed to launch emulator")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop()
		return e.Run()
	})
	g.Go(func() error {
		<-ctx.Done()
		e.Stop()
		return nil
	})
	checkf(g.Wait(), "emulator error")
}
