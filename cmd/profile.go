package cmd

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/spiffcs/gameshell/internal/log"
)

// startProfiles turns on the profiles requested in opts. The returned stop
// function unwinds them in reverse order and writes the heap profile last,
// after the shell has released its world.
func startProfiles(opts *Options) (_ func(), err error) {
	var stops []func()
	unwind := func() {
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i]()
		}
	}
	defer func() {
		if err != nil {
			unwind()
		}
	}()

	if opts.MemProfile != "" {
		path := opts.MemProfile
		stops = append(stops, func() { writeHeapProfile(path) })
	}

	if opts.CPUProfile != "" {
		f, err := os.Create(opts.CPUProfile)
		if err != nil {
			return nil, fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("could not start CPU profile: %w", err)
		}
		log.Debug("cpu profiling", "path", opts.CPUProfile)
		stops = append(stops, func() {
			pprof.StopCPUProfile()
			closeProfile(f)
		})
	}

	if opts.Trace != "" {
		f, err := os.Create(opts.Trace)
		if err != nil {
			return nil, fmt.Errorf("could not create trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("could not start trace: %w", err)
		}
		log.Debug("execution trace", "path", opts.Trace)
		stops = append(stops, func() {
			trace.Stop()
			closeProfile(f)
		})
	}

	return unwind, nil
}

func writeHeapProfile(path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Warn("could not create memory profile", "error", err)
		return
	}
	defer closeProfile(f)
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Warn("could not write memory profile", "path", path, "error", err)
	}
}

func closeProfile(f *os.File) {
	if err := f.Close(); err != nil {
		log.Warn("could not close profile", "path", f.Name(), "error", err)
	}
}
