// Package prof provides on-demand CPU profiling for the dbmctl tool.
//
// It wraps [runtime/pprof] and is conditionally compiled using the
// "profile" build tag:
//
//	go build -tags profile ./cmd/dbmctl
//
// When built without the tag, all exported functions become no-ops, so
// the tool's --cpuprofile flag can stay wired in release builds without
// any pprof overhead.
//
// # CPU Profiling
//
// CPU profiling streams samples to a file and requires explicit
// start/stop:
//
//	prof.StartCPU("cpu.prof")
//	defer prof.StopCPU()
//	// ... code to profile ...
//
// Attempting to start CPU profiling while already active returns
// [ErrCPUProfileActive].
package prof
