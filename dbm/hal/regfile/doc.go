// Package regfile implements an in-memory register window for tests.
//
// The register file backs the [github.com/ardnew/usbdbm/dbm/hal.Window]
// interface with a sparse map and records every read, write, and delay
// as an ordered operation log. Tests use it to assert the exact register
// sequences the driver issues:
//
//	w := regfile.New()
//	c := dbm.New(w)
//	c.SetDelayFunc(w.Delay)
//
//	// ... drive the driver ...
//
//	for _, op := range w.Ops() {
//	    // op.Kind, op.Offset, op.Value, op.Pause
//	}
//
// Poke and Peek access register content without polluting the log, so
// tests can stage arbitrary pre-existing register bits and inspect
// results independently of the recorded traffic.
package regfile
