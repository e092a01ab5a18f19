package hal

import "io"

// Window provides 32-bit access to a device register window.
//
// Offsets are byte offsets from the window base and must be 32-bit
// aligned. Accesses cannot fail: a Window wraps a resource whose reads
// and writes have no error path once established (memory-mapped I/O or
// an in-memory register file). Errors establishing the window surface
// from the concrete backend's constructor, not from these methods.
type Window interface {
	// Read32 returns the register value at the given byte offset.
	Read32(offset uint32) uint32

	// Write32 stores value into the register at the given byte offset.
	Write32(offset uint32, value uint32)
}

// WindowCloser is a Window backed by a resource that must be released
// when the device is detached.
type WindowCloser interface {
	Window
	io.Closer
}
