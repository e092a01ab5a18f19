// Package hal defines the hardware access layer for the DBM register window.
//
// The DBM block is programmed exclusively through 32-bit reads and writes
// at fixed byte offsets inside one memory-mapped register window. The
// [Window] interface captures exactly that surface, so the register layer
// is independent of how the window is backed:
//
//   - [github.com/ardnew/usbdbm/dbm/hal/devmem] maps the physical window
//     through /dev/mem for use on real hardware.
//   - [github.com/ardnew/usbdbm/dbm/hal/regfile] is an in-memory register
//     file that records every access, used by tests to assert exact
//     register sequences and the placement of mandated delays.
//
// Window accesses are infallible by contract. Anything that can fail
// (opening the memory device, mapping the range) fails at construction
// time of the backend; afterward a read or write is a plain register
// transaction.
package hal
