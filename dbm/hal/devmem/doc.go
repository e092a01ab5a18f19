// Package devmem maps the DBM register window from physical memory.
//
// The window is established with one mmap of /dev/mem (or another
// physical memory device) covering the block's register range, taken
// from the devicetree reg property at attach time:
//
//	w, err := devmem.Map(dev.Base, uint32(dev.Size))
//	if err != nil {
//	    // attach failure: no mapping was established
//	}
//	defer w.Close()
//
//	c := dbm.New(w)
//
// Failures surface only here, at attach time. Once mapped, register
// accesses are infallible, matching the contract of
// [github.com/ardnew/usbdbm/dbm/hal.Window].
//
// The kernel must permit /dev/mem access to the register range
// (CONFIG_STRICT_DEVMEM restricts this on hardened configurations).
package devmem
