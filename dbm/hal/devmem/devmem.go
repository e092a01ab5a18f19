//go:build linux

package devmem

import (
	"fmt"
	"os"
	"sync/atomic"
	"syscall"
	"unsafe"

	"github.com/ardnew/usbdbm/dbm/hal"
	"github.com/ardnew/usbdbm/pkg"
)

// DefaultPath is the physical memory device backing mapped windows.
const DefaultPath = "/dev/mem"

// Window is a register window mapped from physical address space.
//
// The whole window is mapped once at Map time; afterward Read32 and
// Write32 are plain register transactions with no error path. Accesses
// use whole-word atomic loads and stores because the DBM registers are
// 32-bit and must not be split, merged, or elided.
type Window struct {
	mem  []byte // page-aligned mapping
	regs []byte // register window view inside mem
}

var _ hal.WindowCloser = (*Window)(nil)

// Map maps size bytes of physical address space starting at base from
// the default physical memory device.
func Map(base uint64, size uint32) (*Window, error) {
	return MapPath(DefaultPath, base, size)
}

// MapPath maps size bytes of physical address space starting at base
// from the physical memory device at path.
func MapPath(path string, base uint64, size uint32) (*Window, error) {
	if size == 0 {
		return nil, fmt.Errorf("map %#x: %w", base, pkg.ErrInvalidSize)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	// mmap offsets must be page-aligned; base need not be.
	pageOff, mapLen := pageSpan(base, size, os.Getpagesize())
	mem, err := syscall.Mmap(int(f.Fd()), int64(base-pageOff), int(mapLen),
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %#x+%#x: %w", base, size, err)
	}

	pkg.LogDebugf(pkg.ComponentHAL, "mapped %#x+%#x from %s", base, size, path)

	return &Window{mem: mem, regs: mem[pageOff : pageOff+uint64(size)]}, nil
}

// pageSpan returns the offset of base within its page and the mapping
// length covering size bytes from base, rounded out to whole pages.
func pageSpan(base uint64, size uint32, pageSize int) (pageOff, mapLen uint64) {
	ps := uint64(pageSize)
	pageOff = base % ps
	mapLen = (pageOff + uint64(size) + ps - 1) / ps * ps
	return pageOff, mapLen
}

// Read32 returns the register value at the given byte offset.
func (w *Window) Read32(offset uint32) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(&w.regs[offset])))
}

// Write32 stores value into the register at the given byte offset.
func (w *Window) Write32(offset, value uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&w.regs[offset])), value)
}

// Close unmaps the window. The window must not be accessed after Close.
func (w *Window) Close() error {
	if w.mem == nil {
		return pkg.ErrClosed
	}
	mem := w.mem
	w.mem, w.regs = nil, nil
	if err := syscall.Munmap(mem); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}
