package regfile

import (
	"fmt"
	"sync"
	"time"

	"github.com/ardnew/usbdbm/dbm/hal"
)

// OpKind discriminates recorded window operations.
type OpKind int

// Recorded operation kinds.
const (
	OpRead  OpKind = iota // 32-bit register read
	OpWrite               // 32-bit register write
	OpDelay               // blocking delay
)

// String returns a human-readable operation kind name.
func (k OpKind) String() string {
	switch k {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpDelay:
		return "delay"
	default:
		return "unknown"
	}
}

// Op is one recorded window operation.
type Op struct {
	Kind   OpKind
	Offset uint32        // register byte offset (OpRead, OpWrite)
	Value  uint32        // value read or written (OpRead, OpWrite)
	Pause  time.Duration // requested duration (OpDelay)
}

// String formats the operation as one log line.
func (o Op) String() string {
	if o.Kind == OpDelay {
		return fmt.Sprintf("%-5s %s", o.Kind, o.Pause)
	}
	return fmt.Sprintf("%-5s %#06x %#010x", o.Kind, o.Offset, o.Value)
}

// Window is an in-memory register file that records every access.
//
// The register space is sparse; registers never written read as zero.
// Tests preload content with Poke, drive the driver, and assert on the
// recorded operation sequence with Ops or Writes. Delay has the
// signature of the driver's blocking-delay hook, so installing it lets
// tests see the mandated reset delays in sequence with the register
// traffic instead of sleeping through them.
type Window struct {
	mu   sync.Mutex
	regs map[uint32]uint32
	ops  []Op
}

var _ hal.Window = (*Window)(nil)

// New creates an empty register file.
func New() *Window {
	return &Window{regs: make(map[uint32]uint32)}
}

// Read32 returns the register value at offset, recording the access.
func (w *Window) Read32(offset uint32) uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	v := w.regs[offset]
	w.ops = append(w.ops, Op{Kind: OpRead, Offset: offset, Value: v})
	return v
}

// Write32 stores value at offset, recording the access.
func (w *Window) Write32(offset, value uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.regs[offset] = value
	w.ops = append(w.ops, Op{Kind: OpWrite, Offset: offset, Value: value})
}

// Delay records a blocking delay without sleeping.
func (w *Window) Delay(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ops = append(w.ops, Op{Kind: OpDelay, Pause: d})
}

// Poke sets a register without recording the access.
func (w *Window) Poke(offset, value uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.regs[offset] = value
}

// Peek returns the register value at offset without recording the access.
func (w *Window) Peek(offset uint32) uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.regs[offset]
}

// Ops returns a copy of the recorded operation log.
func (w *Window) Ops() []Op {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Op(nil), w.ops...)
}

// Writes returns only the recorded register writes, in order.
func (w *Window) Writes() []Op {
	w.mu.Lock()
	defer w.mu.Unlock()
	var writes []Op
	for _, op := range w.ops {
		if op.Kind == OpWrite {
			writes = append(writes, op)
		}
	}
	return writes
}

// ClearOps discards the recorded operation log. Register content is kept.
func (w *Window) ClearOps() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ops = nil
}
