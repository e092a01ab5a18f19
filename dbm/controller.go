package dbm

import (
	"fmt"
	"sync"
	"time"

	"github.com/ardnew/usbdbm/dbm/hal"
	"github.com/ardnew/usbdbm/pkg"
)

// resetSettle is the wait between asserting and deasserting an
// endpoint's soft reset. The hardware programming guide requires 10
// microseconds; deasserting earlier is undefined behavior on this
// hardware revision.
const resetSettle = 10 * time.Microsecond

// Controller drives one DBM 1.5 hardware block.
//
// A Controller owns its register window exclusively. The owning USB
// controller driver is expected to serialize calls into it; the
// internal mutex only guarantees that misuse cannot interleave the
// register sequences of two operations on the same endpoint, it does
// not make concurrent configuration meaningful.
type Controller struct {
	mu    sync.Mutex
	win   hal.Window
	delay func(time.Duration)

	// epBinding maps each DBM endpoint to the logical USB endpoint
	// bound to it; 0 means unbound. A logical endpoint appears in at
	// most one entry at a time (callers bind each endpoint once).
	epBinding [NumEndpoints]uint8
}

var _ Driver = (*Controller)(nil)

// New creates a Controller over an established register window.
func New(w hal.Window) *Controller {
	return &Controller{win: w, delay: time.Sleep}
}

// SetDelayFunc replaces the blocking delay used between reset assert
// and deassert. On real hardware the replacement must block for at
// least the requested duration; recording windows substitute it to
// observe delays in sequence with register traffic. A nil fn restores
// the default.
func (c *Controller) SetDelayFunc(fn func(time.Duration)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fn == nil {
		fn = time.Sleep
	}
	c.delay = fn
}

// findEndpoint returns the DBM endpoint bound to the logical endpoint,
// or -1 when unbound.
func (c *Controller) findEndpoint(endpoint uint8) int {
	for i, bound := range c.epBinding {
		if bound == endpoint {
			return i
		}
	}
	return -1
}

// SoftReset enters or exits global soft reset, returning the whole
// block to a known state.
func (c *Controller) SoftReset(enter bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if enter {
		pkg.LogDebugf(pkg.ComponentDBM, "enter DBM reset")
	} else {
		pkg.LogDebugf(pkg.ComponentDBM, "exit DBM reset")
	}
	c.writeField(regSoftReset, softResetMask, boolBit(enter))
	return nil
}

// SoftResetEndpoint enters or exits soft reset on one DBM endpoint.
// Used around reconfiguration, transfer aborts, and disconnect to force
// the endpoint into a known idle state.
func (c *Controller) SoftResetEndpoint(ep int, enter bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ep < 0 || ep >= NumEndpoints {
		pkg.LogErrorf(pkg.ComponentDBM, "invalid DBM ep index %d", ep)
		return fmt.Errorf("soft reset DBM ep %d: %w", ep, pkg.ErrEndpointRange)
	}
	c.resetEndpointBit(ep, enter)
	return nil
}

// ConfigureEndpoint routes the bound logical endpoint cfg.Endpoint
// through the DBM in BAM mode and returns the DBM endpoint carrying it.
//
// The endpoint must already be bound with ConfigureDataFIFO. The last
// DBM endpoint carries IN traffic only on this hardware revision;
// requesting it as a consumer fails. The enable bit is committed
// strictly after every other field so the hardware never latches a
// partial configuration; on a validation failure no register of the
// endpoint is touched.
func (c *Controller) ConfigureEndpoint(cfg EndpointConfig) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ep := c.findEndpoint(cfg.Endpoint)
	if ep < 0 {
		pkg.LogErrorf(pkg.ComponentDBM, "invalid usb ep index %d", cfg.Endpoint)
		return 0, fmt.Errorf("configure usb ep %d: %w", cfg.Endpoint, pkg.ErrEndpointNotMapped)
	}

	// The last DBM ep can be set as IN ep only.
	if ep == NumEndpoints-1 && !cfg.Producer {
		pkg.LogErrorf(pkg.ComponentDBM, "last DBM ep can't be OUT ep")
		return 0, fmt.Errorf("configure usb ep %d as consumer: %w", cfg.Endpoint, pkg.ErrNotSupported)
	}

	// First, take the endpoint out of reset.
	c.resetEndpointBit(ep, false)

	c.writeField(regDbgCnfg, enableIOCMask&(1<<ep), boolBit(cfg.IOC))

	if cfg.InternalMem {
		pkg.LogWarnf(pkg.ComponentDBM, "no internal memory support, ignoring request")
	}

	// Internal memory is unsupported; its field is always cleared.
	var epCfg uint32
	if cfg.Producer {
		epCfg |= epCfgProducer
	}
	if cfg.DisableWB {
		epCfg |= epCfgDisableWB
	}

	c.writeField(regEPCfg(ep), epCfgProducer|epCfgDisableWB|epCfgIntRAMAcc, epCfg>>8)
	c.writeField(regEPCfg(ep), epCfgEPNum, uint32(cfg.Endpoint))
	c.writeField(regEPCfg(ep), epCfgEnable, 1)

	pkg.LogDebugf(pkg.ComponentDBM, "usb ep %d configured on DBM ep %d", cfg.Endpoint, ep)
	return ep, nil
}

// UnconfigureEndpoint returns the logical endpoint to the normal
// datapath and releases its DBM endpoint.
//
// The endpoint is disabled, then held in soft reset for resetSettle
// before the reset is released.
func (c *Controller) UnconfigureEndpoint(endpoint uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ep := c.findEndpoint(endpoint)
	if ep < 0 {
		pkg.LogErrorf(pkg.ComponentDBM, "invalid usb ep index %d", endpoint)
		return fmt.Errorf("unconfigure usb ep %d: %w", endpoint, pkg.ErrEndpointNotMapped)
	}

	c.epBinding[ep] = 0

	data := c.readReg(regEPCfg(ep))
	data &^= epCfgEnable
	c.writeReg(regEPCfg(ep), data)

	c.resetEndpointBit(ep, true)
	c.delay(resetSettle)
	c.resetEndpointBit(ep, false)

	pkg.LogDebugf(pkg.ComponentDBM, "usb ep %d unconfigured from DBM ep %d", endpoint, ep)
	return nil
}

// NumConfiguredEndpoints returns the number of DBM endpoints currently
// bound to a logical endpoint.
func (c *Controller) NumConfiguredEndpoints() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, bound := range c.epBinding {
		if bound != 0 {
			count++
		}
	}
	return count
}

// ConfigureEventBuffer points the DBM at the USB controller's event
// buffer. Address alignment and range are the caller's responsibility.
func (c *Controller) ConfigureEventBuffer(addrLo, addrHi uint32, size int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if size < 0 {
		pkg.LogErrorf(pkg.ComponentDBM, "invalid event buffer size %d", size)
		return fmt.Errorf("event buffer size %d: %w", size, pkg.ErrInvalidSize)
	}

	c.writeReg(regGevntAdrLSB, addrLo)
	c.writeReg(regGevntAdrMSB, addrHi)
	c.writeField(regGevntSiz, gevntSizMask, uint32(size))
	return nil
}

// ConfigureDataFIFO programs the data FIFO address and size of the DBM
// endpoint selected by pipe and binds the logical endpoint to it. This
// is the bind operation that ConfigureEndpoint later resolves against.
func (c *Controller) ConfigureDataFIFO(endpoint uint8, addr uint64, size uint32, pipe uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if int(pipe) >= NumEndpoints {
		pkg.LogErrorf(pkg.ComponentDBM, "invalid dst pipe index %d", pipe)
		return fmt.Errorf("data fifo pipe %d: %w", pipe, pkg.ErrEndpointRange)
	}

	ep := int(pipe)
	c.epBinding[ep] = endpoint

	c.writeReg(regDataFifoLSB(ep), uint32(addr))
	c.writeReg(regDataFifoMSB(ep), uint32(addr>>32))
	c.writeField(regDataFifoSize(ep), dataFifoSizeMask, size)

	pkg.LogDebugf(pkg.ComponentDBM, "usb ep %d bound to DBM ep %d", endpoint, ep)
	return nil
}

// SetSpeed programs the connection speed mode into the general
// configuration register.
func (c *Controller) SetSpeed(speed Speed) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writeReg(regGenCfg, uint32(speed))
	return nil
}

// Enable activates the data paths of all DBM endpoints by writing the
// all-endpoints value to the FIFO address and size enable registers.
func (c *Controller) Enable() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writeReg(regDataFifoAddrEn, fifoEnableAll)
	c.writeReg(regDataFifoSizeEn, fifoEnableAll)
	return nil
}
