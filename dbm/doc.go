// Package dbm drives the Qualcomm DBM 1.5 hardware block.
//
// The DBM (Data Bus Mover) is a register-programmable shim inside the
// USB controller complex that routes up to eight peripheral endpoint
// data FIFOs to the BAM DMA subsystem instead of the normal controller
// datapath. This package translates the high-level requests of the
// owning USB controller driver into the masked register accesses the
// block requires.
//
// # Programming Model
//
// A [Controller] is created over an established register window and
// exposes the block's operation table through the [Driver] interface:
// global soft reset, endpoint configure/unconfigure, configured-endpoint
// count, event buffer setup, data FIFO setup, speed selection, and
// global enable. The register layout is fixed for this hardware
// revision; every offset and field mask is a compile-time constant.
//
// # Endpoint Lifecycle
//
// Each of the eight DBM endpoints moves through a fixed lifecycle:
//
//	unbound --ConfigureDataFIFO--> bound --ConfigureEndpoint--> enabled
//	   ^                                                           |
//	   +---------------------UnconfigureEndpoint-------------------+
//
// ConfigureDataFIFO binds a logical USB endpoint to a DBM endpoint and
// programs its FIFO address and size. ConfigureEndpoint resolves the
// binding, programs direction and completion behavior, and sets the
// enable bit strictly last. UnconfigureEndpoint disables the endpoint,
// holds it in soft reset for the hardware-mandated settle time, and
// releases the binding.
//
// # Concurrency
//
// The owning controller driver serializes all calls into a Controller;
// no operation suspends, completes asynchronously, or accepts a
// cancellation context. The Controller nevertheless holds a mutex for
// the full register sequence of each operation so that accidental
// concurrent use cannot interleave two configurations on one endpoint.
//
// # Hardware Access
//
// All register traffic goes through the window interface of
// [github.com/ardnew/usbdbm/dbm/hal], so the same controller logic runs
// against a /dev/mem mapping on hardware and an in-memory recording
// register file in tests.
package dbm
