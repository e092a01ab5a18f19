package dbm

// Speed selects the connection speed mode programmed by SetSpeed. The
// value is written to the general configuration register as-is.
type Speed uint32

// Speed modes.
const (
	SpeedSuper Speed = 0 // SuperSpeed (USB 3.0) operation
	SpeedHigh  Speed = 1 // HighSpeed (USB 2.0) operation
)

// String returns a human-readable speed mode name.
func (s Speed) String() string {
	switch s {
	case SpeedSuper:
		return "SuperSpeed"
	case SpeedHigh:
		return "HighSpeed"
	default:
		return "Unknown"
	}
}

// EndpointConfig describes one DBM endpoint configuration request.
type EndpointConfig struct {
	Endpoint    uint8 // logical USB endpoint number, bound by ConfigureDataFIFO
	Pipe        uint8 // BAM pipe preference; unused on revision 1.5, the endpoint is resolved from its binding
	Producer    bool  // device-to-host (IN) direction
	DisableWB   bool  // disable write-back to system memory
	InternalMem bool  // keep the data FIFO in internal USB memory (no hardware support, ignored)
	IOC         bool  // raise an interrupt on transfer completion
}

// Driver is the operation table the DBM exposes to the USB controller
// driver that owns it.
//
// The eight operations mirror the hardware programming model one to
// one. The owning controller driver supplies physical addresses and
// sizes, decides call ordering, and handles recovery; every operation
// reports failure to its immediate caller and never retries internally.
type Driver interface {
	// SoftReset enters (true) or exits (false) global soft reset.
	SoftReset(enter bool) error

	// ConfigureEndpoint routes a bound logical endpoint through the
	// DBM and returns the DBM endpoint carrying it.
	ConfigureEndpoint(cfg EndpointConfig) (int, error)

	// UnconfigureEndpoint returns a logical endpoint to the normal
	// datapath and releases its DBM endpoint.
	UnconfigureEndpoint(endpoint uint8) error

	// NumConfiguredEndpoints returns the number of DBM endpoints
	// currently bound to a logical endpoint.
	NumConfiguredEndpoints() int

	// ConfigureEventBuffer points the DBM at the controller's event
	// buffer, given as split 64-bit address halves and a byte size.
	ConfigureEventBuffer(addrLo, addrHi uint32, size int) error

	// ConfigureDataFIFO programs a data FIFO address and size into the
	// DBM endpoint selected by pipe and binds the logical endpoint to
	// it.
	ConfigureDataFIFO(endpoint uint8, addr uint64, size uint32, pipe uint8) error

	// SetSpeed programs the connection speed mode.
	SetSpeed(speed Speed) error

	// Enable activates the data paths of all DBM endpoints.
	Enable() error
}
