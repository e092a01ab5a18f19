package dbm

// NumEndpoints is the DBM endpoint count of hardware revision 1.5.
const NumEndpoints = 8

// Byte offsets of the shared registers within the DBM window.
const (
	regDataFifoAddrEn = 0x200 // split FIFO address enable, one bit per endpoint
	regDataFifoSizeEn = 0x204 // split FIFO size enable, one bit per endpoint
	regDbgCnfg        = 0x208 // debug configuration, carries the IOC enable bits
	regSoftReset      = 0x20C // global and per-endpoint soft reset bits
	regGenCfg         = 0x210 // general configuration (speed mode)
	regGevntAdrLSB    = 0x260 // event buffer address, low half
	regGevntAdrMSB    = 0x264 // event buffer address, high half
	regGevntSiz       = 0x268 // event buffer size
	regDataFifoEn     = 0x26C // data FIFO enable
	regGevntAdr       = 0x270 // 32-bit event buffer address (legacy)
	regPipeCfg        = 0x274 // BAM pipe configuration
)

// Byte offsets of the per-endpoint registers.

// regEPCfg is endpoint n's configuration register.
func regEPCfg(n int) uint32 { return 0x000 + 0x4*uint32(n) }

// regDataFifoSize is endpoint n's data FIFO size register.
func regDataFifoSize(n int) uint32 { return 0x080 + 0x4*uint32(n) }

// regDataFifoLSB is the low half of endpoint n's data FIFO address.
func regDataFifoLSB(n int) uint32 { return 0x100 + 0x8*uint32(n) }

// regDataFifoMSB is the high half of endpoint n's data FIFO address.
func regDataFifoMSB(n int) uint32 { return 0x104 + 0x8*uint32(n) }

// regHWTrb0 through regHWTrb3 are endpoint n's hardware TRB words.
// Each bank is 0x10 bytes wide and spans numHWTrbEPs endpoints;
// indices beyond that alias the next bank.
func regHWTrb0(n int) uint32 { return 0x220 + 0x4*uint32(n) }
func regHWTrb1(n int) uint32 { return 0x230 + 0x4*uint32(n) }
func regHWTrb2(n int) uint32 { return 0x240 + 0x4*uint32(n) }
func regHWTrb3(n int) uint32 { return 0x250 + 0x4*uint32(n) }

// numHWTrbEPs is the endpoint count of the TRB snapshot banks, carried
// unchanged from the four-endpoint predecessor of this revision.
const numHWTrbEPs = 4

// regDataFifo is endpoint n's 32-bit data FIFO address (legacy).
func regDataFifo(n int) uint32 { return 0x280 + 0x4*uint32(n) }

// Endpoint configuration register fields.
const (
	epCfgEnable    = 1 << 0  // endpoint enable
	epCfgEPNum     = 0x3E    // USB3 endpoint number
	epCfgBAMPipe   = 0xC0    // BAM pipe number
	epCfgProducer  = 1 << 8  // device-to-host (IN) direction
	epCfgDisableWB = 1 << 9  // disable write-back to system memory
	epCfgIntRAMAcc = 1 << 10 // data FIFO held in internal USB memory
)

// Field masks of the shared registers. Per-endpoint masks carry one bit
// per endpoint.
const (
	softResetMask    = 1 << 31             // global soft reset bit
	softResetEPsMask = 1<<NumEndpoints - 1 // per-endpoint soft reset bits
	enableIOCMask    = 1<<NumEndpoints - 1 // per-endpoint IOC bits in regDbgCnfg
	dataFifoSizeMask = 0xFFFF              // data FIFO size field
	gevntSizMask     = 0xFFFF              // event buffer size field
	fifoEnableAll    = 0x000000FF          // all-endpoints value for both FIFO enable registers
)
