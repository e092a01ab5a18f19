package dbm

import "fmt"

// RegisterValue is one named register and its sampled content.
type RegisterValue struct {
	Name   string
	Offset uint32
	Value  uint32
}

// String formats the sample as name, offset, and value.
func (r RegisterValue) String() string {
	return fmt.Sprintf("%-20s %#06x  %#010x", r.Name, r.Offset, r.Value)
}

// DumpRegisters samples every register of the DBM window in layout
// order, including the TRB and pipe configuration registers no
// configuration operation touches. Read-only; intended for diagnostics.
func (c *Controller) DumpRegisters() []RegisterValue {
	c.mu.Lock()
	defer c.mu.Unlock()

	regs := make([]RegisterValue, 0, 96)
	sample := func(name string, offset uint32) {
		regs = append(regs, RegisterValue{Name: name, Offset: offset, Value: c.readReg(offset)})
	}

	for ep := 0; ep < NumEndpoints; ep++ {
		sample(fmt.Sprintf("EP_CFG[%d]", ep), regEPCfg(ep))
	}
	for ep := 0; ep < NumEndpoints; ep++ {
		sample(fmt.Sprintf("DATA_FIFO_SIZE[%d]", ep), regDataFifoSize(ep))
	}
	for ep := 0; ep < NumEndpoints; ep++ {
		sample(fmt.Sprintf("DATA_FIFO_LSB[%d]", ep), regDataFifoLSB(ep))
		sample(fmt.Sprintf("DATA_FIFO_MSB[%d]", ep), regDataFifoMSB(ep))
	}
	sample("DATA_FIFO_ADDR_EN", regDataFifoAddrEn)
	sample("DATA_FIFO_SIZE_EN", regDataFifoSizeEn)
	sample("DBG_CNFG", regDbgCnfg)
	sample("SOFT_RESET", regSoftReset)
	sample("GEN_CFG", regGenCfg)
	for ep := 0; ep < numHWTrbEPs; ep++ {
		sample(fmt.Sprintf("HW_TRB0_EP[%d]", ep), regHWTrb0(ep))
	}
	for ep := 0; ep < numHWTrbEPs; ep++ {
		sample(fmt.Sprintf("HW_TRB1_EP[%d]", ep), regHWTrb1(ep))
	}
	for ep := 0; ep < numHWTrbEPs; ep++ {
		sample(fmt.Sprintf("HW_TRB2_EP[%d]", ep), regHWTrb2(ep))
	}
	for ep := 0; ep < numHWTrbEPs; ep++ {
		sample(fmt.Sprintf("HW_TRB3_EP[%d]", ep), regHWTrb3(ep))
	}
	sample("GEVNTADR_LSB", regGevntAdrLSB)
	sample("GEVNTADR_MSB", regGevntAdrMSB)
	sample("GEVNTSIZ", regGevntSiz)
	sample("DATA_FIFO_EN", regDataFifoEn)
	sample("GEVNTADR", regGevntAdr)
	sample("PIPE_CFG", regPipeCfg)
	for ep := 0; ep < NumEndpoints; ep++ {
		sample(fmt.Sprintf("DATA_FIFO[%d]", ep), regDataFifo(ep))
	}

	return regs
}
