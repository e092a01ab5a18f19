package dbm

import "math/bits"

// writeField writes val into the register field selected by mask,
// preserving every bit outside the mask. Callers pass unshifted values;
// the field position is the mask's lowest set bit.
func (c *Controller) writeField(offset, mask, val uint32) {
	shift := uint32(bits.TrailingZeros32(mask))
	tmp := c.win.Read32(offset)
	tmp &^= mask
	c.win.Write32(offset, tmp|val<<shift)
}

// readReg returns the register at offset.
func (c *Controller) readReg(offset uint32) uint32 {
	return c.win.Read32(offset)
}

// writeReg stores val into the register at offset.
func (c *Controller) writeReg(offset, val uint32) {
	c.win.Write32(offset, val)
}

// resetEndpointBit sets or clears one endpoint's soft reset bit. The
// endpoint index must already be validated.
func (c *Controller) resetEndpointBit(ep int, enter bool) {
	c.writeField(regSoftReset, softResetEPsMask&(1<<ep), boolBit(enter))
}

// boolBit converts a flag to its single-bit register value.
func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
