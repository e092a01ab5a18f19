package dbm

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/usbdbm/dbm/hal/regfile"
	"github.com/ardnew/usbdbm/pkg"
)

// newTestController builds a controller over a fresh recording window
// with the recording delay hook installed.
func newTestController(t *testing.T) (*Controller, *regfile.Window) {
	t.Helper()
	w := regfile.New()
	c := New(w)
	c.SetDelayFunc(w.Delay)
	return c, w
}

// bind establishes a data FIFO binding for usb endpoint ep on pipe.
func bind(t *testing.T, c *Controller, ep, pipe uint8) {
	t.Helper()
	require.NoError(t, c.ConfigureDataFIFO(ep, 0x80000000, 512, pipe))
}

func TestConfigureEndpointDirectionRule(t *testing.T) {
	type row struct {
		name     string
		pipe     uint8
		producer bool
		wantErr  error
	}

	var tests []row
	for pipe := 0; pipe < NumEndpoints-1; pipe++ {
		tests = append(tests, row{fmt.Sprintf("ep%d consumer", pipe), uint8(pipe), false, nil})
	}
	tests = append(tests,
		row{"ep7 consumer", 7, false, pkg.ErrNotSupported},
		row{"ep7 producer", 7, true, nil},
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestController(t)
			usb := tt.pipe + 1
			bind(t, c, usb, tt.pipe)
			w.ClearOps()

			got, err := c.ConfigureEndpoint(EndpointConfig{Endpoint: usb, Producer: tt.producer})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, w.Ops(), "failed validation must not touch registers")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int(tt.pipe), got)
			assert.NotZero(t, w.Peek(regEPCfg(int(tt.pipe)))&epCfgEnable)
		})
	}
}

func TestConfigureEndpointFlags(t *testing.T) {
	tests := []struct {
		name     string
		cfg      EndpointConfig
		wantBits uint32
		wantIOC  bool
	}{
		{"consumer", EndpointConfig{}, 0, false},
		{"producer", EndpointConfig{Producer: true}, epCfgProducer, false},
		{"disable wb", EndpointConfig{DisableWB: true}, epCfgDisableWB, false},
		{"producer ioc", EndpointConfig{Producer: true, IOC: true}, epCfgProducer, true},
		{"internal mem ignored", EndpointConfig{Producer: true, InternalMem: true}, epCfgProducer, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestController(t)
			tt.cfg.Endpoint = 4
			bind(t, c, 4, 2)
			w.Poke(regDbgCnfg, 0xFF) // every IOC bit set beforehand

			ep, err := c.ConfigureEndpoint(tt.cfg)
			require.NoError(t, err)
			require.Equal(t, 2, ep)

			cfgReg := w.Peek(regEPCfg(2))
			assert.Equal(t, tt.wantBits, cfgReg&(epCfgProducer|epCfgDisableWB|epCfgIntRAMAcc))
			assert.Equal(t, uint32(4), (cfgReg&epCfgEPNum)>>1)
			assert.NotZero(t, cfgReg&epCfgEnable)

			iocBit := w.Peek(regDbgCnfg) & (1 << 2)
			if tt.wantIOC {
				assert.NotZero(t, iocBit)
			} else {
				assert.Zero(t, iocBit, "IOC bit must be cleared when not requested")
			}
			assert.Equal(t, uint32(0xFB), w.Peek(regDbgCnfg)&^uint32(1<<2),
				"other endpoints' IOC bits must not change")
		})
	}
}

func TestConfigureEndpointEnableBitLast(t *testing.T) {
	c, w := newTestController(t)
	bind(t, c, 3, 2)
	w.ClearOps()

	_, err := c.ConfigureEndpoint(EndpointConfig{Endpoint: 3, Producer: true})
	require.NoError(t, err)

	writes := w.Writes()
	require.NotEmpty(t, writes)

	last := writes[len(writes)-1]
	assert.Equal(t, regEPCfg(2), last.Offset)
	assert.NotZero(t, last.Value&epCfgEnable)

	for _, wr := range writes[:len(writes)-1] {
		if wr.Offset == regEPCfg(2) {
			assert.Zero(t, wr.Value&epCfgEnable, "enable bit must be committed last")
		}
	}
}

func TestConfigureEndpointNotMapped(t *testing.T) {
	c, w := newTestController(t)

	_, err := c.ConfigureEndpoint(EndpointConfig{Endpoint: 9, Producer: true})
	assert.ErrorIs(t, err, pkg.ErrEndpointNotMapped)
	assert.Empty(t, w.Ops())
}

func TestUnconfigureEndpointNotMapped(t *testing.T) {
	c, w := newTestController(t)

	assert.ErrorIs(t, c.UnconfigureEndpoint(9), pkg.ErrEndpointNotMapped)
	assert.Empty(t, w.Ops())
}

func TestConfigureDataFIFOPipeRange(t *testing.T) {
	c, w := newTestController(t)

	err := c.ConfigureDataFIFO(3, 0x1000, 512, NumEndpoints)
	assert.ErrorIs(t, err, pkg.ErrEndpointRange)
	assert.Empty(t, w.Ops())
	assert.Equal(t, 0, c.NumConfiguredEndpoints())
}

func TestConfigureDataFIFOProgramsRegisters(t *testing.T) {
	c, w := newTestController(t)

	require.NoError(t, c.ConfigureDataFIFO(5, 0x123456789, 0x800, 6))

	assert.Equal(t, uint32(0x23456789), w.Peek(regDataFifoLSB(6)))
	assert.Equal(t, uint32(0x1), w.Peek(regDataFifoMSB(6)))
	assert.Equal(t, uint32(0x800), w.Peek(regDataFifoSize(6)))
	assert.Equal(t, 1, c.NumConfiguredEndpoints())
}

func TestUnconfigureEndpointSequence(t *testing.T) {
	c, w := newTestController(t)
	bind(t, c, 4, 1)
	_, err := c.ConfigureEndpoint(EndpointConfig{Endpoint: 4, Producer: true})
	require.NoError(t, err)
	w.ClearOps()

	require.NoError(t, c.UnconfigureEndpoint(4))

	ops := w.Ops()
	require.Len(t, ops, 7)

	kinds := make([]regfile.OpKind, len(ops))
	for i, op := range ops {
		kinds[i] = op.Kind
	}
	assert.Equal(t, []regfile.OpKind{
		regfile.OpRead, regfile.OpWrite, // clear enable bit
		regfile.OpRead, regfile.OpWrite, // reset assert
		regfile.OpDelay,
		regfile.OpRead, regfile.OpWrite, // reset deassert
	}, kinds)

	assert.Equal(t, regEPCfg(1), ops[1].Offset)
	assert.Zero(t, ops[1].Value&epCfgEnable)

	assert.Equal(t, uint32(regSoftReset), ops[3].Offset)
	assert.NotZero(t, ops[3].Value&(1<<1))

	assert.GreaterOrEqual(t, ops[4].Pause, 10*time.Microsecond)

	assert.Equal(t, uint32(regSoftReset), ops[6].Offset)
	assert.Zero(t, ops[6].Value&(1<<1))

	assert.Equal(t, 0, c.NumConfiguredEndpoints())
}

func TestUnconfigureConfigureRoundTrip(t *testing.T) {
	c, w := newTestController(t)
	cfg := EndpointConfig{Endpoint: 5, Producer: true, DisableWB: true, IOC: true}

	require.NoError(t, c.ConfigureDataFIFO(5, 0xC0000000, 1024, 3))
	first, err := c.ConfigureEndpoint(cfg)
	require.NoError(t, err)
	require.Equal(t, 3, first)
	firstCfg := w.Peek(regEPCfg(3))

	require.NoError(t, c.UnconfigureEndpoint(5))
	assert.Equal(t, 0, c.NumConfiguredEndpoints())
	assert.Zero(t, w.Peek(regEPCfg(3))&epCfgEnable)

	require.NoError(t, c.ConfigureDataFIFO(5, 0xC0000000, 1024, 3))
	second, err := c.ConfigureEndpoint(cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstCfg, w.Peek(regEPCfg(3)))
	assert.NotZero(t, w.Peek(regEPCfg(3))&epCfgEnable)
	assert.Equal(t, 1, c.NumConfiguredEndpoints())
}

func TestNumConfiguredEndpointsTracksBindings(t *testing.T) {
	c, _ := newTestController(t)
	assert.Equal(t, 0, c.NumConfiguredEndpoints())

	bind(t, c, 1, 0)
	bind(t, c, 2, 1)
	bind(t, c, 3, 2)
	assert.Equal(t, 3, c.NumConfiguredEndpoints())

	require.NoError(t, c.UnconfigureEndpoint(2))
	assert.Equal(t, 2, c.NumConfiguredEndpoints())

	bind(t, c, 4, 5)
	assert.Equal(t, 3, c.NumConfiguredEndpoints())

	require.NoError(t, c.UnconfigureEndpoint(1))
	require.NoError(t, c.UnconfigureEndpoint(3))
	require.NoError(t, c.UnconfigureEndpoint(4))
	assert.Equal(t, 0, c.NumConfiguredEndpoints())
}

func TestConfigureEventBufferInvalidSize(t *testing.T) {
	c, w := newTestController(t)

	err := c.ConfigureEventBuffer(0x1000, 0, -1)
	assert.ErrorIs(t, err, pkg.ErrInvalidSize)
	assert.Empty(t, w.Ops(), "failed validation must not touch registers")
}

func TestConfigureEventBuffer(t *testing.T) {
	c, w := newTestController(t)

	require.NoError(t, c.ConfigureEventBuffer(0xFEEDF000, 0x1, 0x4000))

	assert.Equal(t, []regfile.Op{
		{Kind: regfile.OpWrite, Offset: regGevntAdrLSB, Value: 0xFEEDF000},
		{Kind: regfile.OpWrite, Offset: regGevntAdrMSB, Value: 0x1},
		{Kind: regfile.OpWrite, Offset: regGevntSiz, Value: 0x4000},
	}, w.Writes())
}

func TestBindThenConfigureScenario(t *testing.T) {
	c, w := newTestController(t)

	require.NoError(t, c.ConfigureDataFIFO(3, 0x100000000, 4096, 2))

	ep, err := c.ConfigureEndpoint(EndpointConfig{Endpoint: 3, Producer: true})
	require.NoError(t, err)
	assert.Equal(t, 2, ep)

	assert.Equal(t, uint32(0), w.Peek(regDataFifoLSB(2)))
	assert.Equal(t, uint32(1), w.Peek(regDataFifoMSB(2)))
	assert.Equal(t, uint32(4096), w.Peek(regDataFifoSize(2)))

	cfgReg := w.Peek(regEPCfg(2))
	assert.Equal(t, uint32(3), (cfgReg&epCfgEPNum)>>1)
	assert.NotZero(t, cfgReg&epCfgEnable)
	assert.NotZero(t, cfgReg&epCfgProducer)

	assert.Equal(t, 1, c.NumConfiguredEndpoints())
}

func TestSoftReset(t *testing.T) {
	c, w := newTestController(t)
	w.Poke(regSoftReset, 0x000000FF) // endpoint reset bits staged

	require.NoError(t, c.SoftReset(true))
	assert.Equal(t, uint32(0x800000FF), w.Peek(regSoftReset))

	require.NoError(t, c.SoftReset(false))
	assert.Equal(t, uint32(0x000000FF), w.Peek(regSoftReset))
}

func TestSoftResetEndpoint(t *testing.T) {
	c, w := newTestController(t)

	require.NoError(t, c.SoftResetEndpoint(3, true))
	assert.Equal(t, uint32(1<<3), w.Peek(regSoftReset))

	require.NoError(t, c.SoftResetEndpoint(3, false))
	assert.Zero(t, w.Peek(regSoftReset))
}

func TestSoftResetEndpointRange(t *testing.T) {
	c, w := newTestController(t)

	assert.ErrorIs(t, c.SoftResetEndpoint(-1, true), pkg.ErrEndpointRange)
	assert.ErrorIs(t, c.SoftResetEndpoint(NumEndpoints, true), pkg.ErrEndpointRange)
	assert.Empty(t, w.Ops())
}

func TestSetSpeed(t *testing.T) {
	c, w := newTestController(t)

	require.NoError(t, c.SetSpeed(SpeedHigh))
	assert.Equal(t, uint32(1), w.Peek(regGenCfg))

	require.NoError(t, c.SetSpeed(SpeedSuper))
	assert.Zero(t, w.Peek(regGenCfg))

	for _, op := range w.Ops() {
		assert.Equal(t, regfile.OpWrite, op.Kind, "speed selection is a plain write")
	}
}

func TestEnable(t *testing.T) {
	c, w := newTestController(t)

	require.NoError(t, c.Enable())

	assert.Equal(t, []regfile.Op{
		{Kind: regfile.OpWrite, Offset: regDataFifoAddrEn, Value: 0xFF},
		{Kind: regfile.OpWrite, Offset: regDataFifoSizeEn, Value: 0xFF},
	}, w.Writes())
}

func TestSetDelayFuncNilRestoresDefault(t *testing.T) {
	c, _ := newTestController(t)
	c.SetDelayFunc(nil)
	bind(t, c, 2, 0)

	start := time.Now()
	require.NoError(t, c.UnconfigureEndpoint(2))
	assert.GreaterOrEqual(t, time.Since(start), resetSettle)
}

func TestSpeedString(t *testing.T) {
	tests := []struct {
		speed Speed
		want  string
	}{
		{SpeedSuper, "SuperSpeed"},
		{SpeedHigh, "HighSpeed"},
		{Speed(7), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.speed.String())
		})
	}
}
