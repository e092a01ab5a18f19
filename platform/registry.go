package platform

import (
	"fmt"
	"sync"

	"github.com/ardnew/usbdbm/dbm"
	"github.com/ardnew/usbdbm/dbm/hal"
	"github.com/ardnew/usbdbm/pkg"
)

// DBM15Compatible is the device tree compatible string of the DBM
// hardware revision this module drives.
const DBM15Compatible = "qcom,usb-dbm-1p5"

// ProbeFunc attaches a driver to a discovered device over an
// established register window.
type ProbeFunc func(w hal.Window) (dbm.Driver, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]ProbeFunc{}
)

// Register installs a probe for a compatible string. A later
// registration of the same string replaces the earlier one.
func Register(compatible string, probe ProbeFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[compatible] = probe
}

// Probe attaches a driver to the device over the given register window,
// trying the device's compatible strings most specific first.
func Probe(d Device, w hal.Window) (dbm.Driver, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, c := range d.Compatible {
		if probe, ok := registry[c]; ok {
			pkg.LogDebugf(pkg.ComponentPlatform, "probing %s as %s", d.Name, c)
			return probe(w)
		}
	}
	return nil, fmt.Errorf("probe %s: %w", d.Name, pkg.ErrNoDriver)
}

func init() {
	Register(DBM15Compatible, func(w hal.Window) (dbm.Driver, error) {
		return dbm.New(w), nil
	})
}
