// Package platform discovers DBM hardware blocks from the flattened
// device tree and attaches drivers to them.
//
// Discovery and attachment are two separate steps so that callers
// control how the register window is established:
//
//   - [Scan], [Discover], and [DiscoverFile] locate addressable nodes
//     in a device tree and report their compatible strings and register
//     windows as [Device] values
//   - [Probe] attaches a driver to one Device over a register window
//     the caller has already mapped
//
// # Discovery
//
// Scan walks a parsed [fdt.Tree] and returns every node carrying both a
// compatible and a reg property. Register windows are decoded with the
// #address-cells and #size-cells counts in effect at the node, taken
// from the nearest ancestor that declares them and defaulting to two
// address cells and one size cell.
//
// On a running system the tree is read from [DefaultFDTPath]; a saved
// .dtb blob works the same way through [Discover].
//
// # Drivers
//
// Drivers register a [ProbeFunc] against a compatible string. The DBM
// 1.5 driver registers itself for [DBM15Compatible] when this package
// is imported, so the common path is:
//
//	devs, err := platform.DiscoverFile("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range devs {
//	    if !d.Is(platform.DBM15Compatible) {
//	        continue
//	    }
//	    w, err := devmem.Map(d.Base, uint32(d.Size))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    drv, err := platform.Probe(d, w)
//	    ...
//	}
package platform
