package platform

import (
	"encoding/binary"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/platinasystems/fdt"

	"github.com/ardnew/usbdbm/pkg"
)

// DefaultFDTPath is where the Linux kernel exposes the flattened device
// tree of the running system.
const DefaultFDTPath = "/sys/firmware/fdt"

// Device is one addressable peripheral discovered in the device tree.
type Device struct {
	Name       string   // node name, e.g. "dbm@f92f8000"
	Compatible []string // compatible strings, most specific first
	Base       uint64   // physical base address of the register window
	Size       uint64   // size of the register window in bytes
}

// String formats the device as its node name and register window.
func (d Device) String() string {
	return fmt.Sprintf("%s at %#x (+%#x)", d.Name, d.Base, d.Size)
}

// Is reports whether the device lists the given compatible string.
func (d Device) Is(compatible string) bool {
	for _, c := range d.Compatible {
		if c == compatible {
			return true
		}
	}
	return false
}

// Scan walks a parsed device tree and returns every node carrying both
// a compatible and a reg property, with the register window decoded
// using the cell counts in effect at that node. Cell counts are taken
// from the nearest ancestor that declares them, defaulting to two
// address cells and one size cell. Results are ordered by base address.
func Scan(t *fdt.Tree) []Device {
	if t == nil || t.RootNode == nil {
		return nil
	}
	found := scan(t.RootNode, 2, 1)
	sort.Slice(found, func(i, j int) bool { return found[i].Base < found[j].Base })
	return found
}

func scan(n *fdt.Node, addrCells, sizeCells int) []Device {
	var found []Device

	if d, ok := device(n, addrCells, sizeCells); ok {
		found = append(found, d)
	}

	childAddr := cellCount(n, "#address-cells", addrCells)
	childSize := cellCount(n, "#size-cells", sizeCells)
	for _, c := range n.Children {
		found = append(found, scan(c, childAddr, childSize)...)
	}
	return found
}

// device decodes one node into a Device. Nodes without a compatible or
// reg property, or whose reg is shorter than one address/size pair, are
// not devices this package can attach to.
func device(n *fdt.Node, addrCells, sizeCells int) (Device, bool) {
	compat, ok := n.Properties["compatible"]
	if !ok {
		return Device{}, false
	}
	reg, ok := n.Properties["reg"]
	if !ok || len(reg) < 4*(addrCells+sizeCells) {
		return Device{}, false
	}

	base, next := cells(reg, 0, addrCells)
	size, _ := cells(reg, next, sizeCells)
	return Device{
		Name:       n.Name,
		Compatible: compatStrings(compat),
		Base:       base,
		Size:       size,
	}, true
}

// cells decodes count big-endian 32-bit cells starting at off, keeping
// the low 64 bits when count exceeds two.
func cells(b []byte, off, count int) (uint64, int) {
	var v uint64
	for i := 0; i < count; i++ {
		v = v<<32 | uint64(binary.BigEndian.Uint32(b[off:]))
		off += 4
	}
	return v, off
}

// cellCount returns the node's declared cell count, or the inherited
// count when the property is absent or malformed.
func cellCount(n *fdt.Node, name string, inherited int) int {
	p, ok := n.Properties[name]
	if !ok || len(p) < 4 {
		return inherited
	}
	return int(binary.BigEndian.Uint32(p))
}

// compatStrings splits a NUL-separated compatible property into its
// entries.
func compatStrings(b []byte) []string {
	var out []string
	for _, s := range strings.Split(strings.TrimRight(string(b), "\x00"), "\x00") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Discover parses a flattened device tree blob and scans it.
func Discover(blob []byte) ([]Device, error) {
	t := &fdt.Tree{Debug: false, IsLittleEndian: false}
	if err := t.Parse(blob); err != nil {
		return nil, fmt.Errorf("parse device tree: %w", err)
	}
	devs := Scan(t)
	pkg.LogDebugf(pkg.ComponentPlatform, "device tree scan found %d devices", len(devs))
	return devs, nil
}

// DiscoverFile reads a flattened device tree from path and scans it. An
// empty path reads the running system's tree from DefaultFDTPath.
func DiscoverFile(path string) ([]Device, error) {
	if path == "" {
		path = DefaultFDTPath
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read device tree: %w", err)
	}
	return Discover(blob)
}
