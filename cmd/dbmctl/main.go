//go:build linux

// Command dbmctl inspects and drives Qualcomm DBM 1.5 blocks from the
// command line. Devices are located through the flattened device tree
// and their registers accessed through the physical memory device.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/u-root/u-root/pkg/memio"
	cli "github.com/urfave/cli/v2"

	"github.com/ardnew/usbdbm/dbm"
	"github.com/ardnew/usbdbm/dbm/hal/devmem"
	"github.com/ardnew/usbdbm/pkg"
	"github.com/ardnew/usbdbm/pkg/prof"
	"github.com/ardnew/usbdbm/platform"
)

const VERSION = "v0.1.0"

var (
	dtbPath    string
	memPath    string
	debug      bool
	cpuProfile string
)

func main() {
	app := cli.NewApp()
	app.Name = "dbmctl"
	app.Version = VERSION
	app.Usage = "Inspect and drive Qualcomm DBM 1.5 USB-to-BAM blocks."
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "dtb",
			EnvVars:     []string{"DBMCTL_DTB"},
			Destination: &dtbPath,
			Usage:       "device tree blob to scan (default: the running system's tree)",
		},
		&cli.StringFlag{
			Name:        "mem",
			EnvVars:     []string{"DBMCTL_MEM"},
			Destination: &memPath,
			Value:       devmem.DefaultPath,
			Usage:       "physical memory device backing register windows",
		},
		&cli.BoolFlag{
			Name:        "debug",
			Destination: &debug,
			Usage:       "enable debug logging",
		},
		&cli.StringFlag{
			Name:        "cpuprofile",
			Destination: &cpuProfile,
			Usage:       "write a CPU profile to this path (builds with -tags profile)",
		},
	}
	app.Before = func(c *cli.Context) error {
		if debug {
			pkg.SetLogLevel(logrus.DebugLevel)
		}
		if cpuProfile != "" {
			return prof.StartCPU(cpuProfile)
		}
		return nil
	}
	app.After = func(c *cli.Context) error {
		prof.StopCPU()
		return nil
	}
	app.Commands = []*cli.Command{
		{
			Name:   "list",
			Usage:  "List DBM devices found in the device tree",
			Action: list,
		},
		{
			Name:   "dump",
			Usage:  "Print every register of the first DBM device",
			Action: dump,
		},
		{
			Name:  "reset",
			Usage: "Assert global soft reset",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "exit", Usage: "release the reset instead"},
			},
			Action: reset,
		},
		{
			Name:   "enable",
			Usage:  "Activate the data paths of all DBM endpoints",
			Action: enable,
		},
		{
			Name:      "speed",
			Usage:     "Program the connection speed mode",
			ArgsUsage: "hs|ss",
			Action:    speed,
		},
		{
			Name:      "peek",
			Usage:     "Read one register by byte offset through /dev/mem",
			ArgsUsage: "OFFSET",
			Action:    peek,
		},
		{
			Name:      "poke",
			Usage:     "Write one register by byte offset through /dev/mem",
			ArgsUsage: "OFFSET VALUE",
			Action:    poke,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func treePath() string {
	if dtbPath == "" {
		return platform.DefaultFDTPath
	}
	return dtbPath
}

// device returns the first DBM instance listed in the device tree.
func device() (platform.Device, error) {
	devs, err := platform.DiscoverFile(dtbPath)
	if err != nil {
		return platform.Device{}, err
	}
	for _, d := range devs {
		if d.Is(platform.DBM15Compatible) {
			return d, nil
		}
	}
	return platform.Device{}, fmt.Errorf("scan %s: %w", treePath(), pkg.ErrNoDevice)
}

// attach maps the first DBM device's register window and probes its
// driver. The caller closes the window.
func attach() (*devmem.Window, dbm.Driver, error) {
	d, err := device()
	if err != nil {
		return nil, nil, err
	}
	w, err := devmem.MapPath(memPath, d.Base, uint32(d.Size))
	if err != nil {
		return nil, nil, err
	}
	drv, err := platform.Probe(d, w)
	if err != nil {
		w.Close()
		return nil, nil, err
	}
	return w, drv, nil
}

func list(c *cli.Context) error {
	devs, err := platform.DiscoverFile(dtbPath)
	if err != nil {
		return err
	}
	n := 0
	for _, d := range devs {
		if d.Is(platform.DBM15Compatible) {
			fmt.Println(d)
			n++
		}
	}
	if n == 0 {
		fmt.Printf("no DBM devices in %s\n", treePath())
	}
	return nil
}

func dump(c *cli.Context) error {
	w, drv, err := attach()
	if err != nil {
		return err
	}
	defer w.Close()

	ctl, ok := drv.(*dbm.Controller)
	if !ok {
		return fmt.Errorf("dump: %w", pkg.ErrNotSupported)
	}
	for _, r := range ctl.DumpRegisters() {
		fmt.Println(r)
	}
	return nil
}

func reset(c *cli.Context) error {
	w, drv, err := attach()
	if err != nil {
		return err
	}
	defer w.Close()
	return drv.SoftReset(!c.Bool("exit"))
}

func enable(c *cli.Context) error {
	w, drv, err := attach()
	if err != nil {
		return err
	}
	defer w.Close()
	return drv.Enable()
}

func speed(c *cli.Context) error {
	var s dbm.Speed
	switch strings.ToLower(c.Args().Get(0)) {
	case "hs", "high", "highspeed":
		s = dbm.SpeedHigh
	case "ss", "super", "superspeed":
		s = dbm.SpeedSuper
	default:
		return fmt.Errorf("speed %q: %w", c.Args().Get(0), pkg.ErrInvalidParameter)
	}

	w, drv, err := attach()
	if err != nil {
		return err
	}
	defer w.Close()
	return drv.SetSpeed(s)
}

func peek(c *cli.Context) error {
	d, err := device()
	if err != nil {
		return err
	}
	offset, err := parseReg(c.Args().Get(0), d)
	if err != nil {
		return err
	}

	var data memio.Uint32
	if err := memio.Read(int64(d.Base+offset), &data); err != nil {
		return err
	}
	fmt.Printf("%#06x  %#010x\n", offset, uint32(data))
	return nil
}

func poke(c *cli.Context) error {
	d, err := device()
	if err != nil {
		return err
	}
	offset, err := parseReg(c.Args().Get(0), d)
	if err != nil {
		return err
	}
	value, err := strconv.ParseUint(c.Args().Get(1), 0, 32)
	if err != nil {
		return fmt.Errorf("parse value: %w", err)
	}

	data := memio.Uint32(value)
	return memio.Write(int64(d.Base+offset), &data)
}

// parseReg parses a register offset argument and checks it against the
// device's register window.
func parseReg(arg string, d platform.Device) (uint64, error) {
	offset, err := strconv.ParseUint(arg, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("parse offset: %w", err)
	}
	if offset%4 != 0 || offset+4 > d.Size {
		return 0, fmt.Errorf("offset %#x: %w", offset, pkg.ErrInvalidParameter)
	}
	return offset, nil
}
