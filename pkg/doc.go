// Package pkg provides shared utilities for the usbdbm driver.
//
// This package contains common functionality used across the register
// layer, the hardware access backends, and the platform integration,
// including:
//
//   - Structured logging via [github.com/sirupsen/logrus]
//   - Sentinel error values for driver failure classes
//   - Component identifiers for log filtering
//
// # Logging
//
// The logging subsystem tags every entry with the component it came from:
//
//	pkg.SetLogLevel(logrus.DebugLevel)
//	pkg.LogDebugf(pkg.ComponentDBM, "DBM ep %d configured", ep)
//
// Errors are never logged and swallowed: log lines annotate failures, the
// errors themselves still propagate to the caller.
//
// # Errors
//
// Driver failure classes are defined as sentinel values and classified
// with [errors.Is]:
//
//	if errors.Is(err, pkg.ErrEndpointNotMapped) {
//	    // Bind the endpoint with ConfigureDataFIFO first.
//	}
package pkg
