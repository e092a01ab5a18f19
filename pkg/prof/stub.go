//go:build !profile

package prof

// ErrCPUProfileActive indicates CPU profiling is already active. Never
// returned by the stubs.
var ErrCPUProfileActive error

// StartCPU is a no-op when built without the "profile" tag.
func StartCPU(_ string) error {
	return nil
}

// StopCPU is a no-op when built without the "profile" tag.
func StopCPU() {}

// IsCPUActive always returns false when built without the "profile" tag.
func IsCPUActive() bool {
	return false
}
