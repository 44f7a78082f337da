//go:build !linux && !darwin

package probe

// newNativeSource falls back to the gopsutil-backed source on platforms
// without a native probe set.
func newNativeSource() MetricSource {
	return newFallbackSource()
}
