//go:build linux

package probe

// newNativeSource selects the compiled-in source for Linux.
func newNativeSource() MetricSource {
	return newLinuxSource()
}
