//go:build darwin

package probe

// newNativeSource selects the compiled-in source for Darwin.
func newNativeSource() MetricSource {
	return newDarwinSource()
}
