//go:build !opencl

package yeecore

// openCLBuilt is false in the default build; see backend_opencl.go.
const openCLBuilt = false

// openCLDeviceDescription is never reached in this build: resolveBackend
// rejects BackendOpenCL before calling it. Defined anyway so both
// build-tag variants export the same symbols.
func openCLDeviceDescription() (string, error) {
	return "", nil
}
