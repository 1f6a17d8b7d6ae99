// Package version reports the build identity of the running process, the
// string GET /node/version echoes back to a validator client.
package version

import "fmt"

// Set through linker options at build time; left as defaults for a local
// build.
var (
	gitCommit = "local"
	gitTag    = "unknown"
)

// GetVersion returns this build's version string.
func GetVersion() string {
	return fmt.Sprintf("beacon-core/%s/%s", gitTag, gitCommit)
}
