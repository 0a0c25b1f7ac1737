package safepay

import "fmt"

// Release of the safepay application, following semantic versioning.
const (
	VersionMajor = 0
	VersionMinor = 1
	VersionPatch = 0
)

// GitCommit is set at build time with
//
//   -ldflags "-X github.com/iov-one/safepay.GitCommit=$(git rev-parse --short HEAD)"
var GitCommit = ""

// Version returns the release followed by the commit, if known.
func Version() string {
	v := fmt.Sprintf("v%d.%d.%d-dev", VersionMajor, VersionMinor, VersionPatch)
	if GitCommit == "" {
		return v
	}
	return v + " " + GitCommit
}
