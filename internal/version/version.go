package version

import "fmt"

// Set at build time with -ldflags "-X evm-tools/internal/version.Version=... -X evm-tools/internal/version.Commit=...".
var (
	Version = "dev"
	Commit  = "none"
)

// String returns "Version (Commit)".
func String() string {
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
