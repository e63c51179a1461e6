// Package version exists solely so that we can store the version of this
// application in one location.
//
// The version is shown by the -version flag, and in the status line of
// the graphical frontend.
package version

import "fmt"

var (
	// version is populated with our release tag at build time, via
	// -ldflags "-X github.com/skx/emu8086/version.version=v0.1.0".
	version = "unreleased"
)

// GetVersionBanner returns a banner which is suitable for printing, to show our name,
// version, and homepage link.
func GetVersionBanner() string {

	str := fmt.Sprintf("emu8086 %s\n%s\n", version, "https://github.com/skx/emu8086/")
	return str
}

// GetVersionString returns our version number as a string.
func GetVersionString() string {
	return version
}
