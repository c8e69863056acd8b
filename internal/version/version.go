// Package version provides application version information.
// The version can be set at build time using ldflags:
//
//	go build -ldflags "-X github.com/ramonehamilton/MTG-Drawer/internal/version.Version=v1.2.3"
package version

import "runtime"

// Name is the service name reported by the API and the CLI.
const Name = "mtg-drawer"

// Version is the application version. It defaults to "dev" and can be
// overridden at build time using ldflags.
var Version = "dev"

// GetVersion returns the current application version.
func GetVersion() string {
	return Version
}

// String returns "mtg-drawer <version> (<go version>)".
func String() string {
	return Name + " " + Version + " (" + runtime.Version() + ")"
}
