// Package build holds build-time version information.
package build

// Version is the tool version, overridden at link time for releases.
var Version = "dev"
