// Package version provides build and version information.
package version

import "fmt"

// Version is the current application version.
const Version = "0.3.0"

// Commit is set at build time with -ldflags "-X .../version.Commit=...".
var Commit = ""

// Milestones:
// 0.3.0 - Headless snapshot/simulate commands, ORRERY_* config, .env support
// 0.2.0 - Click-to-focus camera, info panel, return animation, keyboard cycling
// 0.1.0 - Initial release: ray-cast half-block renderer, orbit controls, labels

// String returns the version with the commit when known.
func String() string {
	if Commit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
