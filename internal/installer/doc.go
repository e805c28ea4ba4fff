// Package installer picks the package manager command for a generated
// project and runs it.
//
// Selection is driven by lockfile markers: the first rule whose marker file
// exists in the project directory wins, and npm is used when none match.
package installer
