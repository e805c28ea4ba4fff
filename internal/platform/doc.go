// Package platform provides the cross-platform filesystem operations used
// when materializing a template: permission bits, symlinks and containment
// checks for archive paths. On Windows permission changes are no-ops and
// symlinks fall back to copies when developer mode is off.
package platform
