// Package updater tells users when a newer create-mvp-surf release exists.
// The latest GitHub release is checked at most once a day; the result is
// cached under the config directory and the banner is printed from the cache
// so a run never waits on the network.
package updater
