// Package config manages user-level settings stored at
// ~/.create-mvp-surf/config.yaml. Settings can also come from
// CREATE_MVP_SURF_* environment variables and command-line flags; the
// resolved values select the template source, the fetch mode and whether
// downloaded archives are cached.
package config
