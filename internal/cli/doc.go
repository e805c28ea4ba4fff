// Package cli defines the Cobra command tree. The root command runs the
// scaffolding flow; version, config and doctor are the subcommands. Commands
// wire configuration and collaborators together and delegate the work to
// internal/scaffold.
package cli
