// Package scaffold runs the create-mvp-surf flow: it asks for a project
// name, downloads the template into a new directory, renames the generated
// package.json, offers to install dependencies, and prints the next steps.
//
// Every collaborator (prompter, fetcher, command runner, output writers) is
// carried by a RunContext so the flow can be driven without a terminal or a
// network.
package scaffold
