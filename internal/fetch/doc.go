// Package fetch materializes a remote template repository into a local
// directory without its version-control metadata. Sources are written as
// "owner/repo#ref" style references for GitHub, GitLab or Bitbucket. The
// default mode downloads the hosting service's tarball of the ref and
// extracts it; the git mode performs a shallow clone and copies the tree.
// Downloaded archives can optionally be kept in a local cache.
package fetch
