// Package manifest reads and rewrites a generated project's package.json.
// The document is kept as an ordered list of top-level members with their
// original value bytes, so patching the name leaves every other field as it
// was. Patched manifests are checked against an embedded JSON Schema and
// semantic-version rules; findings are reported as warnings.
package manifest
