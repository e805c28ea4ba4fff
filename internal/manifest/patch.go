package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the manifest looked for in a generated project.
const FileName = "package.json"

// ErrMalformed marks a manifest that is not a well-formed JSON object.
var ErrMalformed = errors.New("malformed manifest")

// PatchResult holds the outcome of Patch.
type PatchResult struct {
	Path     string
	Skipped  bool     // no manifest in the project
	Warnings []string // validation findings, never fatal
}

// Patch sets the "name" field of <dir>/package.json and writes it back.
// A missing manifest is not an error: the result is marked Skipped and
// nothing is written.
func Patch(dir, name string) (*PatchResult, error) {
	path := filepath.Join(dir, FileName)
	result := &PatchResult{Path: path}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Skipped = true
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}

	if err := doc.Set("name", name); err != nil {
		return nil, err
	}

	out, err := doc.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}

	valResult, valErr := Validate(doc)
	if valErr != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not validate %s: %v", FileName, valErr))
	} else {
		for _, issue := range valResult.Issues {
			result.Warnings = append(result.Warnings, issue.String())
		}
	}

	return result, nil
}
