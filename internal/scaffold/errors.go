package scaffold

import (
	"errors"
	"fmt"
)

// DirectoryExistsError means the target directory is already present.
type DirectoryExistsError struct {
	Name string
	Path string
}

func (e *DirectoryExistsError) Error() string {
	return fmt.Sprintf("directory %s already exists", e.Path)
}

// FetchError wraps any failure to materialize the template.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching template %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ManifestParseError means package.json exists but is not a JSON object.
type ManifestParseError struct {
	Path string
	Err  error
}

func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ManifestParseError) Unwrap() error { return e.Err }

// InstallError is a failed dependency installation. It never aborts the flow.
type InstallError struct {
	Command string
	Err     error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

// UnexpectedError wraps anything the flow has no specific report for.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

// Classify returns err unchanged when it is one of the known failure kinds
// and wraps it in an UnexpectedError otherwise.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var (
		dirErr      *DirectoryExistsError
		fetchErr    *FetchError
		manifestErr *ManifestParseError
		unexpected  *UnexpectedError
	)
	switch {
	case errors.As(err, &dirErr),
		errors.As(err, &fetchErr),
		errors.As(err, &manifestErr),
		errors.As(err, &unexpected):
		return err
	}
	return &UnexpectedError{Err: err}
}
