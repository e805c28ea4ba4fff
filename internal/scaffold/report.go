package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
)

// reporter prints the user-facing messages of the flow.
type reporter struct {
	out io.Writer
	err io.Writer
}

func (r *reporter) welcome(product string) {
	cyan.Fprintf(r.out, "\n👋 Welcome to %s\n\n", product)
}

func (r *reporter) downloading(name string) {
	cyan.Fprintf(r.out, "\n📦 Downloading the template... (%s)\n\n", name)
}

func (r *reporter) warnings(file string, warnings []string) {
	for _, w := range warnings {
		yellow.Fprintf(r.err, "⚠ %s: %s\n", file, w)
	}
}

func (r *reporter) installing(cmd string) {
	cyan.Fprintf(r.out, "\n📥 Installing packages (%s)...\n\n", cmd)
}

func (r *reporter) installFailed(err *InstallError) {
	yellow.Fprintf(r.err, "\n⚠ Installing packages failed. Run %q yourself.\n", err.Command)
	fmt.Fprintf(r.err, "%v\n\n", err.Err)
}

func (r *reporter) done(name string) {
	green.Fprintln(r.out, "\n✅ Project created!")
	fmt.Fprintln(r.out)
	cyan.Fprintf(r.out, "  cd %s\n", name)
	cyan.Fprintln(r.out, "  npm run start        # or the yarn / pnpm equivalent")
	fmt.Fprintln(r.out)
}

// ReportError prints a fatal error from Run. Known kinds get a short
// message; anything else is shown in full after a generic header.
func ReportError(w io.Writer, err error) {
	if err == nil {
		return
	}

	var (
		dirErr      *DirectoryExistsError
		fetchErr    *FetchError
		manifestErr *ManifestParseError
		unexpected  *UnexpectedError
	)
	switch {
	case errors.As(err, &dirErr):
		red.Fprintf(w, "\n❌ %s already exists. Use a different name.\n\n", dirErr.Name)
	case errors.As(err, &fetchErr):
		red.Fprintln(w, "\n❌ Failed to copy the template.")
		fmt.Fprintln(w, fetchErr.Err)
	case errors.As(err, &manifestErr):
		red.Fprintf(w, "\n❌ Could not read %s.\n", manifestErr.Path)
		fmt.Fprintln(w, manifestErr.Err)
	case errors.Is(err, context.Canceled):
		red.Fprintln(w, "\nAborted.")
	case errors.As(err, &unexpected):
		red.Fprintln(w, "\nAn unexpected error occurred.")
		fmt.Fprintln(w, unexpected.Err)
	default:
		red.Fprintln(w, "\nAn unexpected error occurred.")
		fmt.Fprintln(w, err)
	}
}
