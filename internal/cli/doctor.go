package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/coldsurfers/create-mvp-surf/internal/config"
	"github.com/coldsurfers/create-mvp-surf/internal/fetch"
	"github.com/coldsurfers/create-mvp-surf/internal/installer"
	"github.com/coldsurfers/create-mvp-surf/internal/manifest"
)

var checkManifest string

func init() {
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a package.json at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the tools and settings a scaffold run depends on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if checkManifest != "" {
			return runManifestCheck(out, checkManifest)
		}

		config.Load()
		runToolCheck(out, exec.LookPath)
		runSettingsCheck(out, config.Current())
		return nil
	},
}

// runToolCheck reports the executables the fetch and install steps may spawn.
func runToolCheck(w io.Writer, lookPath func(string) (string, error)) {
	fmt.Fprintln(w, "Tools:")
	checkBinary(w, lookPath, "git", "needed for --mode git")
	checkBinary(w, lookPath, "node", "needed to run the generated project")
	for _, r := range installer.DefaultRules {
		checkBinary(w, lookPath, r.Command.Name, "used when the template has "+r.Marker)
	}
	checkBinary(w, lookPath, installer.DefaultFallback.Name, "default installer")
}

func checkBinary(w io.Writer, lookPath func(string) (string, error), name, purpose string) {
	path, err := lookPath(name)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found (%s)\n", name, purpose)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
}

func runSettingsCheck(w io.Writer, s config.Settings) {
	fmt.Fprintln(w, "Settings:")
	if _, err := os.Stat(config.FilePath()); err == nil {
		fmt.Fprintf(w, "  [ OK ] config file %s\n", config.FilePath())
	} else {
		fmt.Fprintf(w, "  [INFO] no config file at %s, using defaults\n", config.FilePath())
	}

	if src, err := fetch.ParseSource(s.Template); err != nil {
		fmt.Fprintf(w, "  [FAIL] template: %v\n", err)
	} else {
		fmt.Fprintf(w, "  [ OK ] template %s (%s)\n", src, src.ArchiveURL())
	}

	if _, err := fetch.ParseMode(s.Mode); err != nil {
		fmt.Fprintf(w, "  [FAIL] mode: %v\n", err)
	} else {
		fmt.Fprintf(w, "  [ OK ] mode %s\n", s.Mode)
	}

	if s.Cache {
		fmt.Fprintf(w, "  [INFO] archive cache enabled at %s\n", config.CacheDir())
	}
}

func runManifestCheck(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}
	doc, err := manifest.ParseDocument(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", manifest.ErrMalformed, path, err)
	}

	result, err := manifest.Validate(doc)
	if err != nil {
		return err
	}
	if result.Valid {
		fmt.Fprintf(w, "[ OK ] %s is valid\n", path)
		return nil
	}

	fmt.Fprintf(w, "[FAIL] %s has %d issue(s):\n", path, len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "  - %s\n", issue)
	}
	return fmt.Errorf("manifest validation failed")
}
