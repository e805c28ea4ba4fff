package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/coldsurfers/create-mvp-surf/internal/branding"
	"github.com/coldsurfers/create-mvp-surf/internal/config"
	"github.com/coldsurfers/create-mvp-surf/internal/logging"
	"github.com/coldsurfers/create-mvp-surf/internal/scaffold"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

func init() {
	flags := rootCmd.Flags()
	flags.String(config.KeyTemplate, branding.TemplateSource(), "Template source (owner/repo#ref, gitlab:owner/repo, URL)")
	flags.String(config.KeyMode, "tar", "Fetch mode: tar or git")
	flags.Bool(config.KeyCache, false, "Keep downloaded template archives and reuse them")
	flags.Bool(config.KeyVerbose, false, "Log every step")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates a new project from the mvp-surf template.

It asks for a folder name, downloads the template into it, renames the
generated package.json and offers to install dependencies.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		if err := config.BindFlags(cmd.Flags()); err != nil {
			return err
		}
		settings := config.Current()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := logging.NewWithWriter(cmd.ErrOrStderr(), settings.Verbose)

		check := startUpdateCheck(ctx, cmd.ErrOrStderr(), settings, logger)
		defer check.wait()

		rc, err := newRunContext(settings, logger, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		if _, err := scaffold.Run(ctx, rc); err != nil {
			err = scaffold.Classify(err)
			scaffold.ReportError(cmd.ErrOrStderr(), err)
			return reportedError{err}
		}
		return nil
	},
}

// reportedError has already been shown to the user.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	var reported reportedError
	if err != nil && !errors.As(err, &reported) {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Run '%s --help' for usage.\n", branding.CLIName())
	}
	return err
}
