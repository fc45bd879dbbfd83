package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alis-is/setup-eli/internal/service/setup"
	"github.com/alis-is/setup-eli/internal/version"
)

var (
	// options collects the flag values passed to the setup step.
	options = new(setup.Options)

	// rootCmd represents the base command that installs eli for a pipeline step.
	rootCmd = &cobra.Command{
		Use:          "setup-eli",
		Short:        "Download, cache and expose the eli interpreter",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return setup.Run(ctx, options)
		},
	}
)

// Execute runs the setup-eli CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&options.ConfigPath, "config", "c", "", "path to configuration file")
	flags.StringVar(&options.EliVersion, "eli-version", "", "version spec to install (exact, range or latest)")
	flags.StringVar(&options.EliVersionFile, "eli-version-file", "", "file holding the version spec")
	flags.StringVar(&options.Architecture, "architecture", "", "target architecture (defaults to the host)")
	flags.StringVar(&options.Token, "token", "", "GitHub token used to list releases")
	flags.StringVar(&options.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&options.VersionsManifest, "versions-manifest", "", "versions-manifest.json used to resolve latest")
}
