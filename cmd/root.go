package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rhymu8354/Lurker/internal/app"
	"github.com/rhymu8354/Lurker/internal/config"
	"github.com/rhymu8354/Lurker/internal/lurker"
	"github.com/rhymu8354/Lurker/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error, including missing channels.
	ExitCodeError = 1
	// ExitCodeUsage indicates invalid configuration or flag values.
	ExitCodeUsage = 2
)

// errNoChannels is returned after the usage text has already been shown.
var errNoChannels = errors.New("no channels given")

var (
	rootDebug      bool
	rootVerbosity  int
	rootFormat     string
	rootTransport  string
	rootTrustFile  string
	rootConfigPath string
)

// rootCmd represents the base command for the lurker application.
var rootCmd = &cobra.Command{
	Use:   "lurker [flags] CHANNEL...",
	Short: "Lurk in Twitch chat channels and report what happens",
	Long: `lurker logs into Twitch chat anonymously, joins the given channels and
prints every chat event it sees (messages, joins, subs, raids, moderation)
until interrupted with Ctrl+C.

Configuration:
  lurker loads config.yaml from ~/.config/lurker, or from the directory
  given with --config-path. Flags override values from the file.

  The root CA certificates used to verify the chat server are read from
  cert.pem beside the executable unless --trust-file says otherwise.`,
	Example: `  lurker dallas houston
  lurker --transport tls --verbosity 4 dallas`,
	Args: cobra.ArbitraryArgs,
	RunE: runLurker,
	// Usage is shown by runLurker itself when it is relevant.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func runLurker(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		reporter := logging.NewStreamReporter(cmd.OutOrStdout(), cmd.ErrOrStderr(), logging.FormatText)
		reporter.Report(lurker.SourceName, logging.LevelError, errNoChannels.Error())
		_ = cmd.Usage()
		return errNoChannels
	}

	cfg := app.NewConfig(args, rootDebug, rootConfigPath)
	cfg.Verbosity = rootVerbosity
	cfg.Format = rootFormat
	cfg.Transport = rootTransport
	cfg.TrustFile = rootTrustFile

	application, err := app.NewApplication(cfg, app.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()))
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// Interrupts cancel the command context, which makes the session log out.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "lurker version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errNoChannels) {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		}
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var validationErrs config.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ExitCodeUsage
	}

	var configErr *config.ConfigurationError
	if errors.As(err, &configErr) {
		return ExitCodeUsage
	}

	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.Flags().StringVar(&rootConfigPath, "config-path", "", "Custom configuration directory path (default is $HOME/.config/lurker)")
	rootCmd.Flags().BoolVar(&rootDebug, "debug", false, "Show all diagnostics, same as --verbosity 5")
	rootCmd.Flags().IntVar(&rootVerbosity, "verbosity", app.VerbosityUnset, "Most verbose level shown, 0 (errors) to 5 (debug)")
	rootCmd.Flags().StringVar(&rootFormat, "format", "", "Diagnostics format: text or json")
	rootCmd.Flags().StringVar(&rootTransport, "transport", "", "How to reach the chat server: websocket or tls")
	rootCmd.Flags().StringVar(&rootTrustFile, "trust-file", "", "PEM file of root CA certificates (default is cert.pem beside the executable)")
}
