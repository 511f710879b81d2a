// =============================================================================
// langcsv - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (langcsv)
//   ├── generateCmd (langcsv generate)
//   ├── validateCmd (langcsv validate)
//   └── versionCmd  (langcsv version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose, --env-file)
//   2. Loading the .env file before any command runs
//   3. Merging the YAML file and the command flags into config.Options
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/langcsv/internal/config"
	"github.com/ginjaninja78/langcsv/internal/logging"
	"github.com/ginjaninja78/langcsv/pkg/utils"
)

// defaultConfigFile is read when present and --config is not given.
const defaultConfigFile = "langcsv.yaml"

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	// cfgFile holds the path to the YAML options file.
	cfgFile string

	// envFile is loaded into the environment before the config file is read,
	// so ${VAR} references in the YAML can use it.
	envFile string

	// verbose forces debug level logging.
	verbose bool

	// logFormat overrides log_format from the config file.
	logFormat string
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "langcsv",
		Short: "Generate localization files from a translation spreadsheet",
		Long: `langcsv downloads a translation table (a published Google Sheet, any CSV
or XLSX over https, an s3:// object or a local file) and writes one file per
language and output format.

Output formats:
  json     <dest><name><lang>.json
  strings  <dest><name><lang>.lproj/Localizable.strings
  yml      <dest><name><lang>.yml
  xml      <dest><name>values-<lang>/strings.xml
  liquid   <dest><name><lang>.liquid

Example Usage:
  langcsv generate                          # Use langcsv.yaml in the current directory
  langcsv generate --config ./i18n.yaml     # Use a custom configuration file
  langcsv validate --check-source           # Validate options and the table header`,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnv(g.envFile)
		},

		Run: func(cmd *cobra.Command, args []string) {
			// If no subcommand is provided, print the help message.
			cmd.Help()
		},
	}

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&g.cfgFile,
		"config",
		"",
		"Path to the YAML options file (default is "+defaultConfigFile+" when present)",
	)

	rootCmd.PersistentFlags().StringVar(
		&g.envFile,
		"env-file",
		".env",
		"Environment file loaded before the configuration",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&g.verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.PersistentFlags().StringVar(
		&g.logFormat,
		"log-format",
		"",
		"Log format: text or json (overrides log_format)",
	)

	rootCmd.AddCommand(
		newGenerateCmd(g),
		newValidateCmd(g),
		newVersionCmd(),
	)

	return rootCmd
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute builds the command tree and runs it. Interrupts cancel the
// running command through its context.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// loadEnv loads envFile into the process environment. A missing file is
// not an error; existing variables win over the file.
func loadEnv(envFile string) error {
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	return nil
}

// loadOptions reads the config file, applies the changed command flags and
// then the defaults.
func loadOptions(cmd *cobra.Command, g *globalFlags, of *optionFlags) (*config.Options, error) {
	opts := &config.Options{}

	cfgFile := g.cfgFile
	if cfgFile == "" && utils.FileExists(defaultConfigFile) {
		cfgFile = defaultConfigFile
	}

	if cfgFile != "" {
		loaded, err := config.LoadFile(cfgFile)
		if err != nil {
			return nil, err
		}
		opts = loaded
	}

	of.apply(cmd, opts)

	if g.verbose {
		opts.LogLevel = "debug"
	}
	if g.logFormat != "" {
		opts.LogFormat = g.logFormat
	}

	opts.ApplyDefaults()
	return opts, nil
}

// newLogger builds the command logger on stderr.
func newLogger(cmd *cobra.Command, opts *config.Options) *slog.Logger {
	return logging.New(cmd.ErrOrStderr(), opts.LogLevel, opts.LogFormat)
}
