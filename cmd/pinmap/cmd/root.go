package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/schodet/pinmap/internal/config"
	"github.com/schodet/pinmap/internal/logging"
	"github.com/schodet/pinmap/pkg/cubemx"
)

var (
	// Global flags
	databaseDir string
	excludes    []string
	configFile  string
	verbose     bool

	// Resolved by PersistentPreRunE
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "pinmap",
	Short: "STM32 pin out table generator",
	Long: `Generate pin out tables for STM32 microcontrollers from the STM32CubeMX
database.

The database directory is the "db" directory of a STM32CubeMX installation; it
contains an "mcu" directory with one compressed XML document per part.

Examples:
  pinmap parts 'STM32F0.*P'                    # List matching parts
  pinmap table STM32F030F4Px > f030.csv        # Write the AF table of a part
  pinmap table -x SYS -x RCC STM32F103C8Tx     # Drop SYS and RCC signals
  pinmap info --json STM32F030F4Px             # Part summary as JSON`,
	Version:           "0.3.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() {
	os.Exit(execute(os.Stderr))
}

// execute runs the root command and returns the process exit code. Errors
// are reported on errOut.
func execute(errOut io.Writer) int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(errOut, "pinmap:", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&databaseDir, "database", "d", "db",
		"STM32CubeMX database directory")
	rootCmd.PersistentFlags().StringArrayVarP(&excludes, "exclude", "x", nil,
		"exclude peripheral signals (regex, repeatable)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"configuration file (default $"+config.EnvVar+" or ./"+config.LocalFile+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
}

// setup loads the configuration, lets explicit flags override it and
// builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	logger = logging.New(cmd.ErrOrStderr(), verbose)

	path := config.Locate(configFile)
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if path != "" {
		logger.Debug("configuration loaded", zap.String("path", path))
	}

	flags := cmd.Flags()
	if flags.Changed("database") {
		c.Database = databaseDir
	}
	if flags.Changed("exclude") {
		c.Exclude = append(c.Exclude, excludes...)
	}
	if flags.Changed("format") {
		c.Format = tableFormat
	}
	if flags.Changed("rules") {
		c.Rules = rulesFile
	}
	if flags.Changed("no-header") {
		header := !noHeader
		c.Header = &header
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = c
	return nil
}

func openDatabase() (*cubemx.Database, error) {
	return cubemx.Open(cfg.Database, cubemx.WithLogger(logger))
}
