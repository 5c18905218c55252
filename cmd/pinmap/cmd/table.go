package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/schodet/pinmap/pkg/pinout"
)

var (
	outputFile  string
	tableFormat string
	noHeader    bool
	rawSignals  bool
	rulesFile   string
)

var tableCmd = &cobra.Command{
	Use:   "table <part>",
	Short: "Write the pin out table of a part",
	Long: `Write the pin out table of a part as delimited text.

Parts with alternate function GPIOs get one column per AF number plus an
"Additional" column. Parts with remap GPIOs get one column per peripheral,
each signal followed by the remap configurations routing it to the pin.

Signal names are shortened and merged by the built-in filter rules unless
--raw is given; --rules replaces the built-in rules with a rules file.

Examples:
  pinmap table STM32F030F4Px                       # CSV on stdout
  pinmap table --format ssv -o f030.csv STM32F030F4Px
  pinmap table --raw STM32F103C8Tx                 # Keep database names`,
	Args: cobra.ExactArgs(1),
	RunE: runTable,
}

func init() {
	rootCmd.AddCommand(tableCmd)

	tableCmd.Flags().StringVarP(&outputFile, "output", "o", "",
		"output file (default stdout)")
	tableCmd.Flags().StringVarP(&tableFormat, "format", "f", "csv",
		"output format: csv, ssv or tsv")
	tableCmd.Flags().BoolVar(&noHeader, "no-header", false,
		"omit the header row")
	tableCmd.Flags().BoolVar(&rawSignals, "raw", false,
		"keep signal names as declared in the database")
	tableCmd.Flags().StringVar(&rulesFile, "rules", "",
		"filter rules file (default built-in rules)")
}

func runTable(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	part, err := db.LoadPart(args[0])
	if err != nil {
		return err
	}

	filter, err := loadFilter()
	if err != nil {
		return err
	}

	table, err := pinout.Build(part, filter)
	if err != nil {
		return err
	}
	format, err := pinout.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	opts := pinout.WriteOptions{Format: format, NoHeader: !cfg.HeaderEnabled()}

	logger.Debug("table built",
		zap.String("part", part.Name),
		zap.Stringer("mode", table.Mode),
		zap.Int("rows", len(table.Rows)),
		zap.Int("columns", len(table.Header)))

	if outputFile == "" {
		return pinout.Write(cmd.OutOrStdout(), table, opts)
	}
	return writeFile(outputFile, table, opts)
}

// loadFilter builds the signal filter. With --raw only the excludes apply,
// and without excludes there is no filter at all.
func loadFilter() (*pinout.SignalFilter, error) {
	if rawSignals {
		if len(cfg.Exclude) == 0 {
			return nil, nil
		}
		return pinout.NewSignalFilter(nil, cfg.Exclude)
	}

	var (
		rules *pinout.Rules
		err   error
	)
	if cfg.Rules != "" {
		var parser *pinout.RulesParser
		parser, err = pinout.NewRulesParser()
		if err == nil {
			rules, err = parser.ParseFile(cfg.Rules)
		}
	} else {
		rules, err = pinout.DefaultRules()
	}
	if err != nil {
		return nil, fmt.Errorf("filter rules: %w", err)
	}
	logger.Debug("filter rules loaded", zap.Int("rules", len(rules.Rules)))
	return pinout.NewSignalFilter(rules, cfg.Exclude)
}

// writeFile writes the table next to path and renames it into place, so a
// failed write never leaves a partial table behind.
func writeFile(path string, table *pinout.Table, opts pinout.WriteOptions) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	// CreateTemp makes owner-only files; match a plain output file instead
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("create output: %w", err)
	}
	if err := pinout.Write(tmp, table, opts); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Debug("table written", zap.String("path", path))
	return nil
}
