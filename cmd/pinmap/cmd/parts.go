package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var partsCmd = &cobra.Command{
	Use:   "parts <regex>",
	Short: "List parts matching a regular expression",
	Long: `List the database parts whose name matches a regular expression, with
their product line and package.

Examples:
  pinmap parts STM32F030           # All STM32F030 parts
  pinmap parts 'STM32G4.*T'        # STM32G4 parts in LQFP packages`,
	Args: cobra.ExactArgs(1),
	RunE: runParts,
}

func init() {
	rootCmd.AddCommand(partsCmd)
}

func runParts(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	names, err := db.ListParts(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		part, err := db.LoadPart(name)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, part.Summary())
	}
	return nil
}
