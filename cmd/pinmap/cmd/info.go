package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/schodet/pinmap/pkg/cubemx"
)

var (
	outputJSON bool
)

// PartInfo is the structured summary of a part
type PartInfo struct {
	Name        string       `json:"name"`
	RefName     string       `json:"ref_name,omitempty"`
	Line        string       `json:"line"`
	Package     string       `json:"package"`
	Family      string       `json:"family,omitempty"`
	Core        string       `json:"core,omitempty"`
	Frequency   string       `json:"frequency_mhz,omitempty"`
	Ram         []string     `json:"ram_kb,omitempty"`
	Flash       []string     `json:"flash_kb,omitempty"`
	GPIOVersion string       `json:"gpio_version"`
	Mode        string       `json:"gpio_mode"`
	PinCount    int          `json:"pin_count"`
	Signals     SignalTotals `json:"signals"`
}

// SignalTotals counts (pin, signal) pairs by mapping kind
type SignalTotals struct {
	Distinct   int `json:"distinct"`
	AF         int `json:"af,omitempty"`
	Remap      int `json:"remap,omitempty"`
	Additional int `json:"additional"`
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#03234B")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Width(14)

	modeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#98FB98"))
)

var infoCmd = &cobra.Command{
	Use:   "info <part>",
	Short: "Show a part summary",
	Long: `Show the characteristics of a part and a summary of its pins and
signals.

Supports JSON output format for integration with other tools.

Examples:
  pinmap info STM32F030F4Px
  pinmap info --json STM32F103C8Tx`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&outputJSON, "json", false,
		"output as JSON (for programmatic access)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	part, err := db.LoadPart(args[0])
	if err != nil {
		return err
	}

	info := buildPartInfo(part)
	if outputJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	}
	return outputHumanFormat(cmd.OutOrStdout(), info)
}

func buildPartInfo(part *cubemx.Part) *PartInfo {
	counts := part.SignalCounts()
	return &PartInfo{
		Name:        part.Name,
		RefName:     part.RefName,
		Line:        part.Line,
		Package:     part.Package,
		Family:      part.Family,
		Core:        part.Core,
		Frequency:   part.Frequency,
		Ram:         part.Ram,
		Flash:       part.Flash,
		GPIOVersion: part.GPIOVersion,
		Mode:        part.Mode.String(),
		PinCount:    len(part.Pins),
		Signals: SignalTotals{
			Distinct:   len(part.SignalNames()),
			AF:         counts[cubemx.MapAF],
			Remap:      counts[cubemx.MapRemap],
			Additional: counts[cubemx.MapAdditional],
		},
	}
}

func outputHumanFormat(w io.Writer, info *PartInfo) error {
	// Styles follow the color support of w, so redirected output is plain.
	r := lipgloss.NewRenderer(w)
	title := titleStyle.Renderer(r)
	label := labelStyle.Renderer(r)
	mode := modeStyle.Renderer(r)

	var b strings.Builder
	b.WriteString(title.Render(info.Name))
	b.WriteString("\n")
	row := func(name, value string) {
		if value == "" {
			return
		}
		b.WriteString(label.Render(name) + value + "\n")
	}
	row("Reference", info.RefName)
	row("Line", info.Line)
	row("Family", info.Family)
	row("Package", info.Package)
	row("Core", info.Core)
	if info.Frequency != "" {
		row("Frequency", info.Frequency+" MHz")
	}
	if len(info.Flash) > 0 {
		row("Flash", strings.Join(info.Flash, "/")+" kB")
	}
	if len(info.Ram) > 0 {
		row("RAM", strings.Join(info.Ram, "/")+" kB")
	}
	row("GPIO", mode.Render(info.Mode)+" ("+info.GPIOVersion+")")
	row("Pins", fmt.Sprint(info.PinCount))

	signals := fmt.Sprintf("%d distinct", info.Signals.Distinct)
	if info.Mode == cubemx.ModeRemap.String() {
		signals += fmt.Sprintf(", %d remap", info.Signals.Remap)
	} else {
		signals += fmt.Sprintf(", %d AF", info.Signals.AF)
	}
	signals += fmt.Sprintf(", %d additional", info.Signals.Additional)
	row("Signals", signals)

	_, err := io.WriteString(w, b.String())
	return err
}
