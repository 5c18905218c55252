package pinout

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Format selects the field delimiter of the written table.
type Format string

const (
	FormatCSV Format = "csv" // comma separated
	FormatSSV Format = "ssv" // semicolon separated, for spreadsheets using a decimal comma
	FormatTSV Format = "tsv" // tab separated
)

// Formats lists the supported output formats.
var Formats = []Format{FormatCSV, FormatSSV, FormatTSV}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want csv, ssv or tsv)", name)
}

// Comma returns the field delimiter of the format.
func (f Format) Comma() rune {
	switch f {
	case FormatSSV:
		return ';'
	case FormatTSV:
		return '\t'
	default:
		return ','
	}
}

// WriteOptions controls table serialization.
type WriteOptions struct {
	Format   Format
	NoHeader bool
}

// Write serializes the table as delimited text.
func Write(w io.Writer, t *Table, opts WriteOptions) error {
	cw := csv.NewWriter(w)
	cw.Comma = opts.Format.Comma()
	if err := cw.WriteAll(t.Records(!opts.NoHeader)); err != nil {
		return fmt.Errorf("pinout: write table: %w", err)
	}
	return nil
}
