package pipeline

import (
	"fmt"

	"github.com/matzehuels/pkgscore/pkg/scorecard"
)

// Format constants for report output.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// ValidFormats is the set of supported report formats.
var ValidFormats = map[string]bool{
	FormatJSON:  true,
	FormatYAML:  true,
	FormatTable: true,
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %s (must be json, yaml or table)", format)
	}
	return nil
}

// Render serializes the scorecard's report. JSON is a single line without a
// trailing newline; YAML is a mapping in report field order. The table
// format is rendered by the CLI and is not supported here.
func Render(sc *scorecard.Scorecard, format string) ([]byte, error) {
	if !sc.Computed() {
		return nil, fmt.Errorf("render %s: net score not computed", sc.URL)
	}
	report := sc.Report()

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = report.JSON()
	case FormatYAML:
		data, err = report.YAML()
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}
