package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pfrederiksen/gigcal/internal/pipeline"
)

// OutputFormat specifies the summary format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes the run summary in the specified format
func WriteOutput(w io.Writer, result *pipeline.Result, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the result as JSON
func writeJSON(w io.Writer, result *pipeline.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs the result as human-readable text
func writeText(w io.Writer, result *pipeline.Result, verbose bool) error {
	if result.Candidates == 0 {
		fmt.Fprintln(w, "No events found on listing page.")
		return nil
	}

	if result.Added == 0 {
		fmt.Fprintf(w, "No events added; wrote empty calendar to %s\n", result.OutputPath)
	} else {
		fmt.Fprintf(w, "Wrote %d events to %s\n", result.Added, result.OutputPath)
	}

	if !verbose {
		return nil
	}

	fmt.Fprintf(w, "  Strategy:   %s\n", result.Strategy)
	fmt.Fprintf(w, "  Listing:    %s\n", result.ListingURL)
	fmt.Fprintf(w, "  Candidates: %d\n", result.Candidates)
	fmt.Fprintf(w, "  Extracted:  %d\n", result.Extracted)

	if len(result.Skipped) > 0 {
		reasons := make([]string, 0, len(result.Skipped))
		for reason := range result.Skipped {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)

		fmt.Fprintf(w, "  Skipped:    %d\n", result.TotalSkipped())
		for _, reason := range reasons {
			fmt.Fprintf(w, "    %s: %d\n", reason, result.Skipped[reason])
		}
	}

	return nil
}
