package main

import (
	"fmt"
	"io"
	"strconv"

	"webpmill/internal/pipeline"
)

// printSummary reports run totals. Interactive sessions get a table; pipes
// get plain lines that are easy to grep.
func printSummary(w io.Writer, result *pipeline.Result, csvPath, outputRoot string) {
	c := result.Counters

	if stdoutIsTerminal() {
		rows := [][]string{
			{"Files seen", strconv.FormatInt(c.Seen(), 10)},
			{"Converted", strconv.FormatInt(c.Converted, 10)},
			{"Skipped", strconv.FormatInt(c.Skipped, 10)},
			{"Errors", strconv.FormatInt(c.Errors, 10)},
		}
		fmt.Fprintln(w, renderTable([]string{"Result", "Count"}, rows, map[int]bool{1: true}))
	} else {
		fmt.Fprintf(w, "Done. Files seen: %d\n", c.Seen())
		fmt.Fprintf(w, "Converted: %d\n", c.Converted)
		fmt.Fprintf(w, "Skipped: %d\n", c.Skipped)
		fmt.Fprintf(w, "Errors: %d\n", c.Errors)
	}
	fmt.Fprintf(w, "CSV written: %s\n", csvPath)
	fmt.Fprintf(w, "Output root: %s\n", outputRoot)
}
