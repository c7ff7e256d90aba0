// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/storekit/sales-reporter/internal/pipeline"
	"github.com/storekit/sales-reporter/internal/types"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 60

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSelection outputs a human-readable summary of the ranked selection.
func (p *Printer) PrintSelection(window types.ReportWindow, selection types.RankedSelection) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Window: %s\n", window.Label()))
	if len(selection) == 0 {
		sb.WriteString("No eligible sales in window")
	}
	for i, item := range selection {
		sb.WriteString(fmt.Sprintf("%d. %s — %d sold", i+1, item.Name, item.Quantity))
		if item.ImageURL == "" {
			sb.WriteString(" (no image)")
		}
		if i < len(selection)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("Best Sellers", sb.String())
}

// PrintRunResult outputs the per-stage outcomes of a report run.
func (p *Printer) PrintRunResult(res *pipeline.Result) {
	var sb strings.Builder
	for i, sr := range res.Stages {
		marker := "ok"
		switch sr.Outcome {
		case pipeline.OutcomeDegraded:
			marker = "degraded"
		case pipeline.OutcomeFatal:
			marker = "FAILED"
		}
		sb.WriteString(fmt.Sprintf("%-20s %s", sr.Stage.String(), marker))
		if sr.Note != "" {
			sb.WriteString(": " + sr.Note)
		}
		if sr.Err != nil {
			sb.WriteString(": " + sr.Err.Error())
		}
		if i < len(res.Stages)-1 {
			sb.WriteString("\n")
		}
	}
	if res.ArtifactPath != "" {
		sb.WriteString("\nArtifact: " + res.ArtifactPath)
	}
	p.printBox(fmt.Sprintf("Run %s", res.State), sb.String())
}
