// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/hr-pulse/internal/pipeline"
	"github.com/jonathan/hr-pulse/internal/salary"
	"github.com/jonathan/hr-pulse/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer writes human-readable summaries of CLI results.
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
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads line to the inner box width, counting runes.
func pad(line string) string {
	width := boxWidth - 4
	if n := utf8.RuneCountInString(line); n > width {
		runes := []rune(line)
		return string(runes[:width-3]) + "..."
	} else if n < width {
		return line + strings.Repeat(" ", width-n)
	}
	return line
}

// PrintIngestResult summarizes an ingestion run and the first stored jobs.
func (p *Printer) PrintIngestResult(result *pipeline.IngestResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Normalized: %d\n", result.Normalized))
	sb.WriteString(fmt.Sprintf("Processed:  %d\n", result.Processed))
	sb.WriteString(fmt.Sprintf("Inserted:   %d\n", result.Inserted))
	sb.WriteString(fmt.Sprintf("Skills:     %d\n", result.Skills))

	if len(result.Jobs) > 0 {
		sb.WriteString("\n")
		count := min(len(result.Jobs), maxItemsToShow)
		for i := 0; i < count; i++ {
			job := result.Jobs[i]
			sb.WriteString(fmt.Sprintf("  #%d %s (%d skills)\n", job.ID, job.JobTitle, len(job.SkillsExtracted)))
		}
		if len(result.Jobs) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Jobs)-maxItemsToShow))
		}
	}

	p.printBox("INGESTION", sb.String())
}

// PrintTrainReport summarizes a training run.
func (p *Printer) PrintTrainReport(report *salary.Report, modelPath string) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Samples:    %d\n", report.Samples))
	sb.WriteString(fmt.Sprintf("Vocabulary: %d\n", report.VocabularySize))
	sb.WriteString(fmt.Sprintf("MAE:        %.2f\n", report.MAE))
	sb.WriteString(fmt.Sprintf("R²:         %.4f\n", report.R2))
	sb.WriteString(fmt.Sprintf("Model:      %s\n", modelPath))

	p.printBox("SALARY MODEL", sb.String())
}

// PrintPrediction shows a salary estimate with its matched skills.
func (p *Printer) PrintPrediction(resp *types.SalaryPredictResponse) {
	if resp == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:      %s\n", resp.JobTitle))
	sb.WriteString(fmt.Sprintf("Salary:     $%.2f\n", resp.PredictedSalaryUSD))
	sb.WriteString(fmt.Sprintf("Confidence: %s\n", resp.Confidence))
	if len(resp.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills:     %s\n", strings.Join(resp.Skills, ", ")))
	}

	p.printBox("SALARY ESTIMATE", sb.String())
}
