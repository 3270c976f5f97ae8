package cli

import (
	"context"
	"strings"

	"github.com/dustin/go-humanize"

	"planerly/internal/services"
)

const summaryWidth = 60

// SummaryCommand handles the summary command
type SummaryCommand struct {
	app       *App
	reporting services.ReportingService
}

// NewSummaryCommand creates a new summary command handler
func NewSummaryCommand(app *App) *SummaryCommand {
	return &SummaryCommand{app: app, reporting: services.NewReportingService()}
}

// Execute prints progress per project followed by the totals
func (c *SummaryCommand) Execute(ctx context.Context, args []string) error {
	summaries := c.app.planner.Summary(ctx)
	if len(summaries) == 0 {
		c.app.printf("No projects found\n")
		return nil
	}

	for _, s := range summaries {
		marker := " "
		if s.Current {
			marker = "*"
		}
		c.app.printf("%s %s\n", marker, s.Name)
		c.app.printf("    %s, %d completed, %d overdue\n", plural(s.Tasks, "task"), s.Completed, s.Overdue)
		if s.ChecklistTotal > 0 {
			c.app.printf("    checklist %d/%d (%s%%)\n", s.ChecklistDone, s.ChecklistTotal,
				humanize.FtoaWithDigits(c.reporting.CompletionPercent(s.ChecklistDone, s.ChecklistTotal), 1))
		}
	}

	totals := c.reporting.Totals(summaries)

	c.app.printf("%s\n", strings.Repeat("=", summaryWidth))
	c.app.printf("%s across %s: %d completed, %d overdue, checklist %d/%d\n",
		plural(totals.Tasks, "task"), plural(len(summaries), "project"), totals.Completed, totals.Overdue,
		totals.ChecklistDone, totals.ChecklistTotal)
	return nil
}
