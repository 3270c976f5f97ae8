package services

import (
	"time"

	"planerly/internal/domain"
)

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct{}

// NewReportingService creates a new ReportingService instance
func NewReportingService() ReportingService {
	return &reportingServiceImpl{}
}

// Summarize counts tasks, completions, overdue tasks and checklist
// progress for every project
func (r *reportingServiceImpl) Summarize(list *domain.ProjectsList, now time.Time) []ProjectSummary {
	var currentID string
	if current := list.CurrentProject(); current != nil {
		currentID = current.ID()
	}

	summaries := make([]ProjectSummary, 0, list.Len())
	for _, p := range list.Projects() {
		s := ProjectSummary{ID: p.ID(), Name: p.Name(), Current: p.ID() == currentID}
		for _, t := range p.Tasks() {
			s.Tasks++
			if t.Completed() {
				s.Completed++
			}
			if t.IsOverdue(now) {
				s.Overdue++
			}
			done, total := t.ChecklistProgress()
			s.ChecklistDone += done
			s.ChecklistTotal += total
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// Totals adds up the counters of every summary
func (r *reportingServiceImpl) Totals(summaries []ProjectSummary) ProjectSummary {
	var total ProjectSummary
	for _, s := range summaries {
		total.Tasks += s.Tasks
		total.Completed += s.Completed
		total.Overdue += s.Overdue
		total.ChecklistDone += s.ChecklistDone
		total.ChecklistTotal += s.ChecklistTotal
	}
	return total
}

func (r *reportingServiceImpl) CompletionPercent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) * 100 / float64(whole)
}
