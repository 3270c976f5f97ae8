package services

import (
	"sort"
	"strings"
	"time"

	"planerly/internal/domain"
	"planerly/internal/errors"
)

// searchServiceImpl implements the SearchService interface
type searchServiceImpl struct{}

// NewSearchService creates a new SearchService instance
func NewSearchService() SearchService {
	return &searchServiceImpl{}
}

// ParseStatus converts a command line value into a Status
func ParseStatus(s string) (Status, error) {
	switch status := Status(strings.ToLower(strings.TrimSpace(s))); status {
	case StatusAll, StatusOpen, StatusDone:
		return status, nil
	default:
		return "", errors.NewInvalidInputError("status", s, "status must be open or done")
	}
}

// ParseSortOrder converts a command line value into a SortOrder
func ParseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortByPosition, SortByDueDate, SortByPriority, SortByTitle, SortByCreated:
		return order, nil
	default:
		return "", errors.NewInvalidInputError("sort", s, "sort must be one of due, priority, title, created")
	}
}

// matchesTextFilter checks if the title or description contains the filter
func (s *searchServiceImpl) matchesTextFilter(task *domain.Task, textFilter string) bool {
	if textFilter == "" {
		return true
	}
	filter := strings.ToLower(textFilter)
	return strings.Contains(strings.ToLower(task.Title()), filter) ||
		strings.Contains(strings.ToLower(task.Description()), filter)
}

func (s *searchServiceImpl) matchesStatus(task *domain.Task, status Status) bool {
	switch status {
	case StatusOpen:
		return !task.Completed()
	case StatusDone:
		return task.Completed()
	default:
		return true
	}
}

// SearchTasks returns the tasks matching every criterion
func (s *searchServiceImpl) SearchTasks(tasks []*domain.Task, criteria SearchCriteria, now time.Time) []*domain.Task {
	result := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if !s.matchesTextFilter(task, criteria.TextFilter) {
			continue
		}
		if !s.matchesStatus(task, criteria.Status) {
			continue
		}
		if criteria.Priority != "" && task.Priority() != criteria.Priority {
			continue
		}
		if criteria.OverdueOnly && !task.IsOverdue(now) {
			continue
		}
		result = append(result, task)
	}
	return result
}

func priorityRank(p domain.Priority) int {
	for i, candidate := range domain.Priorities {
		if candidate == p {
			return i
		}
	}
	return -1
}

// SortTasks sorts tasks according to the specified order
func (s *searchServiceImpl) SortTasks(tasks []*domain.Task, order SortOrder) []*domain.Task {
	// Make a copy to avoid modifying the project
	sorted := make([]*domain.Task, len(tasks))
	copy(sorted, tasks)

	switch order {
	case SortByDueDate:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].DueDate().Before(sorted[j].DueDate())
		})
	case SortByPriority:
		sort.SliceStable(sorted, func(i, j int) bool {
			return priorityRank(sorted[i].Priority()) > priorityRank(sorted[j].Priority())
		})
	case SortByTitle:
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.ToLower(sorted[i].Title()) < strings.ToLower(sorted[j].Title())
		})
	case SortByCreated:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt().After(sorted[j].CreatedAt())
		})
	}

	return sorted
}

// ResolveID returns the one id equal to prefix or starting with it
func (s *searchServiceImpl) ResolveID(resource, prefix string, ids []string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", errors.NewInvalidInputError(resource+" id", prefix, "id cannot be empty")
	}

	var matches []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", errors.NewNotFoundError(resource, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", errors.NewInvalidInputError(resource+" id", prefix, "prefix matches more than one "+resource)
	}
}
