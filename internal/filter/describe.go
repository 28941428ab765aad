package filter

import (
	"fmt"
	"strings"

	"taskSearch/internal/models/task"
)

const (
	DescribeSeparator = " • "
	NoFilters         = "No filters"
)

// Describe выводит активные условия короткими фразами в порядке
// text, status, priority, tags, created, due, overdue
func Describe(spec Spec) string {
	spec = spec.Normalize()
	parts := []string{}

	for _, clause := range spec.ActiveClauses() {
		switch clause {
		case ClauseText:
			parts = append(parts, fmt.Sprintf("Text: %q", spec.Text))
		case ClauseStatus:
			parts = append(parts, "Status: "+joinStatuses(spec.Status))
		case ClausePriority:
			parts = append(parts, "Priority: "+joinPriorities(spec.Priority))
		case ClauseTags:
			parts = append(parts, "Tags: "+strings.Join(spec.Tags, ", "))
		case ClauseCreatedDate:
			parts = append(parts, "Created: "+describeRange(spec.CreatedDateRange))
		case ClauseDueDate:
			parts = append(parts, "Due: "+describeRange(spec.DueDateRange))
		case ClauseOverdue:
			parts = append(parts, "Overdue only")
		}
	}

	if len(parts) == 0 {
		return NoFilters
	}
	return strings.Join(parts, DescribeSeparator)
}

func describeRange(r *DateRange) string {
	switch {
	case r.From != nil && r.To != nil:
		return r.From.Format(DateLayout) + " to " + r.To.Format(DateLayout)
	case r.From != nil:
		return "from " + r.From.Format(DateLayout)
	default:
		return "until " + r.To.Format(DateLayout)
	}
}

func joinStatuses(values []task.Status) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func joinPriorities(values []task.Priority) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
