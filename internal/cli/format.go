package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/calvinalkan/handled/internal/agenda"
	"github.com/calvinalkan/handled/internal/task"
)

// Length of the id prefix shown in listings. Any unique prefix is accepted
// back as input.
const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}

	return id[:shortIDLen]
}

// formatTaskLine renders a task as one listing row.
func formatTaskLine(t task.Task, now time.Time) string {
	mark := " "
	if t.IsCompleted {
		mark = "x"
	}

	return fmt.Sprintf("  [%s] %s  %s  (%s)", mark, shortID(t.ID), t.Summary, agenda.FormatReminder(t.Reminder, now))
}

// formatTask renders every field of a task.
func formatTask(t task.Task, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "id: %s\n", t.ID)
	fmt.Fprintf(&b, "summary: %s\n", t.Summary)
	fmt.Fprintf(&b, "kind: %s\n", t.Kind)
	fmt.Fprintf(&b, "reminder: %s\n", agenda.FormatReminder(t.Reminder, now))

	status := "open"
	if t.IsCompleted {
		status = "done " + t.CompletedAt.In(now.Location()).Format(time.RFC3339)
	}

	fmt.Fprintf(&b, "status: %s\n", status)
	fmt.Fprintf(&b, "created: %s\n", t.CreatedAt.In(now.Location()).Format(time.RFC3339))
	fmt.Fprintf(&b, "audio: %t\n", t.HasAudio)

	if t.IsBuyIntent {
		fmt.Fprintf(&b, "buy: %s\n", t.BuyLink)
	}

	if len(t.ChecklistItems) > 0 {
		b.WriteString("checklist:\n")

		for _, item := range t.ChecklistItems {
			fmt.Fprintf(&b, "  - [ ] %s\n", item)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", t.FullText)

	return b.String()
}

// emptyStateMessage is what an empty agenda says.
func emptyStateMessage(state agenda.EmptyState) string {
	switch state {
	case agenda.EmptyNoTasks:
		return "Nothing captured yet. Try: capture <what's on your mind>"
	case agenda.EmptyAllDone:
		return "All done. Nice work."
	default:
		return ""
	}
}
