package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"sprint-board-api/internal/domain"
)

// Toast is the coalesced summary a recipient sees for one item
type Toast struct {
	ItemID           uuid.UUID `json:"item_id"`
	BoardID          uuid.UUID `json:"board_id"`
	Title            string    `json:"title"`
	Changes          []string  `json:"changes"`
	HighlightSection string    `json:"highlight_section"`
	ActorID          uuid.UUID `json:"actor_id"`
	At               time.Time `json:"at"`
}

// HighlightSection maps a change field to the detail view section to focus
func HighlightSection(field domain.ChangeField) string {
	switch field {
	case domain.ChangeFieldStatus:
		return "status"
	case domain.ChangeFieldAssignee:
		return "assignee"
	case domain.ChangeFieldDueDate:
		return "dueDate"
	}
	return "title"
}

// Summarize renders one change as a toast line
func Summarize(change domain.Change) string {
	switch c := change.(type) {
	case domain.StatusChange:
		return fmt.Sprintf("Status changed to %s", c.To)
	case domain.AssigneeChange:
		if c.To == nil {
			return "Assignee removed"
		}
		return fmt.Sprintf("Assigned to %s", c.To.String())
	case domain.DueDateChange:
		if c.To == nil {
			return "Due date cleared"
		}
		return fmt.Sprintf("Due date moved to %s", c.To.Format("2006-01-02"))
	case domain.CommentAdded:
		return "New comment"
	case domain.ChecklistChange:
		return fmt.Sprintf("Checklist %s done", c.To)
	case nil:
		return "Item updated"
	}
	return fmt.Sprintf("%s updated", change.Field())
}

// merge folds event into t, keeping changes unique in arrival order
func (t Toast) merge(event domain.ItemUpdateEvent) Toast {
	line := Summarize(event.Change)
	changes := make([]string, 0, len(t.Changes)+1)
	seen := false
	for _, c := range t.Changes {
		if c == line {
			seen = true
		}
		changes = append(changes, c)
	}
	if !seen {
		changes = append(changes, line)
	}

	var field domain.ChangeField
	if event.Change != nil {
		field = event.Change.Field()
	}
	return Toast{
		ItemID:           event.Item.ID,
		BoardID:          event.Item.BoardID,
		Title:            event.Item.Title,
		Changes:          changes,
		HighlightSection: HighlightSection(field),
		ActorID:          event.ActorID,
		At:               event.At,
	}
}
