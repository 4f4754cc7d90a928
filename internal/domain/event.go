package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChangeField names the field a change event is about
type ChangeField string

const (
	ChangeFieldStatus    ChangeField = "status"
	ChangeFieldAssignee  ChangeField = "assignee"
	ChangeFieldDueDate   ChangeField = "dueDate"
	ChangeFieldComment   ChangeField = "comment"
	ChangeFieldChecklist ChangeField = "checklist"
)

// EventTypeItemUpdated is the only event type emitted for work items
const EventTypeItemUpdated = "ITEM_UPDATED"

// Change is one variant of the item change union
type Change interface {
	Field() ChangeField
}

// StatusChange records a workflow move
type StatusChange struct {
	From Status `json:"from"`
	To   Status `json:"to"`
}

func (StatusChange) Field() ChangeField { return ChangeFieldStatus }

// AssigneeChange records a new owner
type AssigneeChange struct {
	From *uuid.UUID `json:"from"`
	To   *uuid.UUID `json:"to"`
}

func (AssigneeChange) Field() ChangeField { return ChangeFieldAssignee }

// DueDateChange records a moved deadline
type DueDateChange struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

func (DueDateChange) Field() ChangeField { return ChangeFieldDueDate }

// CommentAdded records a new comment
type CommentAdded struct {
	CommentID uuid.UUID `json:"comment_id"`
	Preview   string    `json:"preview"`
}

func (CommentAdded) Field() ChangeField { return ChangeFieldComment }

// ChecklistChange records a change in how many checklist entries are done
type ChecklistChange struct {
	From ChecklistProgress `json:"from"`
	To   ChecklistProgress `json:"to"`
}

func (ChecklistChange) Field() ChangeField { return ChangeFieldChecklist }

// ItemRef is the slice of a work item an event recipient needs
type ItemRef struct {
	ID         uuid.UUID  `json:"id"`
	BoardID    uuid.UUID  `json:"board_id"`
	Title      string     `json:"title"`
	CreatedBy  uuid.UUID  `json:"created_by"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty"`
}

// RefOf builds the event reference for item
func RefOf(item WorkItem) ItemRef {
	return ItemRef{
		ID:         item.ID,
		BoardID:    item.BoardID,
		Title:      item.Title,
		CreatedBy:  item.ReporterID,
		AssigneeID: item.AssigneeID,
	}
}

// ItemUpdateEvent is emitted once per logical change to a work item
type ItemUpdateEvent struct {
	Type     string      `json:"type"`
	Item     ItemRef     `json:"item"`
	Change   Change      `json:"change"`
	Watchers []uuid.UUID `json:"watchers"`
	ActorID  uuid.UUID   `json:"actor_id"`
	At       time.Time   `json:"at"`
}

// NewItemUpdateEvent builds an event for item
func NewItemUpdateEvent(item WorkItem, change Change, actorID uuid.UUID, at time.Time) ItemUpdateEvent {
	watchers := make([]uuid.UUID, len(item.Watchers))
	copy(watchers, item.Watchers)
	return ItemUpdateEvent{
		Type:     EventTypeItemUpdated,
		Item:     RefOf(item),
		Change:   change,
		Watchers: watchers,
		ActorID:  actorID,
		At:       at,
	}
}

// IsRelevantTo applies the recipient guard: creator, assignee or watcher
func (e ItemUpdateEvent) IsRelevantTo(userID uuid.UUID) bool {
	if e.Item.CreatedBy == userID {
		return true
	}
	if e.Item.AssigneeID != nil && *e.Item.AssigneeID == userID {
		return true
	}
	for _, id := range e.Watchers {
		if id == userID {
			return true
		}
	}
	return false
}

// Recipients lists the relevant users once each, leaving out the actor
func (e ItemUpdateEvent) Recipients() []uuid.UUID {
	candidates := make([]uuid.UUID, 0, len(e.Watchers)+2)
	candidates = append(candidates, e.Item.CreatedBy)
	if e.Item.AssigneeID != nil {
		candidates = append(candidates, *e.Item.AssigneeID)
	}
	candidates = append(candidates, e.Watchers...)

	seen := make(map[uuid.UUID]bool, len(candidates))
	out := make([]uuid.UUID, 0, len(candidates))
	for _, id := range candidates {
		if id == uuid.Nil || id == e.ActorID || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

type changeEnvelope struct {
	Field ChangeField     `json:"field"`
	Data  json.RawMessage `json:"data"`
}

type itemUpdateEventJSON struct {
	Type     string         `json:"type"`
	Item     ItemRef        `json:"item"`
	Change   changeEnvelope `json:"change"`
	Watchers []uuid.UUID    `json:"watchers"`
	ActorID  uuid.UUID      `json:"actor_id"`
	At       time.Time      `json:"at"`
}

// MarshalJSON tags the change with its field name
func (e ItemUpdateEvent) MarshalJSON() ([]byte, error) {
	if e.Change == nil {
		return nil, fmt.Errorf("item update event without change")
	}
	data, err := json.Marshal(e.Change)
	if err != nil {
		return nil, err
	}
	return json.Marshal(itemUpdateEventJSON{
		Type:     e.Type,
		Item:     e.Item,
		Change:   changeEnvelope{Field: e.Change.Field(), Data: data},
		Watchers: e.Watchers,
		ActorID:  e.ActorID,
		At:       e.At,
	})
}

// UnmarshalJSON restores the concrete change variant from its field tag
func (e *ItemUpdateEvent) UnmarshalJSON(b []byte) error {
	var raw itemUpdateEventJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var change Change
	switch raw.Change.Field {
	case ChangeFieldStatus:
		var c StatusChange
		if err := json.Unmarshal(raw.Change.Data, &c); err != nil {
			return err
		}
		change = c
	case ChangeFieldAssignee:
		var c AssigneeChange
		if err := json.Unmarshal(raw.Change.Data, &c); err != nil {
			return err
		}
		change = c
	case ChangeFieldDueDate:
		var c DueDateChange
		if err := json.Unmarshal(raw.Change.Data, &c); err != nil {
			return err
		}
		change = c
	case ChangeFieldComment:
		var c CommentAdded
		if err := json.Unmarshal(raw.Change.Data, &c); err != nil {
			return err
		}
		change = c
	case ChangeFieldChecklist:
		var c ChecklistChange
		if err := json.Unmarshal(raw.Change.Data, &c); err != nil {
			return err
		}
		change = c
	default:
		return fmt.Errorf("unknown change field %q", raw.Change.Field)
	}

	*e = ItemUpdateEvent{
		Type:     raw.Type,
		Item:     raw.Item,
		Change:   change,
		Watchers: raw.Watchers,
		ActorID:  raw.ActorID,
		At:       raw.At,
	}
	return nil
}
