package domain

// Status is the workflow column of a work item
type Status string

const (
	StatusBacklog    Status = "BACKLOG"
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusInReview   Status = "IN_REVIEW"
	StatusDone       Status = "DONE"
)

// AllStatuses lists statuses in board column order
var AllStatuses = []Status{StatusBacklog, StatusTodo, StatusInProgress, StatusInReview, StatusDone}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusInProgress, StatusInReview, StatusDone:
		return true
	}
	return false
}

// IsOpen reports whether the item still counts as open work
func (s Status) IsOpen() bool {
	return s != StatusDone
}

// WorkItemType classifies a work item
type WorkItemType string

const (
	WorkItemTypeStory     WorkItemType = "STORY"
	WorkItemTypeTask      WorkItemType = "TASK"
	WorkItemTypeBugUrgent WorkItemType = "BUG_URGENT"
	WorkItemTypeBugMinor  WorkItemType = "BUG_MINOR"
	WorkItemTypeTicket    WorkItemType = "TICKET"
	WorkItemTypeEpic      WorkItemType = "EPIC"
)

// IsValid reports whether t is a known work item type
func (t WorkItemType) IsValid() bool {
	switch t {
	case WorkItemTypeStory, WorkItemTypeTask, WorkItemTypeBugUrgent,
		WorkItemTypeBugMinor, WorkItemTypeTicket, WorkItemTypeEpic:
		return true
	}
	return false
}

// SprintBinding records who placed an item into its sprint
type SprintBinding string

const (
	// SprintBindingManual means a user put the item into the sprint directly
	SprintBindingManual SprintBinding = "manual"
	// SprintBindingAuto means the item followed its epic into the sprint
	SprintBindingAuto SprintBinding = "auto"
)

// SprintState is the lifecycle state of a sprint
type SprintState string

const (
	SprintStatePlanned SprintState = "PLANNED"
	SprintStateActive  SprintState = "ACTIVE"
	SprintStateClosed  SprintState = "CLOSED"
	SprintStateDeleted SprintState = "DELETED"
)

// IsTerminal reports whether the scheduler leaves the state alone
func (s SprintState) IsTerminal() bool {
	return s == SprintStateClosed || s == SprintStateDeleted
}

// EpicStatus is the lifecycle status of an epic
type EpicStatus string

const (
	EpicStatusActive   EpicStatus = "ACTIVE"
	EpicStatusOnHold   EpicStatus = "ON_HOLD"
	EpicStatusDone     EpicStatus = "DONE"
	EpicStatusArchived EpicStatus = "ARCHIVED"
	EpicStatusDeleted  EpicStatus = "DELETED"
)

// IsValid reports whether s is a known epic status
func (s EpicStatus) IsValid() bool {
	switch s {
	case EpicStatusActive, EpicStatusOnHold, EpicStatusDone, EpicStatusArchived, EpicStatusDeleted:
		return true
	}
	return false
}

// RequiresClosedItems reports whether entering s needs every child item done
func (s EpicStatus) RequiresClosedItems() bool {
	return s == EpicStatusDone || s == EpicStatusArchived
}
