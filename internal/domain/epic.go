package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ICE bounds and defaults
const (
	ICEMin     = 1
	ICEMax     = 10
	ICEDefault = 5

	DefaultEpicName = "Untitled Epic"
)

// EpicColors is the palette new epics cycle through
var EpicColors = []string{
	"#6366F1", "#EC4899", "#F59E0B", "#10B981", "#3B82F6", "#8B5CF6", "#EF4444", "#14B8A6",
}

// Epic is an ICE-scored grouping of work items
type Epic struct {
	BaseModel
	BoardID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_epics_board_id" json:"board_id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Color       string     `gorm:"type:varchar(20)" json:"color"`
	Status      EpicStatus `gorm:"type:varchar(20);not null;index:idx_epics_status" json:"status"`
	Impact      int        `gorm:"not null" json:"impact"`
	Confidence  int        `gorm:"not null" json:"confidence"`
	Ease        int        `gorm:"not null" json:"ease"`
	ICEScore    float64    `gorm:"column:ice_score;not null" json:"ice_score"`
	ArchivedAt  *time.Time `gorm:"type:timestamp" json:"archived_at,omitempty"`
	DeletedAt   *time.Time `gorm:"type:timestamp" json:"deleted_at,omitempty"`
}

// TableName specifies the table name for Epic
func (Epic) TableName() string {
	return "epics"
}

// Info returns the denormalized snapshot stored on work items
func (e Epic) Info() EpicInfo {
	return EpicInfo{ID: e.ID, Name: e.Name, Color: e.Color}
}

// IsDeleted reports whether the epic is soft-deleted
func (e Epic) IsDeleted() bool {
	return e.Status == EpicStatusDeleted
}

// ColorFor picks the palette color for the n-th epic on a board
func ColorFor(n int) string {
	if n < 0 {
		n = 0
	}
	return EpicColors[n%len(EpicColors)]
}

// ComputeICEScore averages impact, confidence and ease rounded to 2 decimals
func ComputeICEScore(impact, confidence, ease int) float64 {
	avg := float64(impact+confidence+ease) / 3
	return math.Round(avg*100) / 100
}

// EnrichedEpic is an epic plus the progress derived from its child items
type EnrichedEpic struct {
	Epic
	OpenItemsCount      int     `json:"open_items_count"`
	TotalItemsCount     int     `json:"total_items_count"`
	TotalEstimation     float64 `json:"total_estimation"`
	DoneEstimation      float64 `json:"done_estimation"`
	PercentDoneWeighted float64 `json:"percent_done_weighted"`
}
