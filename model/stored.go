package model

import (
	"time"

	"github.com/google/uuid"
)

// StoredTimeline is a timeline persisted in the database.
// Sections are stored separately, see StoredSection.
type StoredTimeline struct {
	ID          int       `json:"id"`
	RID         uuid.UUID `json:"rid"`
	Book        string    `json:"book"`
	NumSections int       `json:"num_sections"`
	Config      Metadata  `json:"config,omitempty"`
	// FirstInteractions holds both first interaction mappings under
	// "between" and "overall".
	FirstInteractions Metadata  `json:"first_interactions,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// StoredSection is one persisted section record of a timeline.
type StoredSection struct {
	ID           int       `json:"id"`
	TimelineID   int       `json:"timeline_id"`
	TimelineRID  uuid.UUID `json:"timeline_rid"`
	SectionIndex int       `json:"section_index"`
	Content      string    `json:"content,omitempty"`
	SectionRecord
	Embedding []float32 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	// Results
	Similarity float64 `json:"similarity,omitempty"`
}
