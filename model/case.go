package model

import "time"

type CaseStatus string

const (
	CaseStatusDraft     CaseStatus = "draft"
	CaseStatusActive    CaseStatus = "active"
	CaseStatusCompleted CaseStatus = "completed"
)

// CropCase is a single crop plan: a crop grown by a user on a given area
// starting at a given date.
type CropCase struct {
	ID           int        `json:"id"`
	UserID       int        `json:"user_id"`
	CropID       int        `json:"crop_id"`
	Title        string     `json:"title"`
	AreaHectares float64    `json:"area_hectares"`
	StartDate    time.Time  `json:"start_date"`
	Status       CaseStatus `json:"status"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
