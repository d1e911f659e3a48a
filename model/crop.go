package model

import "time"

type Crop struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Variety        string    `json:"variety,omitempty"`
	Season         string    `json:"season,omitempty"`
	DaysToMaturity int       `json:"days_to_maturity"`
	CreatedAt      time.Time `json:"created_at"`
}
