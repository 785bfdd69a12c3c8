package models

import (
	"time"
)

type Event struct {
	ID          int        `json:"id"`
	BoatID      int        `json:"boatId"`
	Name        string     `json:"name"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	MinCrew     *int       `json:"minCrew"`
	DesiredCrew *int       `json:"desiredCrew"`
	MaxCrew     *int       `json:"maxCrew"`
	Audit
}

// EventInput is the client-side payload for creating an event. Crew bounds
// are pointers so "not set" survives the trip to the validator; null and
// absent mean the same thing there.
type EventInput struct {
	BoatID      int        `json:"boatId"`
	Name        string     `json:"name"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	MinCrew     *int       `json:"minCrew,omitempty"`
	DesiredCrew *int       `json:"desiredCrew,omitempty"`
	MaxCrew     *int       `json:"maxCrew,omitempty"`
}
