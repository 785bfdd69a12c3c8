package models

// DefaultBoatImage is used when a boat is registered without a picture.
const DefaultBoatImage = "/images/defaultboat.png"

type Boat struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ProfileID   int    `json:"profileId"`
	Audit
}

// BoatInput is the client-side payload for registering a boat. The server
// assigns the id and audit fields.
type BoatInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ProfileID   int    `json:"profileId"`
}
