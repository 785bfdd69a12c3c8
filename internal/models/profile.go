package models

type Profile struct {
	ID      int    `json:"id"`
	LoginID string `json:"loginId,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Audit
}

type ProfileInput struct {
	LoginID string `json:"loginId,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}
