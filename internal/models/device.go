package models

// CompanionDevice is a paired surface (lock-screen control, widget) allowed to call the API.
type CompanionDevice struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	SecretHash string `json:"-"` // don’t expose hash
}
