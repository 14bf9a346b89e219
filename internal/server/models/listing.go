package models

import "time"

// Listing is an offers or wishes row joined with its owner's profile.
type Listing struct {
	ID          string
	UserID      string
	Title       string
	Description string
	CategoryID  string
	Status      string
	CreatedAt   time.Time

	OwnerName string
	OwnerArea string
}
