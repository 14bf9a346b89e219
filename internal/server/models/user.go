// Package models defines server-side rows read from and written to the database.
package models

import "time"

// User is a marketplace profile. Identity itself lives in the hosted auth
// service; the id is the token subject.
type User struct {
	ID              string
	DisplayName     string
	PostcodeOutward string
	CreatedAt       time.Time
}

// UserStats summarises a user's exchange history and received feedback.
type UserStats struct {
	CompletedCount           int
	RecommendedCount         int
	TotalFeedback            int
	RecommendationPercentage int
}
