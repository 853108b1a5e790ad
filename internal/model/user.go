package model

import "time"

// User mirrors an identity from the external auth provider.
type User struct {
	ID                 string    `json:"user_id" db:"user_id"`
	Username           string    `json:"username" db:"username"`
	Email              string    `json:"email" db:"email"`
	AutoLocationFilter bool      `json:"auto_location_filter" db:"auto_location_filter"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}
