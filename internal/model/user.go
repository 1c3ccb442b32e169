package model

import "time"

// User is the profile document kept in the Users collection, keyed by the
// identity uid. Created lazily on first sign-in; username never changes
// afterwards.
type User struct {
	UID          string    `json:"uid" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}
