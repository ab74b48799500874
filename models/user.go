// models/user.go
package models

import "time"

// User represents a platform account (avocat or notaire).
type User struct {
	ID           string    `bson:"id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	FirstName    string    `bson:"first_name" json:"first_name"`
	LastName     string    `bson:"last_name" json:"last_name"`
	Profession   string    `bson:"profession" json:"profession"` // "avocat" or "notaire"
	FCMToken     string    `bson:"fcm_token,omitempty" json:"fcm_token,omitempty"`
	TokenHash    string    `bson:"token_hash,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// UserRegistrationRequest carries the fields required to create an account.
type UserRegistrationRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Profession string `json:"profession" binding:"required,oneof=avocat notaire"`
}

// UserLoginRequest carries login credentials.
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
