package user

import (
	userRepo "neira/database/repository/user"
	"neira/models"
)

// UserService manages platform accounts and authentication.
type UserService interface {
	Register(req models.UserRegistrationRequest) (*AuthResponse, error)
	Authenticate(req models.UserLoginRequest) (*AuthResponse, error)

	GetUserByID(userID string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateFCMToken(userID, token string) error
	RevokeAuthToken(userID string) error
	DeleteUser(userID string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

// AuthResponse contains the authenticated user's ID and token.
type AuthResponse struct {
	ID         string `json:"id"`
	Token      string `json:"token"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Profession string `json:"profession,omitempty"`
}
