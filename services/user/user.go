package user

import (
	"fmt"
	"time"

	"neira/models"
	"neira/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const authTokenTTL = 72 * time.Hour

// ErrInvalidCredentials is returned when the email or password does not
// match. The string is deliberately identical for both cases.
var ErrInvalidCredentials = fmt.Errorf("email ou mot de passe incorrect")

// Register creates a new account and returns an authenticated session.
func (s *DefaultUserService) Register(req models.UserRegistrationRequest) (*AuthResponse, error) {
	existing, err := s.Repo.GetByEmailWithProjection(req.Email, bson.M{"id": 1})
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("un compte existe déjà avec cet email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Profession:   req.Profession,
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	utils.GetLogger().Info("user registered",
		zap.String("userID", u.ID), zap.String("profession", u.Profession))
	return s.issueToken(u)
}

// Authenticate verifies credentials and returns a fresh session token.
func (s *DefaultUserService) Authenticate(req models.UserLoginRequest) (*AuthResponse, error) {
	u, err := s.Repo.GetByEmailWithProjection(req.Email, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(u)
}

// issueToken generates a JWT, stores its hash for revocation checks and
// builds the auth response.
func (s *DefaultUserService) issueToken(u *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateToken(u.ID, u.Email, authTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.Repo.UpdateSetDocument(u.ID, bson.M{"token_hash": utils.HashToken(token)}); err != nil {
		return nil, fmt.Errorf("failed to store token hash: %w", err)
	}
	return &AuthResponse{
		ID:         u.ID,
		Token:      token,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Profession: u.Profession,
	}, nil
}

// GetUserByID fetches a user by ID without the password hash.
func (s *DefaultUserService) GetUserByID(userID string) (*models.User, error) {
	u, err := s.Repo.GetByIDWithProjection(userID, bson.M{"password_hash": 0})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user with id %s not found", userID)
	}
	return u, nil
}

// GetUserByEmail fetches a user by email without the password hash.
func (s *DefaultUserService) GetUserByEmail(email string) (*models.User, error) {
	u, err := s.Repo.GetByEmailWithProjection(email, bson.M{"password_hash": 0})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user with email %s not found", email)
	}
	return u, nil
}

// UpdateFCMToken stores the device token used for pushes.
func (s *DefaultUserService) UpdateFCMToken(userID, token string) error {
	return s.Repo.UpdateSetDocument(userID, bson.M{"fcm_token": token})
}

// RevokeAuthToken invalidates the user's current session token, evicting the
// cached session so the revocation is immediate.
func (s *DefaultUserService) RevokeAuthToken(userID string) error {
	u, err := s.Repo.GetByIDWithProjection(userID, bson.M{"token_hash": 1})
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}
	if u != nil && u.TokenHash != "" {
		if err := utils.DeleteAuthSession(utils.GetAuthCacheClient(), u.TokenHash); err != nil {
			utils.GetLogger().Warn("failed to evict auth session", zap.Error(err))
		}
	}
	return s.Repo.UpdateSetDocument(userID, bson.M{"token_hash": ""})
}

// DeleteUser removes the account and its cached session.
func (s *DefaultUserService) DeleteUser(userID string) error {
	if err := s.RevokeAuthToken(userID); err != nil {
		return err
	}
	return s.Repo.Delete(userID)
}
