package userRepo

import (
	"neira/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines persistence for platform accounts.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(id string) error
	UpdateSetDocument(id string, updateDoc bson.M) error

	GetByIDWithProjection(id string, projection bson.M) (*models.User, error)
	GetByEmailWithProjection(email string, projection bson.M) (*models.User, error)
	GetByTokenHash(tokenHash string) (*models.User, error)
}
