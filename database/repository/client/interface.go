package clientRepo

import "neira/models"

// ClientRepository defines persistence for cabinet clients.
type ClientRepository interface {
	Create(client *models.Client) error
	GetByID(id string) (*models.Client, error)
	ListByCabinet(cabinetID string) ([]models.Client, error)
	Update(client *models.Client) error
	Delete(id string) error
}
