package dossierRepo

import "neira/models"

// DossierRepository defines persistence for case files and their attached documents.
type DossierRepository interface {
	Create(dossier *models.Dossier) error
	GetByID(id string) (*models.Dossier, error)
	ListByCabinet(cabinetID string) ([]models.Dossier, error)
	Update(dossier *models.Dossier) error
	AddDocument(dossierID string, doc models.Document) error
	RemoveDocument(dossierID, documentID string) error
	Delete(id string) error
}
