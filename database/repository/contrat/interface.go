package contratRepo

import "neira/models"

// ContratRepository defines persistence for contract documents.
type ContratRepository interface {
	Create(contrat *models.Contrat) error
	GetByID(id string) (*models.Contrat, error)
	ListByCabinet(cabinetID string) ([]models.Contrat, error)
	ListByDossier(dossierID string) ([]models.Contrat, error)
	Update(contrat *models.Contrat) error
	UpdateStatus(id, status string) error
	Delete(id string) error
}
