// models/contrat.go
package models

import "time"

// Contrat statuses.
const (
	ContratStatusBrouillon = "brouillon"
	ContratStatusGenere    = "genere"
	ContratStatusComplete  = "complete"
	ContratStatusSigne     = "signe"
)

// Contrat is a contract document owned by a cabinet.
type Contrat struct {
	ID        string    `bson:"id" json:"id"`
	CabinetID string    `bson:"cabinet_id" json:"cabinet_id"`
	DossierID string    `bson:"dossier_id,omitempty" json:"dossier_id,omitempty"`
	CreatedBy string    `bson:"created_by" json:"created_by"`
	Type      string    `bson:"type" json:"type"`
	Status    string    `bson:"status" json:"status"`
	Contenu   string    `bson:"contenu" json:"contenu"`
	// Schema is the generated form schema attached as an opaque JSON blob.
	Schema []byte `bson:"schema,omitempty" json:"-"`
	// PartiesClients maps a party label ("Le Vendeur") to the client assigned to it.
	PartiesClients map[string]string `bson:"parties_clients,omitempty" json:"parties_clients,omitempty"`
	CreatedAt      time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `bson:"updated_at" json:"updated_at"`
}
