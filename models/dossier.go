// models/dossier.go
package models

import "time"

// Dossier is a case file grouping clients, contrats and documents.
type Dossier struct {
	ID         string    `bson:"id" json:"id"`
	CabinetID  string    `bson:"cabinet_id" json:"cabinet_id"`
	CreatedBy  string    `bson:"created_by" json:"created_by"`
	Name       string    `bson:"name" json:"name"`
	Status     string    `bson:"status" json:"status"` // "ouvert", "clos"
	ClientIDs  []string  `bson:"client_ids,omitempty" json:"client_ids,omitempty"`
	ContratIDs []string  `bson:"contrat_ids,omitempty" json:"contrat_ids,omitempty"`
	Documents  []Document `bson:"documents,omitempty" json:"documents,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// Document is an uploaded file attached to a dossier. StorageID is the
// storage provider identifier; the download URL is built on demand.
type Document struct {
	ID         string    `bson:"id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	MimeType   string    `bson:"mime_type" json:"mime_type"`
	StorageID  string    `bson:"storage_id" json:"-"`
	UploadedBy string    `bson:"uploaded_by" json:"uploaded_by"`
	UploadedAt time.Time `bson:"uploaded_at" json:"uploaded_at"`
}
